package services

import (
	"context"
	"errors"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/store"
	"github.com/rishikeshvarma/NutriVision/utils"

	"go.uber.org/zap"
)

// StreakService keeps the per-user count of consecutive days on which
// consumed calories met the day's calorie goal. Re-evaluated whenever the
// log set changes; only the two-day window of yesterday and today is ever
// inspected, so a streak broken further back collapses the same way as one
// broken yesterday.
type StreakService struct {
	store        store.Store
	celebrations CelebrationSink
	log          *zap.Logger
}

func NewStreakService(st store.Store, cs CelebrationSink, log *zap.Logger) *StreakService {
	return &StreakService{store: st, celebrations: cs, log: log}
}

// achieved reports whether the day's consumed calories reached its goal.
// A log whose calorie goal was never computed (zero) never counts.
func achieved(log *models.DailyLog) bool {
	if log == nil || log.CalorieGoal <= 0 {
		return false
	}
	return ConsumedTotals(log).Calories >= float64(log.CalorieGoal)
}

// computeStreak derives the new streak record from the two-day window and the
// previously stored record. Pure. A same-day re-run is a fixpoint only when
// yesterday was not achieved; with yesterday achieved, a record already
// anchored on today restarts the chain at yesterday, so the count collapses
// to two.
func computeStreak(todayLog, yesterdayLog *models.DailyLog, stored models.Streak, todayStr, yesterdayStr string) models.Streak {
	next := models.Streak{}

	carried := false
	if achieved(yesterdayLog) {
		carried = true
		// Reuse the persisted count only when it was already anchored on
		// yesterday; otherwise a fresh chain of length 1 starts there.
		if stored.LastDate == yesterdayStr {
			next.Count = stored.Count
		} else {
			next.Count = 1
		}
		next.LastDate = yesterdayStr
	}

	if achieved(todayLog) {
		switch {
		case carried:
			next.Count++
		case stored.LastDate != todayStr:
			next.Count = 1
		default:
			next.Count = stored.Count
		}
		next.LastDate = todayStr
	}

	return next
}

// Current returns the stored streak record, zero-valued when none exists.
func (s *StreakService) Current(ctx context.Context, userID uint) (models.Streak, error) {
	var streak models.Streak
	err := store.GetAs(ctx, s.store, userID, store.KindStreak, store.KeyCurrent, &streak)
	if errors.Is(err, store.ErrNotFound) {
		return models.Streak{}, nil
	}
	return streak, err
}

// Update re-evaluates the streak against today's and yesterday's logs,
// writing back only when the computed record differs from the stored one.
// A strict count increase emits the burst celebration.
func (s *StreakService) Update(ctx context.Context, userID uint) (models.Streak, error) {
	stored, err := s.Current(ctx, userID)
	if err != nil {
		return models.Streak{}, err
	}

	todayStr := utils.Today()
	yesterdayStr := utils.Yesterday()

	var todayLog, yesterdayLog *models.DailyLog
	var t, y models.DailyLog
	if err := store.GetAs(ctx, s.store, userID, store.KindDailyLog, todayStr, &t); err == nil {
		todayLog = &t
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.Streak{}, err
	}
	if err := store.GetAs(ctx, s.store, userID, store.KindDailyLog, yesterdayStr, &y); err == nil {
		yesterdayLog = &y
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.Streak{}, err
	}

	next := computeStreak(todayLog, yesterdayLog, stored, todayStr, yesterdayStr)
	if next == stored {
		return stored, nil
	}

	if next.Count > stored.Count {
		s.celebrations.Celebrate(userID, CelebrationBurst)
	}
	if err := s.store.MergeWrite(ctx, userID, store.KindStreak, store.KeyCurrent, next); err != nil {
		return models.Streak{}, err
	}
	return next, nil
}

// UpdateAll re-evaluates every user that has a streak or any daily log. Run
// by the midnight rollover job, since the two-day window shifts with the
// calendar even when no mutation happens.
func (s *StreakService) UpdateAll(ctx context.Context) {
	seen := map[uint]struct{}{}
	for _, kind := range []string{store.KindStreak, store.KindDailyLog} {
		ids, err := s.store.Users(ctx, kind)
		if err != nil {
			s.log.Error("listing users for streak rollover failed", zap.Error(err))
			return
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if _, err := s.Update(ctx, id); err != nil {
				s.log.Warn("streak rollover update failed", zap.Uint("userID", id), zap.Error(err))
			}
		}
	}
}
