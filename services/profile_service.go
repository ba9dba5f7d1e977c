package services

import (
	"context"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/store"

	"go.uber.org/zap"
)

// ProfileService persists the onboarding profile and runs the save-and-
// regenerate flow: saving a profile recomputes goals and freezes them onto
// today's log, and optionally regenerates the diet plan.
type ProfileService struct {
	store    store.Store
	plans    *PlanService
	dailyLog *DailyLogService
	log      *zap.Logger
}

func NewProfileService(st store.Store, plans *PlanService, dailyLog *DailyLogService, log *zap.Logger) *ProfileService {
	return &ProfileService{store: st, plans: plans, dailyLog: dailyLog, log: log}
}

// Save merges the profile document, regenerates the plan when asked, and
// merges freshly computed goals into today's log. This is the only path that
// updates a log's frozen goal snapshot.
func (s *ProfileService) Save(ctx context.Context, userID uint, profile models.UserProfile, regenerate bool) error {
	if err := s.store.MergeWrite(ctx, userID, store.KindProfile, store.KeyProfile, profile); err != nil {
		return err
	}

	if regenerate {
		if _, err := s.plans.Generate(ctx, userID, profile); err != nil {
			// Plan generation failure does not roll back the profile save;
			// the caller reports it and the user can regenerate later.
			s.log.Warn("plan regeneration on profile save failed",
				zap.Uint("userID", userID), zap.Error(err))
		}
	}

	goals := CalculateGoals(&profile)
	if err := s.dailyLog.MergeGoals(ctx, userID, goals); err != nil {
		s.log.Warn("merging goals into today's log failed",
			zap.Uint("userID", userID), zap.Error(err))
	}
	return nil
}
