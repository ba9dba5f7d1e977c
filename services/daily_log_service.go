package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/store"
	"github.com/rishikeshvarma/NutriVision/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DailyLogService owns per-day logs: consumed-total aggregation, meal
// logging, food item removal and water tracking. Logs are created lazily in
// memory and persisted on first mutation. Writes are fire-and-forget: a
// failed store write is logged and the in-memory result is still returned.
type DailyLogService struct {
	store        store.Store
	celebrations CelebrationSink
	log          *zap.Logger
}

func NewDailyLogService(st store.Store, cs CelebrationSink, log *zap.Logger) *DailyLogService {
	return &DailyLogService{store: st, celebrations: cs, log: log}
}

// ConsumedTotals sums the absolute nutrition values of every food item across
// the log's meals.
func ConsumedTotals(log *models.DailyLog) models.Nutrition {
	var totals models.Nutrition
	if log == nil {
		return totals
	}
	for _, meal := range log.Meals {
		for _, item := range meal.Items {
			totals.Calories += item.Calories
			totals.Protein += item.Protein
			totals.Carbohydrates += item.Carbohydrates
			totals.Fats += item.Fat
		}
	}
	return totals
}

// PlaceholderLog builds the in-memory log used for a day that has no
// persisted record yet. It is not written to the store.
func PlaceholderLog(profile *models.UserProfile, date string) *models.DailyLog {
	goals := CalculateGoals(profile)
	return &models.DailyLog{
		ID:          date,
		Date:        date,
		Meals:       []models.Meal{},
		WaterIntake: 0,
		CalorieGoal: goals.CalorieGoal,
		ProteinGoal: goals.ProteinGoal,
		CarbGoal:    goals.CarbGoal,
		FatGoal:     goals.FatGoal,
	}
}

// Profile returns the user's profile, or nil when onboarding has not
// completed yet.
func (s *DailyLogService) Profile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := store.GetAs(ctx, s.store, userID, store.KindProfile, store.KeyProfile, &profile)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// LogForDate returns the persisted log for the date, or nil when none exists.
func (s *DailyLogService) LogForDate(ctx context.Context, userID uint, date string) (*models.DailyLog, error) {
	var log models.DailyLog
	err := store.GetAs(ctx, s.store, userID, store.KindDailyLog, date, &log)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Logs returns every persisted daily log keyed by date.
func (s *DailyLogService) Logs(ctx context.Context, userID uint) (map[string]models.DailyLog, error) {
	raw, err := s.store.List(ctx, userID, store.KindDailyLog)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.DailyLog, len(raw))
	for date, payload := range raw {
		var log models.DailyLog
		if err := json.Unmarshal(payload, &log); err != nil {
			s.log.Warn("skipping unreadable daily log",
				zap.Uint("userID", userID), zap.String("date", date), zap.Error(err))
			continue
		}
		out[date] = log
	}
	return out, nil
}

// TodayLog returns today's persisted log, or an in-memory placeholder when
// none exists yet. Returns nil before the profile exists.
func (s *DailyLogService) TodayLog(ctx context.Context, userID uint) (*models.DailyLog, error) {
	today := utils.Today()
	log, err := s.LogForDate(ctx, userID, today)
	if err != nil || log != nil {
		return log, err
	}
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	return PlaceholderLog(profile, today), nil
}

// todayLogOrPlaceholder is the mutation-side variant: profile is already
// loaded and a placeholder is always produced.
func (s *DailyLogService) todayLogOrPlaceholder(ctx context.Context, userID uint, profile *models.UserProfile) (*models.DailyLog, error) {
	today := utils.Today()
	log, err := s.LogForDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = PlaceholderLog(profile, today)
	}
	return log, nil
}

// AddMeal appends a meal with fresh identities to today's log and persists it
// with a merge write. A nil meal with nil error means the mutation was
// skipped because the profile does not exist yet.
func (s *DailyLogService) AddMeal(ctx context.Context, userID uint, name string, items []models.FoodItem) (*models.Meal, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	meal := models.Meal{
		ID:        uuid.NewString(),
		Name:      name,
		Items:     make([]models.FoodItem, len(items)),
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	for i, item := range items {
		item.ID = uuid.NewString()
		meal.Items[i] = item
	}

	log, err := s.todayLogOrPlaceholder(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	log.Meals = append(log.Meals, meal)

	if err := s.store.MergeWrite(ctx, userID, store.KindDailyLog, log.Date, log); err != nil {
		s.log.Warn("meal write failed", zap.Uint("userID", userID), zap.Error(err))
	}
	return &meal, nil
}

// AddWater adjusts today's water intake by amount (ml), clamping the total at
// zero. Crossing the profile's water goal from below emits a single shower
// celebration. Returns the updated log, or nil when skipped.
func (s *DailyLogService) AddWater(ctx context.Context, userID uint, amount int) (*models.DailyLog, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	log, err := s.todayLogOrPlaceholder(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	oldIntake := log.WaterIntake
	newIntake := oldIntake + amount
	if newIntake < 0 {
		newIntake = 0
	}
	log.WaterIntake = newIntake

	waterGoal := profile.WaterIntakeGoal
	if waterGoal <= 0 {
		waterGoal = 2000
	}
	if oldIntake < waterGoal && newIntake >= waterGoal {
		s.celebrations.Celebrate(userID, CelebrationShower)
	}

	if err := s.store.MergeWrite(ctx, userID, store.KindDailyLog, log.Date, log); err != nil {
		s.log.Warn("water write failed", zap.Uint("userID", userID), zap.Error(err))
	}
	return log, nil
}

// RemoveFoodItem deletes one item from a meal on the given date's log. A meal
// whose last item is removed is dropped entirely. The updated meal list is
// persisted with a replace write so the array is swapped wholesale.
func (s *DailyLogService) RemoveFoodItem(ctx context.Context, userID uint, mealID, itemID, date string) error {
	if date == "" {
		date = utils.Today()
	}
	log, err := s.LogForDate(ctx, userID, date)
	if err != nil {
		return err
	}
	if log == nil {
		return nil
	}

	meals := make([]models.Meal, 0, len(log.Meals))
	for _, meal := range log.Meals {
		if meal.ID == mealID {
			items := make([]models.FoodItem, 0, len(meal.Items))
			for _, item := range meal.Items {
				if item.ID != itemID {
					items = append(items, item)
				}
			}
			meal.Items = items
		}
		if len(meal.Items) > 0 {
			meals = append(meals, meal)
		}
	}
	log.Meals = meals

	if err := s.store.ReplaceWrite(ctx, userID, store.KindDailyLog, date, log); err != nil {
		s.log.Warn("food item removal write failed", zap.Uint("userID", userID), zap.Error(err))
	}
	return nil
}

// MergeGoals freezes a fresh goal snapshot onto today's log, preserving any
// meals and water already recorded. Only the profile-save path calls this;
// goals on a log never change otherwise.
func (s *DailyLogService) MergeGoals(ctx context.Context, userID uint, goals models.Goals) error {
	today := utils.Today()
	log, err := s.LogForDate(ctx, userID, today)
	if err != nil {
		return err
	}
	if log == nil {
		log = &models.DailyLog{ID: today, Date: today, Meals: []models.Meal{}}
	}
	log.CalorieGoal = goals.CalorieGoal
	log.ProteinGoal = goals.ProteinGoal
	log.CarbGoal = goals.CarbGoal
	log.FatGoal = goals.FatGoal

	return s.store.MergeWrite(ctx, userID, store.KindDailyLog, today, log)
}
