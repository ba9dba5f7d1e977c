package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rishikeshvarma/NutriVision/models"
	"github.com/rishikeshvarma/NutriVision/store"
	"github.com/rishikeshvarma/NutriVision/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanGenerator produces raw diet-plan content for a profile.
type PlanGenerator interface {
	GenerateDietPlan(ctx context.Context, profile models.UserProfile) (string, error)
}

// PlanService owns the append-only diet plan history and the generation
// workflow. Generation serializes itself per user with an in-memory flag;
// that guards against rapid repeated triggers within this process, not
// against other processes of the same user.
type PlanService struct {
	store     store.Store
	generator PlanGenerator
	log       *zap.Logger

	mu       sync.Mutex
	inFlight map[uint]bool
	ensured  map[uint]string // userID -> date the daily check already ran for
}

func NewPlanService(st store.Store, gen PlanGenerator, log *zap.Logger) *PlanService {
	return &PlanService{
		store:     st,
		generator: gen,
		log:       log,
		inFlight:  make(map[uint]bool),
		ensured:   make(map[uint]string),
	}
}

// Generate calls the generative service and appends the result to the plan
// history with a fresh timestamp and the profile snapshot. On failure the
// history is left untouched. A call while a generation is already in flight
// for the user is a no-op and returns (nil, nil).
func (s *PlanService) Generate(ctx context.Context, userID uint, profile models.UserProfile) (*models.DietPlan, error) {
	s.mu.Lock()
	if s.inFlight[userID] {
		s.mu.Unlock()
		return nil, nil
	}
	s.inFlight[userID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, userID)
		s.mu.Unlock()
	}()

	content, err := s.generator.GenerateDietPlan(ctx, profile)
	if err != nil {
		s.log.Warn("plan generation failed", zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}

	plan := models.DietPlan{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		Content:         content,
		ProfileSnapshot: profile,
	}
	if err := s.store.ReplaceWrite(ctx, userID, store.KindDietPlan, plan.ID, plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Plans returns the plan history sorted newest first.
func (s *PlanService) Plans(ctx context.Context, userID uint) ([]models.DietPlan, error) {
	raw, err := s.store.List(ctx, userID, store.KindDietPlan)
	if err != nil {
		return nil, err
	}
	plans := make([]models.DietPlan, 0, len(raw))
	for key, payload := range raw {
		var plan models.DietPlan
		if err := json.Unmarshal(payload, &plan); err != nil {
			s.log.Warn("skipping unreadable diet plan",
				zap.Uint("userID", userID), zap.String("planID", key), zap.Error(err))
			continue
		}
		if plan.ID == "" {
			plan.ID = key
		}
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		ti, errI := time.Parse(time.RFC3339, plans[i].CreatedAt)
		tj, errJ := time.Parse(time.RFC3339, plans[j].CreatedAt)
		if errI != nil || errJ != nil {
			return plans[i].CreatedAt > plans[j].CreatedAt
		}
		return ti.After(tj)
	})
	return plans, nil
}

// Latest returns the most recent plan, or nil when history is empty.
func (s *PlanService) Latest(ctx context.Context, userID uint) (*models.DietPlan, error) {
	plans, err := s.Plans(ctx, userID)
	if err != nil || len(plans) == 0 {
		return nil, err
	}
	return &plans[0], nil
}

// EnsureDailyPlan generates a plan when the most recent one is not dated
// today. The check runs at most once per user per day in this process, so
// repeated dashboard loads do not cause generation storms. Reports whether a
// generation was triggered.
func (s *PlanService) EnsureDailyPlan(ctx context.Context, userID uint, profile models.UserProfile) (bool, error) {
	today := utils.Today()
	s.mu.Lock()
	if s.ensured[userID] == today {
		s.mu.Unlock()
		return false, nil
	}
	s.ensured[userID] = today
	s.mu.Unlock()

	latest, err := s.Latest(ctx, userID)
	if err != nil {
		return false, err
	}
	if latest != nil {
		if created, err := time.Parse(time.RFC3339, latest.CreatedAt); err == nil &&
			utils.DayString(created) == today {
			return false, nil
		}
	}

	if _, err := s.Generate(ctx, userID, profile); err != nil {
		return true, err
	}
	return true, nil
}

// Delete removes one plan from the history.
func (s *PlanService) Delete(ctx context.Context, userID uint, planID string) error {
	return s.store.Delete(ctx, userID, store.KindDietPlan, planID)
}
