package services

import (
	"context"
	"testing"

	"github.com/rishikeshvarma/NutriVision/store"
	"github.com/rishikeshvarma/NutriVision/utils"

	"go.uber.org/zap"
)

func newProfileFixture() (*store.MemoryStore, *DailyLogService, *ProfileService) {
	st := store.NewMemoryStore()
	dailyLog := NewDailyLogService(st, &recordingSink{}, zap.NewNop())
	plans := NewPlanService(st, &fakeGenerator{content: "plan"}, zap.NewNop())
	profiles := NewProfileService(st, plans, dailyLog, zap.NewNop())
	return st, dailyLog, profiles
}

func TestProfileSave_ClearsEmptiedFields(t *testing.T) {
	ctx := context.Background()
	_, dailyLog, profiles := newProfileFixture()

	first := testProfile()
	first.DietaryRestrictions = "vegan"
	first.Location = "Pune"
	first.CustomMedicalConditions = "lactose intolerance"
	if err := profiles.Save(ctx, 1, first, false); err != nil {
		t.Fatal(err)
	}

	// Re-saving with the optional fields emptied must clear the stored
	// values, not keep them through the merge.
	second := testProfile()
	if err := profiles.Save(ctx, 1, second, false); err != nil {
		t.Fatal(err)
	}

	got, err := dailyLog.Profile(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected a stored profile")
	}
	if got.DietaryRestrictions != "" || got.Location != "" || got.CustomMedicalConditions != "" {
		t.Fatalf("cleared fields survived the save: restrictions=%q location=%q medical=%q",
			got.DietaryRestrictions, got.Location, got.CustomMedicalConditions)
	}
	if got.Name != "Asha" || got.WaterIntakeGoal != 2000 {
		t.Fatalf("unrelated fields lost: %+v", got)
	}
}

func TestProfileSave_FreezesGoalsOntoTodayLog(t *testing.T) {
	ctx := context.Background()
	_, dailyLog, profiles := newProfileFixture()

	profile := testProfile()
	if err := profiles.Save(ctx, 1, profile, false); err != nil {
		t.Fatal(err)
	}

	log, err := dailyLog.LogForDate(ctx, 1, utils.Today())
	if err != nil {
		t.Fatal(err)
	}
	if log == nil {
		t.Fatal("expected today's log to carry the new goals")
	}
	if log.Goals() != CalculateGoals(&profile) {
		t.Fatalf("goals = %+v", log.Goals())
	}
}
