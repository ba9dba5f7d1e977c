package store

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"
)

type doc struct {
	Title string   `json:"title,omitempty"`
	Count int      `json:"count,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

func TestGet_NotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), 1, KindProfile, KeyProfile); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMergeWrite_OverlaysTopLevelFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.ReplaceWrite(ctx, 1, KindDailyLog, "2025-06-11", doc{Title: "a", Count: 1, Tags: []string{"x", "y"}}); err != nil {
		t.Fatal(err)
	}
	// Merging a partial keeps untouched fields and swaps arrays wholesale.
	if err := s.MergeWrite(ctx, 1, KindDailyLog, "2025-06-11", map[string]any{"tags": []string{"z"}}); err != nil {
		t.Fatal(err)
	}

	var got doc
	if err := GetAs(ctx, s, 1, KindDailyLog, "2025-06-11", &got); err != nil {
		t.Fatal(err)
	}
	want := doc{Title: "a", Count: 1, Tags: []string{"z"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestMergeWrite_CreatesMissingDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.MergeWrite(ctx, 1, KindStreak, KeyCurrent, doc{Count: 3}); err != nil {
		t.Fatal(err)
	}
	var got doc
	if err := GetAs(ctx, s, 1, KindStreak, KeyCurrent, &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 3 {
		t.Fatalf("got %+v", got)
	}
}

func TestReplaceWrite_DropsAbsentFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.ReplaceWrite(ctx, 1, KindDailyLog, "d", doc{Title: "a", Count: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceWrite(ctx, 1, KindDailyLog, "d", doc{Title: "b"}); err != nil {
		t.Fatal(err)
	}

	var got doc
	if err := GetAs(ctx, s, 1, KindDailyLog, "d", &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "b" || got.Count != 0 {
		t.Fatalf("replace must swap the whole document, got %+v", got)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.ReplaceWrite(ctx, 1, KindDietPlan, "p1", doc{Title: "plan"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, 1, KindDietPlan, "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, 1, KindDietPlan, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	// Deleting an absent document is not an error.
	if err := s.Delete(ctx, 2, KindDietPlan, "p1"); err != nil {
		t.Fatal(err)
	}
}

func TestList_ScopedToUserAndKind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.ReplaceWrite(ctx, 1, KindDailyLog, "2025-06-10", doc{Count: 1})
	s.ReplaceWrite(ctx, 1, KindDailyLog, "2025-06-11", doc{Count: 2})
	s.ReplaceWrite(ctx, 1, KindDietPlan, "p1", doc{Title: "plan"})
	s.ReplaceWrite(ctx, 2, KindDailyLog, "2025-06-11", doc{Count: 9})

	logs, err := s.List(ctx, 1, KindDailyLog)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("want 2 logs for user 1, got %d", len(logs))
	}
	if _, ok := logs["2025-06-10"]; !ok {
		t.Fatal("missing 2025-06-10")
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.ReplaceWrite(ctx, 1, KindDailyLog, "2025-06-11", doc{})
	s.ReplaceWrite(ctx, 3, KindDailyLog, "2025-06-11", doc{})
	s.ReplaceWrite(ctx, 2, KindDietPlan, "p1", doc{})

	ids, err := s.Users(ctx, KindDailyLog)
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if !reflect.DeepEqual(ids, []uint{1, 3}) {
		t.Fatalf("got %v", ids)
	}
}

func TestSubscribe_NotifiesOnWriteAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type change struct{ userID uint; kind, key string }
	var seen []change
	s.Subscribe(func(userID uint, kind, key string) {
		seen = append(seen, change{userID, kind, key})
	})

	s.ReplaceWrite(ctx, 1, KindDailyLog, "2025-06-11", doc{Count: 1})
	s.MergeWrite(ctx, 1, KindDailyLog, "2025-06-11", doc{Count: 2})
	s.Delete(ctx, 1, KindDailyLog, "2025-06-11")

	want := []change{
		{1, KindDailyLog, "2025-06-11"},
		{1, KindDailyLog, "2025-06-11"},
		{1, KindDailyLog, "2025-06-11"},
	}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("got %v", seen)
	}
}
