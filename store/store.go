package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Document kinds. Profile and streak are singletons (one well-known key per
// user), daily logs are keyed by date string, diet plans by generated id.
const (
	KindProfile  = "profile"
	KindDietPlan = "dietPlans"
	KindDailyLog = "dailyLogs"
	KindStreak   = "streak"
)

// Singleton document keys.
const (
	KeyProfile = "profile"
	KeyCurrent = "current"
)

var ErrNotFound = errors.New("store: document not found")

// ChangeFunc is invoked after a document is written or deleted. Callbacks run
// synchronously on the writing goroutine.
type ChangeFunc func(userID uint, kind, key string)

// Store is a per-user document store keyed by entity kind. Writes are
// last-write-wins; there is no compare-and-swap. MergeWrite merges the
// partial's top-level JSON fields into the existing document (arrays are
// replaced wholesale, not appended), ReplaceWrite swaps the whole document.
type Store interface {
	Get(ctx context.Context, userID uint, kind, key string) (json.RawMessage, error)
	List(ctx context.Context, userID uint, kind string) (map[string]json.RawMessage, error)
	MergeWrite(ctx context.Context, userID uint, kind, key string, partial any) error
	ReplaceWrite(ctx context.Context, userID uint, kind, key string, value any) error
	Delete(ctx context.Context, userID uint, kind, key string) error

	// Users lists every user id that has at least one document of the kind.
	Users(ctx context.Context, kind string) ([]uint, error)

	// Subscribe registers a change callback for all users.
	Subscribe(fn ChangeFunc)
}

// GetAs reads a document and unmarshals it into out. Returns ErrNotFound
// untouched so callers can branch on absence.
func GetAs(ctx context.Context, s Store, userID uint, kind, key string, out any) error {
	raw, err := s.Get(ctx, userID, kind, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// mergeJSON overlays the top-level fields of partial onto base. Both must be
// JSON objects; non-object bases are replaced entirely.
func mergeJSON(base, partial json.RawMessage) (json.RawMessage, error) {
	var dst map[string]json.RawMessage
	if len(base) > 0 {
		if err := json.Unmarshal(base, &dst); err != nil {
			dst = nil
		}
	}
	if dst == nil {
		dst = make(map[string]json.RawMessage)
	}
	var src map[string]json.RawMessage
	if err := json.Unmarshal(partial, &src); err != nil {
		return nil, err
	}
	for k, v := range src {
		dst[k] = v
	}
	return json.Marshal(dst)
}
