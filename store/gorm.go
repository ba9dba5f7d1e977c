package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is one persisted record. A (user, kind, key) triple identifies a
// document; Data holds the JSON payload.
type Document struct {
	gorm.Model
	UserID uint           `gorm:"uniqueIndex:idx_documents_ident;not null"`
	Kind   string         `gorm:"uniqueIndex:idx_documents_ident;type:varchar(64);not null"`
	Key    string         `gorm:"uniqueIndex:idx_documents_ident;type:varchar(64);not null"`
	Data   datatypes.JSON `gorm:"not null"`
}

// GormStore persists documents in a single table. Writes are last-write-wins;
// concurrent writers to the same document race and the later one sticks.
type GormStore struct {
	db *gorm.DB

	mu   sync.RWMutex
	subs []ChangeFunc
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, userID uint, kind, key string) (json.RawMessage, error) {
	var doc Document
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND key = ?", userID, kind, key).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(doc.Data), nil
}

func (s *GormStore) List(ctx context.Context, userID uint, kind string) (map[string]json.RawMessage, error) {
	var docs []Document
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(docs))
	for _, d := range docs {
		out[d.Key] = json.RawMessage(d.Data)
	}
	return out, nil
}

func (s *GormStore) MergeWrite(ctx context.Context, userID uint, kind, key string, partial any) error {
	payload, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.Where("user_id = ? AND kind = ? AND key = ?", userID, kind, key).
			First(&doc).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc = Document{UserID: userID, Kind: kind, Key: key, Data: datatypes.JSON(payload)}
			return tx.Create(&doc).Error
		case err != nil:
			return err
		}
		merged, err := mergeJSON(json.RawMessage(doc.Data), payload)
		if err != nil {
			return err
		}
		doc.Data = datatypes.JSON(merged)
		return tx.Save(&doc).Error
	})
	if err != nil {
		return err
	}
	s.notify(userID, kind, key)
	return nil
}

func (s *GormStore) ReplaceWrite(ctx context.Context, userID uint, kind, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.Where("user_id = ? AND kind = ? AND key = ?", userID, kind, key).
			First(&doc).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			doc = Document{UserID: userID, Kind: kind, Key: key, Data: datatypes.JSON(payload)}
			return tx.Create(&doc).Error
		case err != nil:
			return err
		}
		doc.Data = datatypes.JSON(payload)
		return tx.Save(&doc).Error
	})
	if err != nil {
		return err
	}
	s.notify(userID, kind, key)
	return nil
}

func (s *GormStore) Delete(ctx context.Context, userID uint, kind, key string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND key = ?", userID, kind, key).
		Delete(&Document{}).Error
	if err != nil {
		return err
	}
	s.notify(userID, kind, key)
	return nil
}

func (s *GormStore) Users(ctx context.Context, kind string) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&Document{}).
		Where("kind = ?", kind).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (s *GormStore) Subscribe(fn ChangeFunc) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *GormStore) notify(userID uint, kind, key string) {
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(userID, kind, key)
	}
}
