package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/quicktrans/internal/db/models"
	"github.com/pysugar/quicktrans/internal/events"
	"gorm.io/gorm"
)

const (
	// DefaultLimit applies when a caller passes no positive limit.
	DefaultLimit = 50
	// TimeLayout is RFC3339 with fixed-width nanoseconds.
	TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("translation record not found")

// PersistenceError wraps a failed database operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// HistoryStore records completed translations.
type HistoryStore struct {
	db        *gorm.DB
	publisher events.Publisher
	now       func() time.Time
}

// NewHistoryStore wraps an initialized database. publisher may be nil.
func NewHistoryStore(db *gorm.DB, publisher events.Publisher) *HistoryStore {
	return &HistoryStore{db: db, publisher: publisher, now: time.Now}
}

// Save inserts a new record and returns its id. Identical content saved twice
// yields two records.
func (s *HistoryStore) Save(ctx context.Context, sourceText, translatedText, sourceLang, targetLang string) (string, error) {
	rec := models.TranslationRecord{
		ID:             uuid.NewString(),
		SourceText:     sourceText,
		TranslatedText: translatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		CreatedAt:      s.now().UTC().Format(TimeLayout),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", &PersistenceError{Op: "save", Err: err}
	}
	events.Publish(s.publisher, events.TypeHistorySaved, rec)
	return rec.ID, nil
}

// History returns records newest first.
func (s *HistoryStore) History(ctx context.Context, limit, offset int) ([]models.TranslationRecord, error) {
	limit, offset = normalizePage(limit, offset)
	var records []models.TranslationRecord
	err := s.newest(ctx).Offset(offset).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, &PersistenceError{Op: "history", Err: err}
	}
	return records, nil
}

// Search returns records whose source or translated text contains query,
// newest first. Matching is case-sensitive.
func (s *HistoryStore) Search(ctx context.Context, query string, limit int) ([]models.TranslationRecord, error) {
	limit, _ = normalizePage(limit, 0)
	var records []models.TranslationRecord
	err := s.newest(ctx).
		Where("instr(source_text, ?) > 0 OR instr(translated_text, ?) > 0", query, query).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, &PersistenceError{Op: "search", Err: err}
	}
	return records, nil
}

// Get returns a single record.
func (s *HistoryStore) Get(ctx context.Context, id string) (models.TranslationRecord, error) {
	var rec models.TranslationRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, &PersistenceError{Op: "get", Err: err}
	}
	return rec, nil
}

// Count returns the number of stored records.
func (s *HistoryStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.TranslationRecord{}).Count(&n).Error; err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return n, nil
}

// Delete removes the record with id and reports whether it existed.
func (s *HistoryStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TranslationRecord{})
	if res.Error != nil {
		return false, &PersistenceError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	events.Publish(s.publisher, events.TypeHistoryDeleted, map[string]string{"id": id})
	return true, nil
}

// Clear removes every record and returns how many were removed.
func (s *HistoryStore) Clear(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Exec("DELETE FROM translation_history")
	if res.Error != nil {
		return 0, &PersistenceError{Op: "clear", Err: res.Error}
	}
	log.Printf("[history] cleared (%d records)", res.RowsAffected)
	events.Publish(s.publisher, events.TypeHistoryCleared, map[string]int64{"removed": res.RowsAffected})
	return res.RowsAffected, nil
}

// newest orders by creation time; rowid breaks ties between records stamped
// in the same nanosecond.
func (s *HistoryStore) newest(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.TranslationRecord{}).
		Order("created_at DESC").
		Order("rowid DESC")
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
