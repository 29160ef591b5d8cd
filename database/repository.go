package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bazi-fengshui/bazi"
)

// Page size bounds for ListRecent
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ReadingRepository handles database operations for readings
type ReadingRepository struct {
	db *Database
}

// NewReadingRepository creates a new reading repository
func NewReadingRepository(db *Database) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// InitSchema creates or migrates the readings table
func (r *ReadingRepository) InitSchema() error {
	return wrapOp("InitSchema", r.db.db.AutoMigrate(&Reading{}))
}

// Save stores an analysis and returns the saved row
func (r *ReadingRepository) Save(ctx context.Context, req bazi.Request, a *bazi.Analysis) (*Reading, error) {
	reading, err := NewReading(req, a)
	if err != nil {
		return nil, err
	}
	if err := r.db.db.WithContext(ctx).Create(reading).Error; err != nil {
		return nil, wrapOp("SaveReading", err)
	}
	return reading, nil
}

// Get loads one reading by id
func (r *ReadingRepository) Get(ctx context.Context, id string) (*Reading, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, &InputError{Field: "reading id", Value: id}
	}

	var reading Reading
	err = r.db.db.WithContext(ctx).Where("id = ?", parsed).First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, wrapOp("GetReading", err)
	}
	return &reading, nil
}

// ListRecent returns the newest readings first
func (r *ReadingRepository) ListRecent(ctx context.Context, limit int) ([]Reading, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var readings []Reading
	err := r.db.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, wrapOp("ListRecentReadings", err)
	}
	return readings, nil
}
