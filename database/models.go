// Package database stores BaZi readings in PostgreSQL.
//
// Storage is optional: the service runs without it and only saves readings
// when DB_ENABLED is set. Connections go through lib/pq and are handed to
// GORM, which owns the schema and queries.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bazi-fengshui/bazi"
)

// Database holds the GORM connection.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect opens a pooled connection for dsn.
func Connect(dsn string, log *zap.Logger) (*Database, error) {
	conn, err := openSQL(dsn)
	if err != nil {
		return nil, err
	}
	d, err := Open(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	log.Info("Database connection established")
	return d, nil
}

// Open wraps an existing connection.
func Open(conn *sql.DB) (*Database, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reading is one saved analysis.
type Reading struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BirthDate        string         `gorm:"type:varchar(10);not null;index" json:"birth_date"`
	BirthTime        string         `gorm:"type:varchar(8)" json:"birth_time,omitempty"`
	Model            string         `gorm:"type:varchar(10);not null" json:"model"`
	DayMaster        string         `gorm:"type:varchar(4);not null" json:"day_master"`
	DayMasterElement string         `gorm:"type:varchar(10);not null" json:"day_master_element"`
	Strength         string         `gorm:"type:varchar(10);not null" json:"strength"`
	LuckyElements    pq.StringArray `gorm:"type:text[]" json:"lucky_elements"`
	UnluckyElements  pq.StringArray `gorm:"type:text[]" json:"unlucky_elements"`
	Payload          string         `gorm:"type:jsonb;not null" json:"-"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Reading
func (Reading) TableName() string {
	return "readings"
}

// BeforeCreate assigns an id to new readings.
func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Analysis decodes the stored payload.
func (r *Reading) Analysis() (*bazi.Analysis, error) {
	var a bazi.Analysis
	if err := json.Unmarshal([]byte(r.Payload), &a); err != nil {
		return nil, fmt.Errorf("decode reading %s: %w", r.ID, err)
	}
	return &a, nil
}

// NewReading flattens an analysis into a row.
func NewReading(req bazi.Request, a *bazi.Analysis) (*Reading, error) {
	if a == nil {
		return nil, &InputError{Field: "analysis"}
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return &Reading{
		BirthDate:        req.BirthDate,
		BirthTime:        req.BirthTime,
		Model:            string(a.Model),
		DayMaster:        a.DayMaster,
		DayMasterElement: a.DayMasterElement.String(),
		Strength:         a.DayMasterStrength.String(),
		LuckyElements:    elementNames(a.LuckyElements),
		UnluckyElements:  elementNames(a.UnluckyElements),
		Payload:          string(payload),
	}, nil
}

func elementNames(elements []bazi.Element) pq.StringArray {
	out := make(pq.StringArray, len(elements))
	for i, e := range elements {
		out[i] = e.String()
	}
	return out
}
