// Package location resolves subject ids to coordinates.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/weather-pipeline/pkg/weather"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a city is not stored.
var ErrNotFound = errors.New("city not found")

// CityModel represents the database model for cities
type CityModel struct {
	CityID    string  `gorm:"primaryKey;size:32"`
	Name      string  `gorm:"not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CityModel) TableName() string {
	return "cities"
}

// Open connects to the city database. Supported drivers are "sqlite" and "postgres".
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Store persists cities using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore creates a city store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the cities table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&CityModel{})
}

// Get retrieves a city by id.
func (s *Store) Get(ctx context.Context, id string) (weather.Location, error) {
	var model CityModel
	result := s.db.WithContext(ctx).Where("city_id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return weather.Location{}, ErrNotFound
		}
		return weather.Location{}, fmt.Errorf("find city %s: %w", id, result.Error)
	}
	return modelToLocation(model), nil
}

// Save inserts or updates a city.
func (s *Store) Save(ctx context.Context, loc weather.Location) error {
	if loc.ID == "" {
		return fmt.Errorf("city id cannot be empty")
	}

	model := CityModel{
		CityID:    loc.ID,
		Name:      loc.Name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "city_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "latitude", "longitude", "updated_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("save city %s: %w", loc.ID, result.Error)
	}
	return nil
}

// List returns all stored cities ordered by id.
func (s *Store) List(ctx context.Context) ([]weather.Location, error) {
	var models []CityModel
	if err := s.db.WithContext(ctx).Order("city_id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	out := make([]weather.Location, 0, len(models))
	for _, m := range models {
		out = append(out, modelToLocation(m))
	}
	return out, nil
}

// Seed stores every built-in city not already present and returns how many were added.
func (s *Store) Seed(ctx context.Context) (int, error) {
	added := 0
	for _, loc := range BuiltinLocations() {
		model := CityModel{CityID: loc.ID, Name: loc.Name, Latitude: loc.Latitude, Longitude: loc.Longitude}
		result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
		if result.Error != nil {
			return added, fmt.Errorf("seed city %s: %w", loc.ID, result.Error)
		}
		added += int(result.RowsAffected)
	}
	return added, nil
}

func modelToLocation(m CityModel) weather.Location {
	return weather.Location{
		ID:        m.CityID,
		Name:      m.Name,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
	}
}
