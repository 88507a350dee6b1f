// Package cartstore persists held carts (drafts) in a local SQLite
// database so a sale in progress survives CLI restarts.
package cartstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amanf244/mars4/internal/pos"
)

var ErrDraftNotFound = errors.New("draft not found")

// Draft is a held cart
type Draft struct {
	ID              string    `gorm:"primaryKey;type:varchar(26)"`
	Label           string    `gorm:"index"`
	TechnicianPrice bool
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	Items []DraftItem `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = ulid.Make().String()
	}
	return nil
}

// DraftItem is one cart line inside a draft
type DraftItem struct {
	ID       uint   `gorm:"primaryKey"`
	DraftID  string `gorm:"index;type:varchar(26)"`
	SKU      string
	Quantity int
}

// Store wraps the drafts database
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the drafts database at path
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open drafts database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=1",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			log.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	if err := db.AutoMigrate(&Draft{}, &DraftItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate drafts database: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Hold saves the cart's current lines as a new draft and returns it
func (s *Store) Hold(cart *pos.Cart, label string) (*Draft, error) {
	items := cart.Items()
	if len(items) == 0 {
		return nil, pos.ErrEmptyCart
	}

	draft := &Draft{
		Label:           label,
		TechnicianPrice: cart.TechnicianPrice(),
	}
	for _, item := range items {
		draft.Items = append(draft.Items, DraftItem{SKU: item.SKU, Quantity: item.Quantity})
	}

	if err := s.db.Create(draft).Error; err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.log.Debug().Str("draft_id", draft.ID).Int("lines", len(items)).Msg("cart held")
	return draft, nil
}

// List returns all drafts, newest first. ULIDs sort by creation time, so
// ordering by ID stays stable even when timestamps collide.
func (s *Store) List() ([]Draft, error) {
	var drafts []Draft
	if err := s.db.Preload("Items").Order("id DESC").Find(&drafts).Error; err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// Resume loads a draft back into a fresh cart and deletes the draft
func (s *Store) Resume(id string) (*pos.Cart, error) {
	var draft Draft
	err := s.db.Preload("Items").First(&draft, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	cart := pos.NewCart()
	for _, item := range draft.Items {
		cart.AddItem(item.SKU, item.Quantity)
	}
	cart.SetTechnicianPrice(draft.TechnicianPrice, nil)

	if err := s.Delete(id); err != nil {
		return nil, err
	}
	return cart, nil
}

// Delete removes a draft and its lines
func (s *Store) Delete(id string) error {
	result := s.db.Select("Items").Delete(&Draft{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete draft: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
