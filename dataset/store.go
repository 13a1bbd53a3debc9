package dataset

import (
	"errors"
	"fmt"
	"os"
	"sync"

	dbadapter "github.com/teralab/itemdex/db"
	"github.com/teralab/itemdex/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoreFile is the conventional name of the item database inside a dataset
// folder.
const StoreFile = "ItemDatabase.sqlite"

// ErrNotOpen is returned by store operations before Open has succeeded.
var ErrNotOpen = errors.New("dataset: no store open")

// Store owns the connection to exactly one dataset's database at a time.
// Open switches datasets by tearing down the previous connection first; the
// caller is responsible for cancelling and awaiting any in-flight search
// before switching.
type Store struct {
	mu       sync.Mutex
	db       *gorm.DB
	location string
	logger   *zap.Logger
}

// NewStore creates an unopened Store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// Open closes any previously open database and opens (or creates) the one at
// location. The schema is created only when the file did not already exist;
// an existing file is trusted as-is.
func (s *Store) Open(location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createNew := false
	if _, err := os.Stat(location); os.IsNotExist(err) {
		createNew = true
	}

	if err := s.closeLocked(); err != nil {
		return err
	}

	db, err := dbadapter.Open(dbadapter.ModeSQLite, location)
	if err != nil {
		return fmt.Errorf("dataset: open %s: %w", location, err)
	}
	if createNew {
		if err := model.Migrate(db); err != nil {
			return fmt.Errorf("dataset: create schema %s: %w", location, err)
		}
		s.logger.Info("dataset schema created", zap.String("location", location))
	}

	s.db = db
	s.location = location
	s.logger.Info("dataset opened", zap.String("location", location))
	return nil
}

// OpenDB attaches an already-open database, used by tests to run the store
// against an in-memory connection.
func (s *Store) OpenDB(db *gorm.DB, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.closeLocked()
	s.db = db
	s.location = location
}

// DB returns the open database handle, or nil when nothing is open.
func (s *Store) DB() *gorm.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Location returns the path of the open dataset, or "".
func (s *Store) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// IsEmpty reports whether the items table has zero rows. Emptiness is the
// sole gate for one-time ingestion.
func (s *Store) IsEmpty() (bool, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return false, ErrNotOpen
	}
	var count int64
	if err := db.Model(&model.Item{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("dataset: count items: %w", err)
	}
	return count == 0, nil
}

// Close releases the connection. Safe to call when nothing is open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Store) closeLocked() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	s.db = nil
	s.location = ""
	if err != nil {
		return fmt.Errorf("dataset: close: %w", err)
	}
	return nil
}
