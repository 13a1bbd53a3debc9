package db

import (
	"fmt"

	dbsqlite "github.com/teralab/itemdex/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite = "sqlite"
	ModeMemory = "memory"
)

// Open returns a *gorm.DB for the given mode. ModeSQLite opens or creates
// the database file at path; ModeMemory opens a private in-memory database,
// used by tests.
func Open(mode, path string) (*gorm.DB, error) {
	switch mode {
	case ModeSQLite:
		return dbsqlite.Open(path)
	case ModeMemory:
		return dbsqlite.Open("file::memory:")
	default:
		return nil, fmt.Errorf("db: unknown mode %q", mode)
	}
}
