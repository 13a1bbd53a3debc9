package model

import "gorm.io/gorm"

// allModels lists every model to be auto-migrated.
var allModels = []interface{}{
	&Item{},
	&EquipmentStats{},
	&LocalizedItem{},
}

// Migrate creates the three dataset tables and their indexes.
// Name lookups are case-insensitive substring matches, so the name index is
// built with COLLATE NOCASE; AutoMigrate cannot express that, hence the raw
// statement.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels...); err != nil {
		return err
	}
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_localized_items_name ON localized_items(name COLLATE NOCASE)",
	).Error
}
