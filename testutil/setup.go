package testutil

import (
	"os"
	"path/filepath"
	"testing"

	dbadapter "github.com/teralab/itemdex/db"
	"github.com/teralab/itemdex/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory database with the dataset schema. It
// requires no files on disk and is safe to use in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(dbadapter.ModeMemory, "")
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.Migrate(db), "SetupTestDB: Migrate")
	return db
}

// Logger returns a development zap logger for tests.
func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	l, err := zap.NewDevelopment()
	require.NoError(t, err)
	return l
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteDatasetFixture lays out a minimal dataset folder: one equipment file,
// one item file and one localization file with matching IDs 1 and 2, where
// only item 1 links to equipment. Returns the dataset directory.
func WriteDatasetFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "EquipmentData/EquipmentData-00000.xml", `<?xml version="1.0"?>
<EquipmentData xmlns="https://vezel.dev/novadrop/dc/EquipmentData">
  <Equipment equipmentId="10" balance="1.15" def="42" impact="0.8" maxAtk="117"/>
</EquipmentData>`)
	WriteFile(t, dir, "ItemData/ItemData-00000.xml", `<?xml version="1.0"?>
<ItemData xmlns="https://vezel.dev/novadrop/dc/ItemData">
  <Item id="1" name="item_sword_1" icon="icon.item.sword" rareGrade="2" level="10" linkEquipmentId="10" category="axe"/>
  <Item id="2" name="item_bow_1" icon="icon.item.bow" rareGrade="1" category="bow"/>
</ItemData>`)
	WriteFile(t, dir, "StrSheet_Item/StrSheet_Item-00000.xml", `<?xml version="1.0"?>
<StrSheet_Item xmlns="https://vezel.dev/novadrop/dc/StrSheet_Item">
  <String id="1" string="Iron Sword" toolTip="A sturdy blade."/>
  <String id="2" string="Iron Bow"/>
</StrSheet_Item>`)
	return dir
}
