package ingest

import (
	"testing"

	"github.com/teralab/itemdex/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems_OptionalDefaults(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "ItemData-00000.xml", `<?xml version="1.0"?>
<ItemData xmlns="https://vezel.dev/novadrop/dc/ItemData">
  <Item id="1" name="item_a" icon="icon.a" rareGrade="2" level="10" linkEquipmentId="5" category="axe"/>
  <Item id="2" name="item_b" icon="icon.b" rareGrade="0"/>
</ItemData>`)

	rows, report, err := ParseItems(dir, testutil.Logger(t))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, report.Skipped)

	assert.Equal(t, 10, rows[0].Level)
	assert.Equal(t, 5, rows[0].LinkEquipmentID)
	assert.Equal(t, "axe", rows[0].Category)

	// Absent optional attributes fall back to 0 / "".
	assert.Equal(t, 0, rows[1].Level)
	assert.Equal(t, 0, rows[1].LinkEquipmentID)
	assert.Equal(t, "", rows[1].Category)
}

func TestParseItems_TolerantSkips(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "ItemData-00000.xml", `<?xml version="1.0"?>
<ItemData>
  <Item id="1" name="a" icon="i" rareGrade="1"/>
  <Item name="missing_id" icon="i" rareGrade="1"/>
  <Item id="nan" name="b" icon="i" rareGrade="1"/>
  <Item id="3" name="c" icon="i" rareGrade="1" level="ten"/>
</ItemData>`)

	rows, report, err := ParseItems(dir, testutil.Logger(t))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, report.Rows)
	assert.Equal(t, 3, report.Skipped)
}

func TestParseItems_MultipleFilesAndMalformedFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "ItemData-00000.xml", `<ItemData><Item id="1" name="a" icon="i" rareGrade="1"/></ItemData>`)
	testutil.WriteFile(t, dir, "ItemData-00001.xml", `<ItemData><Item id="2" name="b" icon`)
	testutil.WriteFile(t, dir, "ItemData-00002.xml", `<ItemData><Item id="3" name="c" icon="i" rareGrade="1"/></ItemData>`)
	testutil.WriteFile(t, dir, "Other-00000.xml", `<ItemData><Item id="9" name="x" icon="i" rareGrade="1"/></ItemData>`)

	rows, report, err := ParseItems(dir, testutil.Logger(t))
	require.NoError(t, err)
	assert.Len(t, rows, 2, "malformed file is skipped, remaining files continue")
	assert.Equal(t, 3, report.Files, "only ItemData-*.xml files are read")
	assert.Len(t, report.FileErrors, 1)
}

func TestParseItems_MalformedFileDropsDecodedRows(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "ItemData-00000.xml", `<ItemData>
  <Item id="1" name="a" icon="i" rareGrade="1"/>
  <Item id="2" name="b" icon="i" rareGrade="1"/>
  <<<garbage`)

	rows, report, err := ParseItems(dir, testutil.Logger(t))
	require.NoError(t, err)
	assert.Empty(t, rows, "rows decoded before the syntax error do not survive")
	assert.Equal(t, 0, report.Rows)
	assert.Len(t, report.FileErrors, 1)
}

func TestParseItems_MissingDir(t *testing.T) {
	_, _, err := ParseItems(t.TempDir(), testutil.Logger(t))
	assert.ErrorIs(t, err, ErrSourceMissing)
}
