package ingest

import (
	"path/filepath"

	"github.com/teralab/itemdex/model"
	"go.uber.org/zap"
)

// ParseItems reads every ItemData-*.xml document under dir. id, name, icon
// and rareGrade are required; level, linkEquipmentId and category are
// optional with defaults 0, 0 and "". A malformed file is recorded and
// skipped whole, rows decoded before the error included, without stopping
// the remaining files.
func ParseItems(dir string, logger *zap.Logger) ([]model.Item, *Report, error) {
	report := &Report{Stage: "items"}
	files, err := filepath.Glob(filepath.Join(dir, "ItemData-*.xml"))
	if err != nil || len(files) == 0 {
		return nil, report, ErrSourceMissing
	}

	var rows []model.Item
	for _, file := range files {
		report.Files++
		var fileRows []model.Item
		fileSkipped := 0
		err := forEachElement(file, "Item", func(a attrs) {
			if !a.has("id", "name", "icon", "rareGrade") {
				fileSkipped++
				return
			}
			id, err1 := a.intVal("id", 0)
			rareGrade, err2 := a.intVal("rareGrade", 0)
			level, err3 := a.intVal("level", 0)
			linkID, err4 := a.intVal("linkEquipmentId", 0)
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				fileSkipped++
				logger.Debug("item row skipped",
					zap.String("file", file),
					zap.Errors("errors", []error{err1, err2, err3, err4}))
				return
			}
			fileRows = append(fileRows, model.Item{
				ID:              id,
				NameKey:         a["name"],
				Icon:            a["icon"],
				Level:           level,
				LinkEquipmentID: linkID,
				Category:        a["category"],
				RareGrade:       rareGrade,
			})
		})
		if err != nil {
			report.FileErrors = append(report.FileErrors, err.Error())
			logger.Warn("item file failed", zap.String("file", file), zap.Error(err))
			continue
		}
		rows = append(rows, fileRows...)
		report.Skipped += fileSkipped
	}
	report.Rows = len(rows)
	return rows, report, nil
}
