package ingest

import (
	"path/filepath"

	"github.com/teralab/itemdex/model"
	"go.uber.org/zap"
)

// ParseLocalization reads every StrSheet_Item-*.xml document under dir.
// id and string are required; toolTip defaults to "". Tolerance matches the
// other parsers at both row and file granularity.
func ParseLocalization(dir string, logger *zap.Logger) ([]model.LocalizedItem, *Report, error) {
	report := &Report{Stage: "localization"}
	files, err := filepath.Glob(filepath.Join(dir, "StrSheet_Item-*.xml"))
	if err != nil || len(files) == 0 {
		return nil, report, ErrSourceMissing
	}

	var rows []model.LocalizedItem
	for _, file := range files {
		report.Files++
		var fileRows []model.LocalizedItem
		fileSkipped := 0
		err := forEachElement(file, "String", func(a attrs) {
			if !a.has("id", "string") {
				fileSkipped++
				return
			}
			id, err := a.intVal("id", 0)
			if err != nil {
				fileSkipped++
				logger.Debug("localization row skipped",
					zap.String("file", file), zap.Error(err))
				return
			}
			fileRows = append(fileRows, model.LocalizedItem{
				ID:      id,
				Name:    a["string"],
				Tooltip: a["toolTip"],
			})
		})
		if err != nil {
			report.FileErrors = append(report.FileErrors, err.Error())
			logger.Warn("localization file failed", zap.String("file", file), zap.Error(err))
			continue
		}
		rows = append(rows, fileRows...)
		report.Skipped += fileSkipped
	}
	report.Rows = len(rows)
	return rows, report, nil
}
