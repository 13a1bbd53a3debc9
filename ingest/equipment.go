package ingest

import (
	"os"

	"github.com/teralab/itemdex/model"
	"go.uber.org/zap"
)

// ParseEquipment reads the single equipment stats document. Elements missing
// a required attribute or carrying an unparsable number are skipped; a
// malformed document is recorded and contributes no rows at all.
func ParseEquipment(path string, logger *zap.Logger) ([]model.EquipmentStats, *Report, error) {
	report := &Report{Stage: "equipment"}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, report, ErrSourceMissing
	}

	var fileRows []model.EquipmentStats
	fileSkipped := 0
	err := forEachElement(path, "Equipment", func(a attrs) {
		if !a.has("equipmentId", "balance", "def", "impact", "maxAtk") {
			fileSkipped++
			return
		}
		id, err1 := a.intVal("equipmentId", 0)
		def, err2 := a.intVal("def", 0)
		maxAtk, err3 := a.intVal("maxAtk", 0)
		if err1 != nil || err2 != nil || err3 != nil {
			fileSkipped++
			logger.Debug("equipment row skipped",
				zap.String("file", path),
				zap.Errors("errors", []error{err1, err2, err3}))
			return
		}
		fileRows = append(fileRows, model.EquipmentStats{
			EquipmentID: id,
			Balance:     a["balance"],
			Defense:     def,
			Impact:      a["impact"],
			MaxAttack:   maxAtk,
		})
	})
	report.Files = 1
	if err != nil {
		// Row-by-row tolerance does not extend to a broken document; the
		// whole file is dropped.
		report.FileErrors = append(report.FileErrors, err.Error())
		logger.Warn("equipment file failed", zap.String("file", path), zap.Error(err))
		return nil, report, nil
	}
	report.Skipped = fileSkipped
	report.Rows = len(fileRows)
	return fileRows, report, nil
}
