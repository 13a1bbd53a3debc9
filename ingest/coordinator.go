package ingest

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/teralab/itemdex/dataset"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

// Sources locates the three export sources of one dataset folder.
type Sources struct {
	EquipmentFile   string
	ItemDir         string
	LocalizationDir string
}

// SourcesFor derives the conventional export layout beside a dataset's store
// file.
func SourcesFor(datasetDir string) Sources {
	return Sources{
		EquipmentFile:   filepath.Join(datasetDir, "EquipmentData", "EquipmentData-00000.xml"),
		ItemDir:         filepath.Join(datasetDir, "ItemData"),
		LocalizationDir: filepath.Join(datasetDir, "StrSheet_Item"),
	}
}

// Coordinator runs one-time ingestion against an open dataset store.
type Coordinator struct {
	store  *dataset.Store
	logger *zap.Logger
}

// NewCoordinator creates a Coordinator for the given store.
func NewCoordinator(store *dataset.Store, logger *zap.Logger) *Coordinator {
	return &Coordinator{store: store, logger: logger}
}

// LoadIfEmpty ingests all three sources when and only when the store holds no
// items. A populated store is never re-ingested. Each stage commits in its
// own transaction; a missing source is a warning and the other stages still
// run. The caller must serialize dataset switches around this call.
func (c *Coordinator) LoadIfEmpty(src Sources) (*Summary, error) {
	empty, err := c.store.IsEmpty()
	if err != nil {
		return nil, err
	}
	if !empty {
		return &Summary{Loaded: false}, nil
	}

	summary := &Summary{Loaded: true}

	equip, report, err := ParseEquipment(src.EquipmentFile, c.logger)
	if err := c.runStage(report, err, src.EquipmentFile, insertRows(equip)); err != nil {
		return nil, err
	}
	summary.Stages = append(summary.Stages, report)

	items, report, err := ParseItems(src.ItemDir, c.logger)
	if err := c.runStage(report, err, src.ItemDir, insertRows(items)); err != nil {
		return nil, err
	}
	summary.Stages = append(summary.Stages, report)

	loc, report, err := ParseLocalization(src.LocalizationDir, c.logger)
	if err := c.runStage(report, err, src.LocalizationDir, insertRows(loc)); err != nil {
		return nil, err
	}
	summary.Stages = append(summary.Stages, report)

	return summary, nil
}

// runStage commits one stage's rows in a single transaction. parseErr is the
// parser's source-missing signal; anything else from the transaction is
// catastrophic and propagates, leaving the store visibly incomplete for the
// caller to surface.
func (c *Coordinator) runStage(report *Report, parseErr error, source string, insert func(tx *gorm.DB) error) error {
	if parseErr != nil {
		if errors.Is(parseErr, ErrSourceMissing) {
			c.logger.Warn("ingest source missing",
				zap.String("stage", report.Stage), zap.String("source", source))
			return nil
		}
		return parseErr
	}
	if err := c.store.DB().Transaction(insert); err != nil {
		return fmt.Errorf("ingest: stage %s: %w", report.Stage, err)
	}
	c.logger.Info("ingest stage committed",
		zap.String("stage", report.Stage),
		zap.Int("files", report.Files),
		zap.Int("rows", report.Rows),
		zap.Int("skipped", report.Skipped),
		zap.Int("file_errors", len(report.FileErrors)))
	return nil
}

// insertRows batch-inserts rows, ignoring primary-key conflicts so one
// duplicated record in an export cannot abort its stage.
func insertRows[T any](rows []T) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(rows, insertBatchSize).Error
	}
}
