package rest

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/teralab/itemdex/dataset"
	"github.com/teralab/itemdex/ingest"
	"github.com/teralab/itemdex/search"
	"go.uber.org/zap"
)

// DatasetHandler handles dataset discovery and switching.
type DatasetHandler struct {
	root    string
	store   *dataset.Store
	session *search.Session
	coord   *ingest.Coordinator
	logger  *zap.Logger
}

// NewDatasetHandler creates a DatasetHandler rooted at the datasets
// directory.
func NewDatasetHandler(root string, store *dataset.Store, session *search.Session, coord *ingest.Coordinator, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{root: root, store: store, session: session, coord: coord, logger: logger}
}

// List handles GET /api/datasets.
func (h *DatasetHandler) List(c *gin.Context) {
	infos, err := dataset.Discover(h.root)
	if err != nil {
		h.logger.Error("dataset discovery failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "discovery failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": infos, "current": h.store.Location()})
}

type openRequest struct {
	Dir string `json:"dir" binding:"required"`
}

// Open handles POST /api/datasets/open (admin only). It cancels and awaits
// any in-flight search, switches the store to the requested dataset, and
// ingests the sources when the store is empty.
func (h *DatasetHandler) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dir is required"})
		return
	}

	location := filepath.Join(req.Dir, dataset.StoreFile)

	// The whole switch runs inside the session so no search can begin
	// against a half-switched store.
	var (
		summary *ingest.Summary
		openErr error
		loadErr error
	)
	h.session.Exclusive(func() {
		if openErr = h.store.Open(location); openErr != nil {
			return
		}
		summary, loadErr = h.coord.LoadIfEmpty(ingest.SourcesFor(req.Dir))
	})
	if openErr != nil {
		h.logger.Error("dataset open failed", zap.String("dir", req.Dir), zap.Error(openErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "open failed"})
		return
	}
	if loadErr != nil {
		// The store is open but visibly incomplete; surface the failure.
		h.logger.Error("ingestion failed", zap.String("dir", req.Dir), zap.Error(loadErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location, "ingest": summary})
}
