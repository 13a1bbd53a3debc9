package sse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/teralab/itemdex/api/rest"
	"github.com/teralab/itemdex/search"
	"go.uber.org/zap"
)

// Handler streams search results incrementally over server-sent events.
type Handler struct {
	engine  *search.Engine
	session *search.Session
	logger  *zap.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(engine *search.Engine, session *search.Session, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, session: session, logger: logger}
}

// Stream handles GET /api/items/stream?q=&category=...
// Batches arrive as "batch" events in id order; a "done" event closes a
// completed search. A search superseded by a newer one, or abandoned by the
// client, ends with a "cancelled" event instead — never with an error.
func (h *Handler) Stream(c *gin.Context) {
	req := rest.ParseRequest(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx, finish := h.session.Begin(c.Request.Context())
	defer finish()

	delivered := 0
	limited, err := h.engine.SearchBatches(ctx, req, func(batch []*search.ItemRecord) error {
		payload, err := json.Marshal(batch)
		if err != nil {
			return err
		}
		delivered += len(batch)
		fmt.Fprintf(c.Writer, "event: batch\ndata: %s\n\n", payload)
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(c.Writer, "event: cancelled\ndata: {}\n\n")
			c.Writer.Flush()
			return
		}
		h.logger.Error("stream search failed", zap.Error(err))
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\":\"search failed\"}\n\n")
		c.Writer.Flush()
		return
	}

	fmt.Fprintf(c.Writer, "event: done\ndata: {\"count\":%d,\"limited\":%t}\n\n", delivered, limited)
	c.Writer.Flush()
}
