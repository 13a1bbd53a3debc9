package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teralab/itemdex/cache"
	"github.com/teralab/itemdex/dataset"
	"github.com/teralab/itemdex/search"
	"go.uber.org/zap"
)

// SearchHandler handles item search REST endpoints.
type SearchHandler struct {
	engine   *search.Engine
	session  *search.Session
	store    *dataset.Store
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(engine *search.Engine, session *search.Session, store *dataset.Store, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{engine: engine, session: session, store: store, cache: c, cacheTTL: cacheTTL, logger: logger}
}

// ParseRequest builds a search.Request from query parameters. The numeric
// branch is chosen iff the trimmed text parses as an integer.
func ParseRequest(c *gin.Context) search.Request {
	text := strings.TrimSpace(c.Query("q"))
	req := search.Request{Text: text}
	if id, err := strconv.Atoi(text); err == nil && text != "" {
		req.Numeric = true
		req.ID = id
	}
	for _, v := range c.QueryArray("category") {
		for _, cat := range strings.Split(v, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				req.Categories = append(req.Categories, cat)
			}
		}
	}
	return req
}

// searchResponse is the JSON shape of one completed search.
type searchResponse struct {
	Items   []*search.ItemRecord `json:"items"`
	Limited bool                 `json:"limited"`
	Count   int                  `json:"count"`
}

// Search handles GET /api/items?q=&category=a&category=b,c.
// A new request cancels any still-running search for the session; the store
// is read-only so completed responses are cached briefly.
func (h *SearchHandler) Search(c *gin.Context) {
	req := ParseRequest(c)

	key := h.cacheKey(req)
	if cached, err := h.cache.Get(c.Request.Context(), key); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	ctx, finish := h.session.Begin(c.Request.Context())
	defer finish()

	res, err := h.engine.Search(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Superseded by a newer search or client gone; not a failure.
			c.JSON(http.StatusOK, gin.H{"cancelled": true})
			return
		}
		h.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	resp := searchResponse{Items: res.Items, Limited: res.Limited, Count: len(res.Items)}
	body, err := json.Marshal(resp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	_ = h.cache.Set(c.Request.Context(), key, string(body), h.cacheTTL)
	c.Data(http.StatusOK, "application/json", body)
}

// cacheKey namespaces cached responses by the open dataset location, so a
// dataset switch naturally stops old entries from being served.
func (h *SearchHandler) cacheKey(req search.Request) string {
	return "search:" + h.store.Location() + "|" + req.Text + "|" + strings.Join(req.Categories, ",")
}
