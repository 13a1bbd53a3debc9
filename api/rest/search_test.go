package rest

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teralab/itemdex/cache"
	"github.com/teralab/itemdex/cache/local"
	"github.com/teralab/itemdex/dataset"
	"github.com/teralab/itemdex/icon"
	"github.com/teralab/itemdex/model"
	"github.com/teralab/itemdex/search"
	"github.com/teralab/itemdex/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLocalCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if lc, ok := c.(*local.LocalCache); ok {
			lc.Close()
		}
	})
	return c
}

func searchRouter(t *testing.T) (*gin.Engine, *gorm.DB, cache.Cache, *dataset.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := dataset.NewStore(testutil.Logger(t))
	store.OpenDB(db, "memory")
	t.Cleanup(func() { store.Close() })

	engine := search.NewEngine(store, nil, 10, testutil.Logger(t))
	c := newLocalCache(t)
	h := NewSearchHandler(engine, search.NewSession(), store, c, time.Minute, testutil.Logger(t))

	r := gin.New()
	r.GET("/api/items", h.Search)
	return r, db, c, store
}

func seedLocalizedItem(t *testing.T, db *gorm.DB, id int, name, category string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Item{
		ID: id, NameKey: name, Icon: "icon.x", Category: category, RareGrade: 1,
	}).Error)
	require.NoError(t, db.Create(&model.LocalizedItem{ID: id, Name: name}).Error)
}

func TestSearchEndpoint_TextQuery(t *testing.T) {
	r, db, _, _ := searchRouter(t)
	seedLocalizedItem(t, db, 1, "Iron Sword", "axe")
	seedLocalizedItem(t, db, 2, "Wool Cap", "bodyRobe")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?q=iron", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items   []map[string]interface{} `json:"items"`
		Limited bool                     `json:"limited"`
		Count   int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Iron Sword", resp.Items[0]["name"])
	assert.False(t, resp.Limited)
}

func TestSearchEndpoint_CategoryFilter(t *testing.T) {
	r, db, _, _ := searchRouter(t)
	seedLocalizedItem(t, db, 1, "Iron Sword", "axe")
	seedLocalizedItem(t, db, 2, "Iron Bow", "bow")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?q=Iron&category=axe", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestSearchEndpoint_ServesCachedResponse(t *testing.T) {
	r, db, c, store := searchRouter(t)
	seedLocalizedItem(t, db, 1, "Iron Sword", "axe")

	canned := `{"items":[],"limited":false,"count":0}`
	key := "search:" + store.Location() + "|iron|"
	require.NoError(t, c.Set(context.Background(), key, canned, time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?q=iron", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, canned, w.Body.String())
}

func TestSearchEndpoint_CacheDoesNotOutliveDatasetSwitch(t *testing.T) {
	r, db, _, store := searchRouter(t)
	seedLocalizedItem(t, db, 1, "Iron Sword", "axe")

	// First search populates the cache for the current dataset.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?q=iron", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Iron Sword")

	// Switch to a different dataset where item 1 has another name.
	db2 := testutil.SetupTestDB(t)
	store.OpenDB(db2, "memory-2")
	seedLocalizedItem(t, db2, 1, "Iron Cutlass", "axe")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?q=iron", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Iron Cutlass")
	assert.NotContains(t, w.Body.String(), "Iron Sword")
}

func TestSearchEndpoint_LoadedAssetsReachTheResponse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := dataset.NewStore(testutil.Logger(t))
	store.OpenDB(db, "memory")
	t.Cleanup(func() { store.Close() })

	iconsRoot := t.TempDir()
	path := filepath.Join(iconsRoot, "icon", "item", "sword.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 48))))
	require.NoError(t, f.Close())

	require.NoError(t, db.Create(&model.Item{
		ID: 1, NameKey: "k1", Icon: "icon.item.sword", Category: "axe", RareGrade: 1,
	}).Error)
	require.NoError(t, db.Create(&model.LocalizedItem{ID: 1, Name: "Iron Sword"}).Error)
	require.NoError(t, db.Create(&model.Item{
		ID: 2, NameKey: "k2", Icon: "icon.item.gone", Category: "axe", RareGrade: 1,
	}).Error)
	require.NoError(t, db.Create(&model.LocalizedItem{ID: 2, Name: "Iron Bow"}).Error)

	engine := search.NewEngine(store, icon.NewLoader(iconsRoot, testutil.Logger(t)), 10, testutil.Logger(t))
	h := NewSearchHandler(engine, search.NewSession(), store, newLocalCache(t), time.Minute, testutil.Logger(t))
	r := gin.New()
	r.GET("/api/items", h.Search)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?q=iron", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			ID    int `json:"id"`
			Asset *struct {
				Width  int `json:"width"`
				Height int `json:"height"`
			} `json:"asset"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.Items[0].Asset, "loaded icon dimensions are serialized")
	assert.Equal(t, 64, resp.Items[0].Asset.Width)
	assert.Equal(t, 48, resp.Items[0].Asset.Height)
	assert.Nil(t, resp.Items[1].Asset, "unresolvable icon leaves the record without an asset")
}

func TestParseRequest(t *testing.T) {
	newCtx := func(target string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		return c
	}

	req := ParseRequest(newCtx("/api/items?q=%20sword%20"))
	assert.Equal(t, "sword", req.Text)
	assert.False(t, req.Numeric)

	req = ParseRequest(newCtx("/api/items?q=12345"))
	assert.Equal(t, "12345", req.Text)
	assert.True(t, req.Numeric)
	assert.Equal(t, 12345, req.ID)

	// A mixed token is text, not an id.
	req = ParseRequest(newCtx("/api/items?q=12abc"))
	assert.False(t, req.Numeric)

	req = ParseRequest(newCtx("/api/items?category=axe&category=bow,%20lance,"))
	assert.Empty(t, req.Text)
	assert.Equal(t, []string{"axe", "bow", "lance"}, req.Categories)
}
