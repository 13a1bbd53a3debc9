package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	apirest "github.com/teralab/itemdex/api/rest"
	"github.com/teralab/itemdex/api/sse"
	"github.com/teralab/itemdex/cache"
	"github.com/teralab/itemdex/config"
	"github.com/teralab/itemdex/dataset"
	"github.com/teralab/itemdex/icon"
	"github.com/teralab/itemdex/ingest"
	mw "github.com/teralab/itemdex/middleware"
	"github.com/teralab/itemdex/search"
	"go.uber.org/zap"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; dataset switching is disabled")
	}

	// ---- Dataset store ----
	store := dataset.NewStore(logger)
	defer store.Close()
	coord := ingest.NewCoordinator(store, logger)

	datasetDir := cfg.Data.Dataset
	if datasetDir == "" {
		infos, err := dataset.Discover(cfg.Data.Root)
		if err != nil {
			log.Fatalf("dataset discovery: %v", err)
		}
		if len(infos) > 0 {
			datasetDir = infos[0].Dir
		}
	}
	if datasetDir == "" {
		logger.Warn("no dataset found; open one via the admin API",
			zap.String("root", cfg.Data.Root))
	} else {
		if err := store.Open(filepath.Join(datasetDir, dataset.StoreFile)); err != nil {
			log.Fatalf("dataset: %v", err)
		}
		summary, err := coord.LoadIfEmpty(ingest.SourcesFor(datasetDir))
		if err != nil {
			log.Fatalf("ingest: %v", err)
		}
		logger.Info("dataset ready",
			zap.String("dir", datasetDir), zap.Bool("ingested", summary.Loaded))
	}

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("cache initialized")

	// ---- Search pipeline ----
	iconsRoot := cfg.Data.IconsDir
	if !filepath.IsAbs(iconsRoot) {
		iconsRoot = filepath.Join(cfg.Data.Root, iconsRoot)
	}
	icons := icon.NewLoader(iconsRoot, logger)
	engine := search.NewEngine(store, icons, cfg.Search.BatchSize, logger)
	session := search.NewSession()

	// ---- HTTP ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		mw.TraceID(),
		mw.Logger(logger),
		mw.Recovery(logger),
		mw.RateLimit(cfg.Security.RateLimitRPS, cfg.Security.RateLimitBurst),
	)

	searchH := apirest.NewSearchHandler(engine, session, store, c, cfg.Search.CacheTTL, logger)
	iconH := apirest.NewIconHandler(icons)
	categoryH := apirest.NewCategoryHandler()
	datasetH := apirest.NewDatasetHandler(cfg.Data.Root, store, session, coord, logger)
	authH := apirest.NewAuthHandler(cfg.Server, cfg.Security, c, logger)
	sseH := sse.NewHandler(engine, session, logger)

	r.GET("/api/items", searchH.Search)
	r.GET("/api/items/stream", sseH.Stream)
	r.GET("/api/icons/:ref", iconH.Get)
	r.GET("/api/categories", categoryH.List)
	r.GET("/api/datasets", datasetH.List)
	r.POST("/api/auth/token", authH.Token)

	admin := r.Group("/api", mw.AdminAuth(cfg.Security, c))
	admin.POST("/datasets/open", datasetH.Open)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
