package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/lingomap/lingomap/internal/api"
	"github.com/lingomap/lingomap/internal/config"
	"github.com/lingomap/lingomap/internal/db"
	"github.com/lingomap/lingomap/internal/geo"
	"github.com/lingomap/lingomap/internal/logging"
	"github.com/lingomap/lingomap/internal/middleware"
	"github.com/lingomap/lingomap/internal/services"
	"github.com/lingomap/lingomap/internal/storage"
)

func main() {
	cfg := config.LoadConfig()
	log := logging.NewDefault()
	ctx := context.Background()

	sqlDB, err := db.Open(cfg.SQLitePath)
	if err != nil {
		log.Error(ctx, "open database", "err", err)
		os.Exit(1)
	}
	defer sqlDB.Close()
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Error(ctx, "run migrations", "err", err)
		os.Exit(1)
	}
	store, err := db.NewSQLiteStore(sqlDB)
	if err != nil {
		log.Error(ctx, "init store", "err", err)
		os.Exit(1)
	}

	var blobs storage.BlobStore
	if cfg.S3Bucket != "" {
		blobs, err = storage.NewS3Store(ctx, storage.S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	} else {
		blobs, err = storage.NewFSStore(cfg.AudioDir)
	}
	if err != nil {
		log.Error(ctx, "init audio storage", "err", err)
		os.Exit(1)
	}

	// One-shot boundary fetch; the map runs without country data when
	// the source is unavailable.
	countries, err := geo.Fetch(ctx, nil, cfg.GeoJSONURL, log)
	if err != nil {
		countries = nil
	}

	ta := middleware.NewTokenAuthority(cfg.JWTSecret)
	auth := services.NewAuthService(store, ta.SignToken, cfg.TokenTTL)
	subs := services.NewSubmissionService(store, blobs)

	r := mux.NewRouter()
	rt := api.NewRouter(auth, subs, blobs, countries, log)
	rt.Register(r)
	defer rt.Close()

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":        true,
			"name":      "lingomap API",
			"countries": len(countries),
		})
	}).Methods(http.MethodGet)

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	handler := middleware.CORS(middleware.NoStore(ta.WithAuth(r)))

	log.Info(ctx, "lingomap server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Error(ctx, "server error", "err", err)
		os.Exit(1)
	}
}
