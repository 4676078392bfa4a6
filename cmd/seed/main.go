// Command seed loads the built-in template set into the catalog file,
// the same templates the server registers with FORMDETECT_SEED_DEMO.
package main

import (
	"context"
	"os"

	"formdetect/internal/classify"
	"formdetect/internal/form/service"
	"formdetect/internal/form/store"
	"formdetect/internal/platform/config"
	"formdetect/internal/platform/logger"
	"formdetect/internal/seeder"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	classifier := classify.New(classify.WithDefaultRegion(cfg.PhoneRegion))
	storage := store.NewFileStore(cfg.DBPath)
	svc := service.New(store.NewInMemory(), storage, classifier, log)

	ctx := context.Background()

	loaded, err := svc.Load(ctx)
	if err != nil {
		log.Error("loading catalog failed", "error", err, "db_path", cfg.DBPath)
		os.Exit(1)
	}

	seeded, err := seeder.New(svc, log).SeedAll(ctx)
	if err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	log.Info("seeding complete",
		"db_path", cfg.DBPath,
		"already_present", loaded,
		"registered", seeded,
	)
}
