// Command cardseed loads a JSON card fixture into the catalog database.
// The serving binary opens the database read-only; this is the write path.
package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/config"
	"github.com/kailas-cloud/cardex/internal/db/sqlite"
	logpkg "github.com/kailas-cloud/cardex/internal/logger"
	"github.com/kailas-cloud/cardex/internal/seed"
	"github.com/kailas-cloud/cardex/internal/version"
)

func main() {
	var (
		seedFile = flag.String("file", "seed/cards.json", "path to the seed JSON file")
		dbPath   = flag.String("db", "", "database path override (default: from config)")
	)
	flag.Parse()

	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	path := cfg.Database.Path
	if *dbPath != "" {
		path = *dbPath
	}

	logger.Info("Seeding card catalog",
		zap.String("version", version.Version),
		zap.String("seed_file", *seedFile),
		zap.String("db_path", path),
	)

	records, err := seed.Load(*seedFile)
	if err != nil {
		logger.Fatal("Failed to load seed file", zap.Error(err))
	}
	logger.Info("Loaded seed records", zap.Int("count", len(records)))

	store, err := sqlite.NewStore(sqlite.Config{
		Path:          path,
		BusyTimeoutMS: cfg.Database.BusyTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	n, err := seed.Apply(context.Background(), store.DB(), records)
	if err != nil {
		logger.Fatal("Failed to apply seed", zap.Error(err))
	}

	logger.Info("Catalog seeded", zap.Int("cards", n))
}
