package main

import (
	"os"

	"property-finder/config"
	"property-finder/ingest"
	"property-finder/server"
	"property-finder/services"
	"property-finder/session"
	"property-finder/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== NH Property Finder starting ===")
	logger.Info("Config — listen: %s | max upload: %dMB | session limit: %d",
		cfg.ListenAddr, cfg.MaxUploadMB, cfg.SessionLimit)

	store := session.NewStore(cfg.SessionLimit, logger)
	normalizer := services.NewNormalizer(logger)
	engine := services.NewEngine(logger)

	if cfg.ListingsCSVPath != "" {
		if err := loadStartupDataset(cfg.ListingsCSVPath, normalizer, store, logger); err != nil {
			logger.Error("Failed to load %s: %v", cfg.ListingsCSVPath, err)
			os.Exit(1)
		}
	} else {
		logger.Info("No LISTINGS_CSV_PATH set — waiting for uploads")
	}

	srv := server.New(cfg, logger, store, normalizer, engine)
	if err := srv.Run(); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}

	logger.Info("=== NH Property Finder stopped ===")
}

// loadStartupDataset reads the static export into the default session so
// queries work before any upload.
func loadStartupDataset(path string, normalizer *services.Normalizer,
	store *session.Store, logger *utils.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := ingest.ReadCSV(f)
	if err != nil {
		return err
	}

	ds := normalizer.Normalize(records)
	if err := store.Put(session.DefaultID, ds); err != nil {
		return err
	}

	logger.Info("Loaded %d listings from %s (price range $%.0f–$%.0f, %d towns)",
		len(ds.Listings), path, ds.Stats.MinPrice, ds.Stats.MaxPrice, len(ds.Stats.Cities))
	return nil
}
