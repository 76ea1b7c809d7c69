package cmd

import (
	"fmt"
	"os"

	"investlab/api"
	"investlab/internal/catalog"
	"investlab/internal/config"
	"investlab/internal/logger"
)

// LoadCatalog reads CatalogDir when set, the embedded data otherwise
func LoadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogDir == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(os.DirFS(cfg.CatalogDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", cfg.CatalogDir, err)
	}
	return cat, nil
}

func InitializeDependencies() (*api.ApiHandler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cat, err := LoadCatalog(*cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New()
	log.Infow("loaded catalog",
		"assets", len(cat.Assets),
		"options", len(cat.Options),
		"crises", len(cat.Crises),
	)

	return api.NewApiHandler(cat, *cfg, log), nil
}
