package app

import (
	"context"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/infrastructure/catalog"
	"github.com/doeshing/cref-go/internal/infrastructure/config"
	"github.com/doeshing/cref-go/internal/infrastructure/usage"
	"github.com/doeshing/cref-go/internal/pkg/logger"
	"github.com/doeshing/cref-go/internal/ports"
	"github.com/doeshing/cref-go/internal/services"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Catalog      *domain.Catalog
	Index        *catalog.Index
	Resolver     *services.Resolver
	Tracker      *services.UsageTracker
	UsageStore   ports.UsageStore
	Doctor       *services.DoctorService
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph. Catalog and index are
// built once here and treated as read-only for the process lifetime; a
// load failure aborts startup rather than continuing with a partial
// catalog.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	log := logger.NewStd(verbose)

	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	catalogLoader := catalog.NewLoader(cfg, log)
	cat, err := catalogLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	index := catalog.Build(cat)

	store := buildUsageStore(cfg)
	if cfg.Usage.RetentionDays > 0 {
		if err := store.PruneOlderThan(cfg.Usage.RetentionDays); err != nil {
			log.Warn("usage prune failed", map[string]interface{}{"error": err.Error()})
		}
	}

	resolver := &services.Resolver{
		Catalog: cat,
		Index:   index,
		Logger:  log,
	}

	doctor := &services.DoctorService{
		ConfigProvider:  cfgLoader,
		CatalogProvider: catalogLoader,
		UsageStore:      store,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Catalog:      cat,
		Index:        index,
		Resolver:     resolver,
		Tracker:      services.NewUsageTracker(store, log),
		UsageStore:   store,
		Doctor:       doctor,
		Logger:       log,
	}, nil
}

func buildUsageStore(cfg domain.Config) ports.UsageStore {
	if cfg.Usage.Backend == "jsonl" {
		return usage.NewFileStore("")
	}
	return usage.NewSQLiteStore("")
}
