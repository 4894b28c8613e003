package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/ports"
)

// DoctorService runs environment diagnostics: config parses, the catalog
// loads, the index is populated, the usage store is reachable.
type DoctorService struct {
	ConfigProvider  ports.ConfigProvider
	CatalogProvider ports.CatalogProvider
	UsageStore      ports.UsageStore
}

// TokenCounter is implemented by indexes that can report their size.
type TokenCounter interface {
	TokenCount() int
}

// Run executes checks and returns a report.
func (s *DoctorService) Run(ctx context.Context, index ports.SearchIndex) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded (format %s)", cfg.ConfigFormatVersion)))

	catalog, err := s.CatalogProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Catalog", err.Error()))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Catalog",
		fmt.Sprintf("%d commands, %d subcommands", catalog.Len(), catalog.Subcommands())))

	checks = append(checks, userDirChecks(cfg.Catalog.UserDirs)...)

	if counter, is := index.(TokenCounter); is {
		checks = append(checks, ok("Search index", fmt.Sprintf("%d tokens indexed", counter.TokenCount())))
	}

	checks = append(checks, s.storeCheck())

	return domain.HealthReport{Checks: checks}, nil
}

func userDirChecks(dirs []string) []domain.HealthCheck {
	var checks []domain.HealthCheck
	for _, dir := range dirs {
		expanded := expandHome(dir)
		if _, err := os.Stat(expanded); err != nil {
			checks = append(checks, warn("Catalog dir", fmt.Sprintf("%s not present (builtins only)", expanded)))
		} else {
			checks = append(checks, ok("Catalog dir", expanded))
		}
	}
	return checks
}

func (s *DoctorService) storeCheck() domain.HealthCheck {
	if s.UsageStore == nil {
		return warn("Usage store", "not configured")
	}
	if _, err := s.UsageStore.Records(1); err != nil {
		return fail("Usage store", err.Error())
	}
	return ok("Usage store", s.UsageStore.Path())
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
