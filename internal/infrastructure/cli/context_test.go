package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/cref-go/internal/domain"
)

func TestDetectMatchesMarkersInCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog := domain.NewCatalog([]domain.CommandDefinition{
		{Name: "git"}, {Name: "npm"},
	})
	detector := &ContextDetector{Catalog: catalog}

	detections := detector.Detect(dir)
	var commands []string
	for _, det := range detections {
		commands = append(commands, det.Command)
	}

	// Cargo.toml maps to cargo, which is not in the catalog, so it is
	// filtered out.
	want := "git,npm"
	if got := strings.Join(commands, ","); got != want {
		t.Errorf("Detect() commands = %q, want %q", got, want)
	}
}

func TestDetectEmptyDirectory(t *testing.T) {
	detector := &ContextDetector{Catalog: domain.NewCatalog(nil)}
	if got := detector.Detect(t.TempDir()); len(got) != 0 {
		t.Errorf("Detect(empty) = %v, want none", got)
	}
}

func TestRenderDetections(t *testing.T) {
	r := plainRenderer()
	out := r.RenderDetections("/work/app", []Detection{
		{Marker: ".git", Command: "git"},
		{Marker: "package.json", Command: "npm"},
	})
	if !strings.Contains(out, "git") || !strings.Contains(out, "npm") {
		t.Errorf("missing detections:\n%s", out)
	}
	if !strings.Contains(out, "package.json") {
		t.Errorf("missing marker name:\n%s", out)
	}
}

func TestRenderDetectionsEmpty(t *testing.T) {
	out := plainRenderer().RenderDetections("/work/app", nil)
	if !strings.Contains(out, "No known project markers") {
		t.Errorf("missing empty-state message:\n%s", out)
	}
}
