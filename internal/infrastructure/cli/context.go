package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/doeshing/cref-go/internal/domain"
)

// ContextDetector inspects the working directory for project marker
// files and maps them to catalog commands worth looking up. Detection is
// purely filesystem-based; no external tools are run.
type ContextDetector struct {
	Catalog *domain.Catalog
}

// markerCommands maps well-known project files to the catalog command
// they suggest.
var markerCommands = map[string]string{
	".git":               "git",
	"package.json":       "npm",
	"package-lock.json":  "npm",
	"Dockerfile":         "docker",
	"docker-compose.yml": "docker",
	"compose.yaml":       "docker",
	"requirements.txt":   "pip",
	"pyproject.toml":     "pip",
	"setup.py":           "pip",
	"Makefile":           "make",
	"go.mod":             "go",
	"Cargo.toml":         "cargo",
	"k8s":                "kubectl",
	"kubernetes":         "kubectl",
}

// Detection is one matched project marker.
type Detection struct {
	Marker  string
	Command string
}

// Detect returns markers found in dir whose suggested command exists in
// the catalog, sorted by command then marker.
func (d *ContextDetector) Detect(dir string) []Detection {
	var found []Detection
	for marker, command := range markerCommands {
		if _, err := os.Stat(filepath.Join(dir, marker)); err != nil {
			continue
		}
		if d.Catalog != nil {
			if _, ok := d.Catalog.Command(command); !ok {
				continue
			}
		}
		found = append(found, Detection{Marker: marker, Command: command})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Command == found[j].Command {
			return found[i].Marker < found[j].Marker
		}
		return found[i].Command < found[j].Command
	})
	return found
}

// RenderDetections formats context suggestions for display.
func (r *Renderer) RenderDetections(dir string, detections []Detection) string {
	var out []string
	out = append(out, r.paint(headerPaint, "PROJECT CONTEXT"), "")
	out = append(out, r.paint(dimPaint, "Directory: "+dir), "")
	if len(detections) == 0 {
		out = append(out, "No known project markers found here.")
		return strings.Join(out, "\n")
	}
	out = append(out, "Detected project files suggest these commands:", "")
	seen := map[string]bool{}
	for _, det := range detections {
		line := fmt.Sprintf("  %s %-10s %s",
			r.paint(syntaxPaint, "*"),
			r.paint(namePaint, det.Command),
			r.paint(dimPaint, "("+det.Marker+")"))
		out = append(out, line)
		seen[det.Command] = true
	}
	commands := make([]string, 0, len(seen))
	for cmd := range seen {
		commands = append(commands, cmd)
	}
	sort.Strings(commands)
	out = append(out, "", fmt.Sprintf("%s try 'cref %s'", r.paint(dimPaint, "Tip:"), commands[0]))
	return strings.Join(out, "\n")
}
