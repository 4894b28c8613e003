package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewCatalogOrdersByName(t *testing.T) {
	catalog := NewCatalog([]CommandDefinition{
		{Name: "npm"},
		{Name: "Git"},
		{Name: "docker"},
	})

	want := []string{"docker", "git", "npm"}
	if diff := cmp.Diff(want, catalog.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCatalogSortsSubcommands(t *testing.T) {
	catalog := NewCatalog([]CommandDefinition{{
		Name: "git",
		Subcommands: map[string]SubcommandDefinition{
			"push":   {},
			"commit": {},
			"branch": {},
		},
	}})

	def, _ := catalog.Command("git")
	want := []string{"branch", "commit", "push"}
	if diff := cmp.Diff(want, def.SubOrder); diff != "" {
		t.Errorf("SubOrder mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogLookupIsCaseInsensitive(t *testing.T) {
	catalog := NewCatalog([]CommandDefinition{{
		Name: "git",
		Subcommands: map[string]SubcommandDefinition{
			"commit": {Syntax: "git commit"},
		},
	}})

	def, ok := catalog.Command("GIT")
	if !ok {
		t.Fatal("Command(GIT) not found")
	}
	if _, ok := def.Subcommand("COMMIT"); !ok {
		t.Error("Subcommand(COMMIT) not found")
	}
}

func TestCatalogCounts(t *testing.T) {
	catalog := NewCatalog([]CommandDefinition{
		{Name: "git", Subcommands: map[string]SubcommandDefinition{"commit": {}, "push": {}}},
		{Name: "docker", Subcommands: map[string]SubcommandDefinition{"run": {}}},
	})
	if catalog.Len() != 2 {
		t.Errorf("Len() = %d, want 2", catalog.Len())
	}
	if catalog.Subcommands() != 3 {
		t.Errorf("Subcommands() = %d, want 3", catalog.Subcommands())
	}
}

func TestIdentityString(t *testing.T) {
	full := Identity{Command: "git", Subcommand: "commit"}
	if full.String() != "git commit" {
		t.Errorf("String() = %q", full.String())
	}
	bare := Identity{Command: "git"}
	if bare.String() != "git" {
		t.Errorf("String() = %q", bare.String())
	}
}
