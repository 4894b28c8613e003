package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/cref-go/internal/domain"
)

func testCatalog() *domain.Catalog {
	return domain.NewCatalog([]domain.CommandDefinition{
		{
			Name:        "git",
			Description: "Version control",
			Subcommands: map[string]domain.SubcommandDefinition{
				"commit": {
					Syntax:      "git commit [flags]",
					Description: "Record changes to the repository",
					Flags:       []domain.FlagDefinition{{Flag: "--amend", Description: "Amend the previous commit"}},
					Examples: []domain.ExampleDefinition{
						{Command: "git commit -m 'fix'", Explanation: "Commit staged changes with a message"},
					},
				},
				"push": {
					Syntax:      "git push [remote] [branch]",
					Description: "Upload commits to a remote repository",
				},
			},
		},
		{
			Name:        "docker",
			Description: "Container runtime",
			Subcommands: map[string]domain.SubcommandDefinition{
				"push": {
					Syntax:      "docker push IMAGE",
					Description: "Push an image to a registry",
				},
				"run": {
					Syntax:      "docker run [flags] IMAGE",
					Description: "Run a command in a new container",
					Examples: []domain.ExampleDefinition{
						{Command: "docker run -it ubuntu bash", Explanation: "Start an interactive ubuntu shell"},
					},
				},
			},
		},
	})
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"git commit", []string{"git", "commit"}},
		{"Record changes, then push!", []string{"record", "changes", "then", "push"}},
		{"--amend", []string{"amend"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tc := range cases {
		got := Tokenize(tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestPostingsCoverNameDescriptionAndExamples(t *testing.T) {
	ix := Build(testCatalog())

	// Token from a subcommand description.
	ids := ix.Postings("repository")
	want := []domain.Identity{
		{Command: "git", Subcommand: "commit"},
		{Command: "git", Subcommand: "push"},
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Postings(repository) mismatch (-want +got):\n%s", diff)
	}

	// Token only present in an example explanation.
	ids = ix.Postings("ubuntu")
	want = []domain.Identity{{Command: "docker", Subcommand: "run"}}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Postings(ubuntu) mismatch (-want +got):\n%s", diff)
	}

	if got := ix.Postings("zzz"); len(got) != 0 {
		t.Errorf("Postings(zzz) = %v, want empty", got)
	}
}

func TestSearchRanking(t *testing.T) {
	ix := Build(testCatalog())

	// "push" matches two subcommand names and appears in git commit's
	// flag-less description text nowhere; subcommand-name hits come first
	// in catalog (name-ascending) order.
	hits := ix.Search("push")
	if len(hits) < 2 {
		t.Fatalf("Search(push) returned %d hits, want >= 2", len(hits))
	}
	first := []domain.Identity{hits[0].Identity, hits[1].Identity}
	want := []domain.Identity{
		{Command: "docker", Subcommand: "push"},
		{Command: "git", Subcommand: "push"},
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("Search(push) leading hits mismatch (-want +got):\n%s", diff)
	}
	if hits[0].Kind != domain.MatchSubcommandName {
		t.Errorf("hits[0].Kind = %v, want MatchSubcommandName", hits[0].Kind)
	}
}

func TestSearchExactCommandRanksFirst(t *testing.T) {
	ix := Build(testCatalog())

	hits := ix.Search("git")
	if len(hits) == 0 {
		t.Fatal("Search(git) returned no hits")
	}
	if hits[0].Identity.Command != "git" || hits[0].Identity.Subcommand != "" {
		t.Errorf("hits[0] = %v, want command-level git", hits[0].Identity)
	}
	if hits[0].Kind != domain.MatchExactCommand {
		t.Errorf("hits[0].Kind = %v, want MatchExactCommand", hits[0].Kind)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ix := Build(testCatalog())

	lower := ix.Search("push")
	upper := ix.Search("PUSH")
	if diff := cmp.Diff(lower, upper); diff != "" {
		t.Errorf("case-sensitive search results (-lower +upper):\n%s", diff)
	}
}

func TestSearchTextMatchRanksBelowNameMatch(t *testing.T) {
	ix := Build(testCatalog())

	// "registry" only appears in docker push's description text.
	hits := ix.Search("registry")
	if len(hits) != 1 {
		t.Fatalf("Search(registry) = %d hits, want 1", len(hits))
	}
	if hits[0].Kind != domain.MatchText {
		t.Errorf("Kind = %v, want MatchText", hits[0].Kind)
	}

	// "run" matches a subcommand name; the name hit must precede any
	// text hit.
	hits = ix.Search("run")
	if len(hits) == 0 || hits[0].Identity != (domain.Identity{Command: "docker", Subcommand: "run"}) {
		t.Fatalf("Search(run) first hit = %+v", hits)
	}
}

func TestSearchTokenHitSurfacesSubcommands(t *testing.T) {
	ix := Build(testCatalog())

	// "git" is an indexed token for every git subcommand. The exact
	// command hit leads; the subcommands follow as text-tier hits even
	// though "git" is not a substring of git push's description text.
	hits := ix.Search("git")

	var got []domain.Identity
	for _, hit := range hits {
		got = append(got, hit.Identity)
	}
	want := []domain.Identity{
		{Command: "git"},
		{Command: "git", Subcommand: "commit"},
		{Command: "git", Subcommand: "push"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search(git) mismatch (-want +got):\n%s", diff)
	}
	for _, hit := range hits[1:] {
		if hit.Kind != domain.MatchText {
			t.Errorf("hit %v Kind = %v, want MatchText", hit.Identity, hit.Kind)
		}
	}
}

func TestSearchMultiTokenQuerySkipsPostings(t *testing.T) {
	ix := Build(testCatalog())

	// A phrase query falls back to pure substring matching; "git push"
	// is not a substring of any indexed text, and phrase queries never
	// consult the token index.
	if hits := ix.Search("git push"); len(hits) != 0 {
		t.Errorf("Search(git push) = %v, want none", hits)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := Build(testCatalog())
	if got := ix.Search("   "); got != nil {
		t.Errorf("Search(blank) = %v, want nil", got)
	}
}

func TestSuggestPrefixBeatsContains(t *testing.T) {
	catalog := domain.NewCatalog([]domain.CommandDefinition{
		{Name: "git"}, {Name: "github-cli"}, {Name: "digit"},
	})
	ix := Build(catalog)

	got := ix.SuggestCommands("git")
	want := []string{"git", "github-cli"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SuggestCommands(git) mismatch (-want +got):\n%s", diff)
	}

	// No prefix match: fall back to substring matches.
	got = ix.SuggestCommands("igi")
	want = []string{"digit"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SuggestCommands(igi) mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestSubcommands(t *testing.T) {
	ix := Build(testCatalog())

	got := ix.SuggestSubcommands("git", "pu")
	want := []string{"push"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SuggestSubcommands(git, pu) mismatch (-want +got):\n%s", diff)
	}

	if got := ix.SuggestSubcommands("nope", "pu"); got != nil {
		t.Errorf("unknown command should suggest nothing, got %v", got)
	}
}

func TestTokenCount(t *testing.T) {
	ix := Build(testCatalog())
	if ix.TokenCount() == 0 {
		t.Error("TokenCount() = 0, want > 0")
	}
}
