// Package agents implements the specialist analysis agents and the
// fan-out/fan-in workflow that merges their outputs into a final analysis
// per issue.
package agents

import (
	"fmt"
	"strings"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/github"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// DefaultTitlePrefix marks quickstart suggestion issues in the tracker.
const DefaultTitlePrefix = "[Quickstart suggestion]:"

// Repos that appear in the org listing but are not quickstarts.
var excludedRepos = map[string]bool{
	".github":                true,
	"ai-quickstart-contrib":  true,
	"ai-quickstart-template": true,
}

// maxReposInContext caps the org repo listing embedded in prompts.
const maxReposInContext = 20

// Input carries everything a single issue analysis needs.
type Input struct {
	Issue       github.Issue
	Quickstarts []catalog.Quickstart
	OrgRepos    []github.Repo
	// PortfolioGaps is empty when the portfolio analyst was skipped.
	PortfolioGaps models.PortfolioGaps
}

// StripTitlePrefix removes the suggestion prefix from an issue title.
func StripTitlePrefix(title, prefix string) string {
	if prefix != "" && strings.HasPrefix(title, prefix) {
		return strings.TrimSpace(title[len(prefix):])
	}
	return title
}

// quickstartsContext formats catalog entries for prompt context.
func quickstartsContext(quickstarts []catalog.Quickstart) string {
	entries := make([]string, 0, len(quickstarts))
	for _, qs := range quickstarts {
		lines := []string{
			fmt.Sprintf("### %s (repo: %s)", qs.Name, orDefault(qs.Repo, "N/A")),
			fmt.Sprintf("- **Description**: %s", qs.Description),
		}
		if len(qs.Topics) > 0 {
			lines = append(lines, fmt.Sprintf("- **Topics**: %s", strings.Join(qs.Topics, ", ")))
		}
		entries = append(entries, strings.Join(lines, "\n"))
	}
	return strings.Join(entries, "\n\n")
}

// reposContext formats the org repository list for prompt context.
func reposContext(repos []github.Repo) string {
	lines := make([]string, 0, len(repos))
	for _, repo := range repos {
		if excludedRepos[repo.Name] {
			continue
		}
		if len(lines) >= maxReposInContext {
			break
		}
		lines = append(lines, fmt.Sprintf("- **%s**: %s", repo.Name, orDefault(repo.Description, "No description")))
	}
	return strings.Join(lines, "\n")
}

// truncateBody caps an issue body at limit runes-worth of bytes and marks
// the cut so the model knows content is missing.
func truncateBody(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "\n\n[... truncated for length ...]"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
