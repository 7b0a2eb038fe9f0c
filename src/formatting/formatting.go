// Package formatting renders search results as the plain text handed back
// to MCP clients.
package formatting

import (
	"fmt"
	"strings"

	c7http "github.com/c67-mcp/go-c67/src/transports/http"
)

const (
	// NoMatches is returned for an empty result list.
	NoMatches = "No documentation libraries found matching your query."

	separator = "\n----------\n"

	// snippetsUnknown marks a library whose snippet count is not tracked.
	snippetsUnknown = -1
)

// FormatSearchMatches renders matches in input order, one block per match.
func FormatSearchMatches(matches []c7http.SearchMatch) string {
	if len(matches) == 0 {
		return NoMatches
	}

	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, formatMatch(m))
	}
	return strings.Join(blocks, separator)
}

func formatMatch(m c7http.SearchMatch) string {
	lines := []string{
		"- Title: " + m.Title,
		"- Context7-compatible library ID: " + m.ID,
		"- Description: " + m.Description,
	}
	if m.TotalSnippets != nil && *m.TotalSnippets != snippetsUnknown {
		lines = append(lines, fmt.Sprintf("- Code Snippets: %d", *m.TotalSnippets))
	}
	if m.TrustScore != nil && *m.TrustScore >= 0 {
		lines = append(lines, fmt.Sprintf("- Trust Score: %.1f", *m.TrustScore))
	}
	if len(m.Versions) > 0 {
		lines = append(lines, "- Versions: "+strings.Join(m.Versions, ", "))
	}
	return strings.Join(lines, "\n")
}
