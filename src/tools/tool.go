// Package tools declares the MCP tools the server exposes and turns their
// raw call arguments into typed requests.
package tools

import "github.com/mark3labs/mcp-go/mcp"

// Tool names.
const (
	ResolveLibraryIDName = "resolve-library-id"
	GetLibraryDocsName   = "get-library-docs"
)

// Argument names.
const (
	ArgLibraryName = "libraryName"
	ArgLibraryID   = "context7CompatibleLibraryID"
	ArgTokens      = "tokens"
	ArgTopic       = "topic"
)

const resolveLibraryIDDescription = `Resolves a package/product name to a Context7-compatible library ID and returns a list of matching libraries.

You MUST call this function before 'get-library-docs' to obtain a valid Context7-compatible library ID UNLESS the user explicitly provides a library ID in the format '/org/project' or '/org/project/version' in their query.

Selection Process:
1. Analyze the query to understand what library/package the user is looking for
2. Return the most relevant match based on:
- Name similarity to the query (exact matches prioritized)
- Description relevance to the query's intent
- Documentation coverage (prioritize libraries with higher Code Snippet counts)
- Trust score (consider libraries with scores of 7-10 more authoritative)

Response Format:
- Return the selected library ID in a clearly marked section
- Provide a brief explanation for why this library was chosen
- If multiple good matches exist, acknowledge this but proceed with the most relevant one
- If no good matches exist, clearly state this and suggest query refinements

For ambiguous queries, request clarification before proceeding with a best-guess match.`

const getLibraryDocsDescription = "Fetches up-to-date documentation for a library. You must call 'resolve-library-id' first to obtain the exact Context7-compatible library ID required to use this tool, UNLESS the user explicitly provides a library ID in the format '/org/project' or '/org/project/version' in their query."

// ResolveLibraryID describes the library search tool.
func ResolveLibraryID() mcp.Tool {
	return mcp.NewTool(ResolveLibraryIDName,
		mcp.WithDescription(resolveLibraryIDDescription),
		mcp.WithString(ArgLibraryName,
			mcp.Required(),
			mcp.Description("Library name to search for and retrieve a Context7-compatible library ID."),
		),
	)
}

// GetLibraryDocs describes the documentation fetch tool.
func GetLibraryDocs() mcp.Tool {
	return mcp.NewTool(GetLibraryDocsName,
		mcp.WithDescription(getLibraryDocsDescription),
		mcp.WithString(ArgLibraryID,
			mcp.Required(),
			mcp.Description("Exact Context7-compatible library ID (e.g., '/mongodb/docs', '/vercel/next.js', '/supabase/supabase', '/vercel/next.js/v14.3.0-canary.87') retrieved from 'resolve-library-id' or directly from user query in the format '/org/project' or '/org/project/version'."),
		),
		mcp.WithNumber(ArgTokens,
			mcp.Description("Maximum number of tokens of documentation to retrieve (default: 5000). Higher values provide more context but consume more tokens."),
		),
		mcp.WithString(ArgTopic,
			mcp.Description("Topic to focus documentation on (e.g., 'hooks', 'routing')."),
		),
	)
}

// All returns every tool in the order it is listed to clients.
func All() []mcp.Tool {
	return []mcp.Tool{ResolveLibraryID(), GetLibraryDocs()}
}
