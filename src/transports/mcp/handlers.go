package mcp

import (
	"context"
	"fmt"

	mcpapi "github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/c67-mcp/go-c67/src/formatting"
	"github.com/c67-mcp/go-c67/src/tools"
)

const resultsPreamble = `Available Libraries (top matches):

Each result includes:
- Library ID: Context7-compatible identifier (format: /org/project)
- Name: Library or package name
- Description: Short summary
- Code Snippets: Number of available code examples
- Trust Score: Authority indicator
- Versions: List of versions if available. Use one of those versions if the user provides a version in their query. The format of the version is /org/project/version.

For best results, select libraries based on name match, trust score, snippet coverage, and relevance to your use case.

----------

`

const (
	MsgSearchFailed = "Failed to retrieve library documentation data from Context7: %v"
	MsgDocsFailed   = "Error fetching library documentation: %v"

	MsgDocsNotFound = "Documentation not found or not finalized for this library. This might have happened because you used an invalid Context7-compatible library ID. To get a valid Context7-compatible library ID, use the 'resolve-library-id' with the package name you wish to retrieve documentation for."
)

func (s *Server) resolveLibraryID(ctx context.Context, req mcpapi.CallToolRequest) (*mcpapi.CallToolResult, error) {
	args, err := tools.ParseResolveArgs(req.GetArguments())
	if err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)

	outcome, err := s.docs.Search(ctx, args.LibraryName)
	if err != nil {
		logger.Error().Err(err).Str("query", args.LibraryName).Msg("search failed")
		return mcpapi.NewToolResultText(fmt.Sprintf(MsgSearchFailed, err)), nil
	}
	if outcome.Error != "" {
		logger.Info().Str("query", args.LibraryName).Str("reason", outcome.Error).Msg("search returned an error")
		return mcpapi.NewToolResultText(outcome.Error), nil
	}

	logger.Debug().Str("query", args.LibraryName).Int("matches", len(outcome.Matches)).Msg("search succeeded")
	return mcpapi.NewToolResultText(resultsPreamble + formatting.FormatSearchMatches(outcome.Matches)), nil
}

func (s *Server) getLibraryDocs(ctx context.Context, req mcpapi.CallToolRequest) (*mcpapi.CallToolResult, error) {
	doc, err := tools.ParseDocsArgs(req.GetArguments())
	if err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)

	text, ok, err := s.docs.FetchDocumentation(ctx, doc)
	switch {
	case err != nil:
		logger.Error().Err(err).Str("library", doc.LibraryID).Msg("documentation fetch failed")
		return mcpapi.NewToolResultText(fmt.Sprintf(MsgDocsFailed, err)), nil
	case !ok:
		logger.Info().Str("library", doc.LibraryID).Msg("no documentation available")
		return mcpapi.NewToolResultText(MsgDocsNotFound), nil
	default:
		logger.Debug().Str("library", doc.LibraryID).Int("bytes", len(text)).Msg("documentation fetched")
		return mcpapi.NewToolResultText(text), nil
	}
}
