package mcp

import (
	"context"

	mcpapi "github.com/mark3labs/mcp-go/mcp"

	"github.com/c67-mcp/go-c67/src/json"
	"github.com/c67-mcp/go-c67/src/tools"
)

type toolCallMessage struct {
	Method string `json:"method"`
	Params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

// validateToolCall runs before dispatch and rejects a tools/call whose
// required arguments are missing. mcp-go answers a hook error with an
// INVALID_REQUEST response, so no handler or upstream call runs. Messages
// it cannot interpret are left for mcp-go to reject.
func validateToolCall(_ context.Context, _ any, message any) error {
	raw, ok := message.(interface{ MarshalJSON() ([]byte, error) })
	if !ok {
		return nil
	}
	data, err := raw.MarshalJSON()
	if err != nil {
		return nil
	}

	var call toolCallMessage
	if err := json.Unmarshal(data, &call); err != nil || call.Method != string(mcpapi.MethodToolsCall) {
		return nil
	}
	args := map[string]any{}
	if len(call.Params.Arguments) > 0 {
		if err := json.Unmarshal(call.Params.Arguments, &args); err != nil {
			return nil
		}
	}

	switch call.Params.Name {
	case tools.ResolveLibraryIDName:
		_, err = tools.ParseResolveArgs(args)
	case tools.GetLibraryDocsName:
		_, err = tools.ParseDocsArgs(args)
	}
	return err
}
