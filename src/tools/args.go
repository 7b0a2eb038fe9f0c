package tools

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cast"

	c7http "github.com/c67-mcp/go-c67/src/transports/http"
)

// ErrMissingArgument is wrapped by every error for an absent or non-string
// required argument.
var ErrMissingArgument = errors.New("missing required argument")

// ResolveArgs are the arguments of resolve-library-id.
type ResolveArgs struct {
	LibraryName string
}

// ParseResolveArgs validates the arguments of a resolve-library-id call.
func ParseResolveArgs(args map[string]any) (ResolveArgs, error) {
	name, err := requireString(args, ArgLibraryName)
	if err != nil {
		return ResolveArgs{}, err
	}
	return ResolveArgs{LibraryName: name}, nil
}

// ParseDocsArgs validates the arguments of a get-library-docs call.
// Optional arguments of the wrong type are treated as absent.
func ParseDocsArgs(args map[string]any) (c7http.DocumentationRequest, error) {
	id, err := requireString(args, ArgLibraryID)
	if err != nil {
		return c7http.DocumentationRequest{}, err
	}

	req := c7http.DocumentationRequest{LibraryID: id}
	if topic, ok := args[ArgTopic].(string); ok {
		req.Topic = &topic
	}
	req.Tokens = tokens(args[ArgTokens])
	return req, nil
}

func requireString(args map[string]any, key string) (string, error) {
	s, ok := args[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: Missing %s parameter", ErrMissingArgument, key)
	}
	return s, nil
}

// tokens accepts a non-negative whole number. Values above the uint32
// range saturate.
func tokens(v any) *uint32 {
	switch v.(type) {
	case nil, string, bool:
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return nil
	}
	t := uint32(math.MaxUint32)
	if f < math.MaxUint32 {
		t = uint32(f)
	}
	return &t
}
