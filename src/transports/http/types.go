package http

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

// Messages returned in place of upstream content. Callers render them
// verbatim, so their wording is part of the tool contract.
const (
	MsgRateLimited     = "Rate limited due to too many requests. Please try again later."
	MsgUnauthorized    = "Unauthorized. Please check your API key."
	MsgLibraryNotFound = "The library you are trying to access does not exist. Please try with a different library ID."
)

// Bodies the documentation endpoint sends when a library has nothing to
// serve. They are treated like an empty body.
var noContentBodies = map[string]struct{}{
	"No content available":      {},
	"No context data available": {},
}

// SearchMatch is a single library returned by the search endpoint.
type SearchMatch struct {
	ID            string
	Title         string
	Description   string
	TotalSnippets *int32
	TrustScore    *float64
	Versions      []string
}

// SearchOutcome is the result of a library search. When Error is set,
// Matches is empty.
type SearchOutcome struct {
	Matches []SearchMatch
	Error   string
}

// DocumentationRequest selects the documentation to fetch for one library.
type DocumentationRequest struct {
	LibraryID string
	Tokens    *uint32
	Topic     *string
}

type searchResponse struct {
	Results *[]wireMatch `json:"results"`
	Error   *string      `json:"error"`
}

type wireMatch struct {
	ID            *string  `json:"id"`
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	TotalSnippets *int32   `json:"totalSnippets"`
	TrustScore    any      `json:"trustScore"`
	Versions      []string `json:"versions"`
}

var (
	errTrustScore   = errors.New("invalid trustScore")
	errMissingField = errors.New("missing required field")
)

// trustScore accepts integer and floating point scores as well as numeric
// strings. A null score is absent.
func trustScore(v any) (*float64, error) {
	switch v.(type) {
	case nil:
		return nil, nil
	case bool:
		return nil, fmt.Errorf("%w: %v", errTrustScore, v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTrustScore, err)
	}
	return &f, nil
}

func (r searchResponse) outcome() (SearchOutcome, error) {
	if r.Results == nil {
		return SearchOutcome{}, fmt.Errorf("%w: results", errMissingField)
	}
	matches := make([]SearchMatch, 0, len(*r.Results))
	for i, w := range *r.Results {
		m, err := w.match()
		if err != nil {
			return SearchOutcome{}, fmt.Errorf("result %d: %w", i, err)
		}
		matches = append(matches, m)
	}
	if r.Error != nil && *r.Error != "" {
		return SearchOutcome{Error: *r.Error}, nil
	}
	return SearchOutcome{Matches: matches}, nil
}

func (w wireMatch) match() (SearchMatch, error) {
	switch {
	case w.ID == nil:
		return SearchMatch{}, fmt.Errorf("%w: id", errMissingField)
	case w.Title == nil:
		return SearchMatch{}, fmt.Errorf("library %s: %w: title", *w.ID, errMissingField)
	case w.Description == nil:
		return SearchMatch{}, fmt.Errorf("library %s: %w: description", *w.ID, errMissingField)
	}
	score, err := trustScore(w.TrustScore)
	if err != nil {
		return SearchMatch{}, fmt.Errorf("library %s: %w", *w.ID, err)
	}
	return SearchMatch{
		ID:            *w.ID,
		Title:         *w.Title,
		Description:   *w.Description,
		TotalSnippets: w.TotalSnippets,
		TrustScore:    score,
		Versions:      w.Versions,
	}, nil
}

// statusError describes a response status the client has no dedicated
// message for.
type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: status code %d", e.url, e.status)
}
