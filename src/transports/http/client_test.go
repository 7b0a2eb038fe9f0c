package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uint32Ptr(v uint32) *uint32 { return &v }

func stringPtr(v string) *string { return &v }

func TestResolveTokens(t *testing.T) {
	assert.Equal(t, uint32(5000), ResolveTokens(nil))
	assert.Equal(t, uint32(1000), ResolveTokens(uint32Ptr(100)))
	assert.Equal(t, uint32(1000), ResolveTokens(uint32Ptr(0)))
	assert.Equal(t, uint32(1000), ResolveTokens(uint32Ptr(1000)))
	assert.Equal(t, uint32(7000), ResolveTokens(uint32Ptr(7000)))
}

func TestNormalizeLibraryID(t *testing.T) {
	assert.Equal(t, "a/b", NormalizeLibraryID("/a/b"))
	assert.Equal(t, "a/b", NormalizeLibraryID("a/b"))
	assert.Equal(t, "/a/b", NormalizeLibraryID("//a/b"))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(ClientConfig{}, nil)
	assert.Equal(t, DefaultBaseURL, c.Config().BaseURL)
	assert.Zero(t, c.httpClient.Timeout)

	c = NewClient(ClientConfig{BaseURL: "https://example.com/api/", Timeout: time.Second}, nil)
	assert.Equal(t, "https://example.com/api", c.Config().BaseURL)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/search", r.URL.Path)
		assert.Equal(t, "nix", r.URL.Query().Get("query"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get(sourceHeader))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":"/nixos/nix","title":"Nix","description":"The Nix package manager","totalSnippets":1241,"trustScore":9.0,"versions":["2.18.0","2.17.0"]}],"error":null}`))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{BaseURL: server.URL}, nil)
	outcome, err := c.Search(context.Background(), "nix")
	require.NoError(t, err)
	require.Empty(t, outcome.Error)
	require.Len(t, outcome.Matches, 1)

	m := outcome.Matches[0]
	assert.Equal(t, "/nixos/nix", m.ID)
	assert.Equal(t, "Nix", m.Title)
	require.NotNil(t, m.TotalSnippets)
	assert.Equal(t, int32(1241), *m.TotalSnippets)
	require.NotNil(t, m.TrustScore)
	assert.Equal(t, 9.0, *m.TrustScore)
	assert.Equal(t, []string{"2.18.0", "2.17.0"}, m.Versions)
}

func TestClient_Search_APIKey(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"results":[],"error":null}`))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{APIKey: "test-api-key", BaseURL: server.URL}, nil)
	outcome, err := c.Search(context.Background(), "react")
	require.NoError(t, err)
	assert.Empty(t, outcome.Error)
	assert.Empty(t, outcome.Matches)
	assert.Equal(t, "Bearer test-api-key", auth)
}

func TestClient_Search_TrustScoreCoercion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"id":"/a/int","title":"A","description":"","trustScore":7},
			{"id":"/a/str","title":"B","description":"","trustScore":"6.5"},
			{"id":"/a/null","title":"C","description":"","trustScore":null}
		]}`))
	}))
	defer server.Close()

	outcome, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).Search(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, outcome.Matches, 3)
	assert.Equal(t, 7.0, *outcome.Matches[0].TrustScore)
	assert.Equal(t, 6.5, *outcome.Matches[1].TrustScore)
	assert.Nil(t, outcome.Matches[2].TrustScore)
	assert.Nil(t, outcome.Matches[2].TotalSnippets)
	assert.Nil(t, outcome.Matches[2].Versions)
}

func TestClient_Search_UpstreamErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":"/x/y","title":"X","description":""}],"error":"index unavailable"}`))
	}))
	defer server.Close()

	outcome, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "index unavailable", outcome.Error)
	assert.Empty(t, outcome.Matches)
}

func TestClient_Search_StatusMapping(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		want   string
	}{
		{"rate limited", http.StatusTooManyRequests, "Rate limited"},
		{"unauthorized", http.StatusUnauthorized, "Unauthorized. Please check your API key."},
		{"not found", http.StatusNotFound, "Failed to search libraries: "},
		{"server error", http.StatusInternalServerError, "status code 500"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			outcome, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).Search(context.Background(), "test")
			require.NoError(t, err)
			assert.Empty(t, outcome.Matches)
			assert.Contains(t, outcome.Error, tc.want)
		})
	}
}

func TestClient_Search_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer server.Close()

	_, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).Search(context.Background(), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode search response")
}

func TestClient_Search_MissingRequiredFields(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		want string
	}{
		{"no results", `{"error":null}`, "results"},
		{"null results", `{"results":null,"error":"index unavailable"}`, "results"},
		{"match without id", `{"results":[{"title":"X","description":""}]}`, "id"},
		{"match with null title", `{"results":[{"id":"/x/y","title":null,"description":""}]}`, "title"},
		{"match without description", `{"results":[{"id":"/x/y","title":"X"}]}`, "description"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).Search(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, errMissingField)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestClient_Search_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	outcome, err := NewClient(ClientConfig{BaseURL: baseURL}, nil).Search(context.Background(), "test")
	require.NoError(t, err)
	assert.Empty(t, outcome.Matches)
	assert.True(t, strings.HasPrefix(outcome.Error, "Failed to search libraries: "), outcome.Error)
}

func TestClient_FetchDocumentation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/nixos/nix", r.URL.Path)
		assert.Equal(t, "5000", r.URL.Query().Get("tokens"))
		assert.Equal(t, "txt", r.URL.Query().Get("type"))
		_, hasTopic := r.URL.Query()["topic"]
		assert.False(t, hasTopic)
		assert.Equal(t, sourceValue, r.Header.Get(sourceHeader))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Write([]byte("# Getting Started with Nix\n\nInstall Nix: `curl -L https://nixos.org/nix/install | sh`"))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{APIKey: "key", BaseURL: server.URL}, nil)
	text, ok, err := c.FetchDocumentation(context.Background(), DocumentationRequest{LibraryID: "/nixos/nix"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, text, "Getting Started with Nix")
	assert.Contains(t, text, "curl -L https://nixos.org/nix/install")
}

func TestClient_FetchDocumentation_TopicAndTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/nixos/nix", r.URL.Path)
		assert.Equal(t, "3000", r.URL.Query().Get("tokens"))
		assert.Equal(t, "installation", r.URL.Query().Get("topic"))
		w.Write([]byte("Installation documentation content"))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{BaseURL: server.URL}, nil)
	text, ok, err := c.FetchDocumentation(context.Background(), DocumentationRequest{
		LibraryID: "nixos/nix",
		Tokens:    uint32Ptr(3000),
		Topic:     stringPtr("installation"),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Installation documentation content", text)
}

func TestClient_FetchDocumentation_ClampsTokens(t *testing.T) {
	var tokens string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = r.URL.Query().Get("tokens")
		w.Write([]byte("docs"))
	}))
	defer server.Close()

	c := NewClient(ClientConfig{BaseURL: server.URL}, nil)
	_, _, err := c.FetchDocumentation(context.Background(), DocumentationRequest{LibraryID: "/a/b", Tokens: uint32Ptr(100)})
	require.NoError(t, err)
	assert.Equal(t, "1000", tokens)
}

func TestClient_FetchDocumentation_NoContent(t *testing.T) {
	for _, body := range []string{"", "No content available", "No context data available"} {
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			text, ok, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).
				FetchDocumentation(context.Background(), DocumentationRequest{LibraryID: "/empty/library"})
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, text)
		})
	}
}

func TestClient_FetchDocumentation_StatusMapping(t *testing.T) {
	for _, tc := range []struct {
		name   string
		status int
		want   string
	}{
		{"rate limited", http.StatusTooManyRequests, MsgRateLimited},
		{"not found", http.StatusNotFound, MsgLibraryNotFound},
		{"unauthorized", http.StatusUnauthorized, MsgUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			text, ok, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).
				FetchDocumentation(context.Background(), DocumentationRequest{LibraryID: "/nonexistent/library"})
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tc.want, text)
		})
	}
}

func TestClient_FetchDocumentation_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	text, ok, err := NewClient(ClientConfig{BaseURL: server.URL}, nil).
		FetchDocumentation(context.Background(), DocumentationRequest{LibraryID: "/a/b"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "Failed to fetch documentation: "), text)
	assert.Contains(t, text, "status code 502")
}

func TestClient_CallerStopsWaiting(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("late docs"))
		close(finished)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(ClientConfig{BaseURL: server.URL}, nil)

	errc := make(chan error, 1)
	go func() {
		_, _, err := c.FetchDocumentation(ctx, DocumentationRequest{LibraryID: "/a/b"})
		errc <- err
	}()

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	// The upstream request is not aborted by the caller going away.
	close(release)
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("upstream handler never completed")
	}
}

func TestClient_Logger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var lines []string
	logger := func(format string, args ...interface{}) {
		lines = append(lines, format)
	}
	_, err := NewClient(ClientConfig{BaseURL: server.URL}, logger).Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Contains(t, lines, "Search rate limited (status %d)")
}
