package mcp

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// EndpointPath is where the streamable HTTP transport accepts requests.
const EndpointPath = "/mcp"

const shutdownTimeout = 5 * time.Second

// ServeStdio reads JSON-RPC messages from in and writes responses to out
// until ctx is done or in reaches EOF. Transport errors go to errOut.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer, errOut io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(errOut, "", log.LstdFlags))

	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Handler returns the streamable HTTP transport as an http.Handler.
func (s *Server) Handler() *mcpserver.StreamableHTTPServer {
	return mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithEndpointPath(EndpointPath))
}

// ServeHTTP listens on addr until ctx is done, then shuts down.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := s.Handler()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Start(addr)
	}()
	s.logger.Info().Str("addr", addr).Str("path", EndpointPath).Msg("streamable HTTP transport listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
