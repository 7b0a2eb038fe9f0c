// c67-mcp serves Context7 library documentation to MCP clients. It speaks
// MCP on stdio by default, or streamable HTTP with --transport http.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/c67-mcp/go-c67/src/config"
	"github.com/c67-mcp/go-c67/src/logging"
	c7http "github.com/c67-mcp/go-c67/src/transports/http"
	"github.com/c67-mcp/go-c67/src/transports/mcp"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs, flags := config.NewFlagSet("c67-mcp")
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	version := buildVersion()
	if flags.Version {
		fmt.Fprintf(stdout, "%s %s\n", mcp.Name, version)
		return nil
	}

	settings, err := config.Load(flags)
	if err != nil {
		return err
	}

	level, err := logging.Level(logging.Options{
		Level:   settings.LogLevel,
		Debug:   settings.Debug,
		Verbose: settings.Verbose,
	})
	if err != nil {
		return err
	}
	logger := logging.New(stderr, level)
	logger.Debug().
		Str("base_url", settings.BaseURL).
		Bool("insecure", settings.Insecure).
		Bool("api_key", settings.APIKey != "").
		Str("transport", settings.Transport).
		Msg("starting")
	if settings.Insecure {
		logger.Warn().Msg("TLS certificate verification is disabled")
	}

	client := c7http.NewClient(c7http.ClientConfig{
		APIKey:    settings.APIKey,
		BaseURL:   settings.BaseURL,
		Insecure:  settings.Insecure,
		Timeout:   settings.Timeout,
		UserAgent: mcp.Name + "/" + version,
	}, logging.Printf(logger.With().Str("component", "upstream").Logger(), zerolog.DebugLevel))

	srv := mcp.New(client, mcp.WithLogger(logger), mcp.WithVersion(version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch settings.Transport {
	case config.TransportHTTP:
		return srv.ServeHTTP(ctx, settings.HTTPAddr)
	default:
		fmt.Fprintln(stderr, "Context7 Documentation MCP Server running on stdio")
		return srv.ServeStdio(ctx, stdin, stdout, stderr)
	}
}

// buildVersion reports the module version the binary was built from.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return mcp.Version
	}
	return info.Main.Version
}
