package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/runner/mcp"
)

type mcpOptions struct {
	transport string
	host      string
	port      int
	path      string
	tlsCert   string
	tlsKey    string
}

func addMCP(topLevel *cobra.Command) {
	o := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the catalog, type relations, moves and
favorites as Model Context Protocol tools and resources.`,
		Example: `
pokedex mcp --transport stdio
pokedex mcp --http-port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := o.runner()
			if err != nil {
				return err
			}
			s, err := newSession(cmd.Context(), logToStderr, query.WithGCTime(query.DefaultGCTime))
			if err != nil {
				return err
			}
			defer s.close()

			runner.App = s.app
			if runner.Transport == mcp.TransportHTTP {
				runner.OnHTTPListening = func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n",
						listenURL(o.host, a, runner.HTTPServerCert != "" && runner.HTTPServerKey != "", runner.HTTPEndpointPath))
				}
			}
			return runner.Do(s.ctx)
		},
	}

	cmd.Flags().StringVar(&o.transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&o.host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&o.port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&o.path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&o.tlsCert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&o.tlsKey, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}

// runner validates the flags. App is left for the caller.
func (o *mcpOptions) runner() (mcp.Runner, error) {
	path := strings.TrimSpace(o.path)
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	r := mcp.Runner{
		Name:             "pokedex",
		Version:          version,
		HTTPEndpointPath: path,
		HTTPServerCert:   strings.TrimSpace(o.tlsCert),
		HTTPServerKey:    strings.TrimSpace(o.tlsKey),
	}

	switch mcp.Transport(strings.ToLower(strings.TrimSpace(o.transport))) {
	case "", mcp.TransportHTTP:
		host := strings.TrimSpace(o.host)
		if host == "" {
			host = "127.0.0.1"
		}
		if o.port < 0 || o.port > 65535 {
			return r, fmt.Errorf("invalid http-port %d", o.port)
		}
		r.Transport = mcp.TransportHTTP
		r.HTTPListenAddr = net.JoinHostPort(host, strconv.Itoa(o.port))
	case mcp.TransportStdio:
		r.Transport = mcp.TransportStdio
	default:
		return r, fmt.Errorf("unsupported transport %q (expected http or stdio)", o.transport)
	}
	return r, nil
}

// listenURL is the address a client should dial. Wildcard hosts resolve to the
// bound IP, or loopback.
func listenURL(host string, a net.Addr, secure bool, path string) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return scheme + "://" + a.String() + path
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	return scheme + "://" + net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(tcp.Port)) + path
}
