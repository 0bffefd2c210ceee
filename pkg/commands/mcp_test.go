package commands

import (
	"net"
	"testing"

	"tableflip.dev/pokedex/pkg/runner/mcp"
)

func TestListenURL(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		addr   net.Addr
		secure bool
		want   string
	}{{
		name: "explicit host",
		host: "127.0.0.1",
		addr: &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 8080},
		want: "http://127.0.0.1:8080/mcp",
	}, {
		name: "wildcard falls back to loopback",
		host: "0.0.0.0",
		addr: &net.TCPAddr{IP: net.IPv4zero, Port: 9000},
		want: "http://127.0.0.1:9000/mcp",
	}, {
		name:   "ipv6 is bracketed",
		host:   "::1",
		addr:   &net.TCPAddr{IP: net.ParseIP("::1"), Port: 443},
		secure: true,
		want:   "https://[::1]:443/mcp",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listenURL(tt.host, tt.addr, tt.secure, "/mcp"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMCPOptions(t *testing.T) {
	r, err := (&mcpOptions{transport: "stdio"}).runner()
	if err != nil || r.Transport != mcp.TransportStdio {
		t.Fatalf("unexpected %v %v", r.Transport, err)
	}

	r, err = (&mcpOptions{transport: "HTTP", host: "localhost", port: 0, path: "rpc"}).runner()
	if err != nil {
		t.Fatal(err)
	}
	if r.HTTPListenAddr != "localhost:0" || r.HTTPEndpointPath != "/rpc" {
		t.Fatalf("unexpected runner %+v", r)
	}

	if _, err := (&mcpOptions{transport: "http", port: 70000}).runner(); err == nil {
		t.Fatal("expected port error")
	}
	if _, err := (&mcpOptions{transport: "sse"}).runner(); err == nil {
		t.Fatal("expected transport error")
	}
}
