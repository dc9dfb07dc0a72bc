// Package mcp exposes login resolution over the Model Context Protocol
// so agents can ask a host "when did this user last log in" without
// shelling out.
package mcp

import (
	"context"
	"log/slog"

	"github.com/hostwatch/lastseen/internal/domain/login"
	"github.com/hostwatch/lastseen/internal/history"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `lastseen resolves the most recent login for local host accounts.
Use resolve_user for a single account (by name or uid), resolve_all for every
account, and boot_time for the most recent system boot. When snapshot tools are
available, take_snapshot archives the current resolution and list_snapshots
shows past runs.`

// ResolverService defines the resolution operations needed by MCP.
type ResolverService interface {
	ResolveAll() ([]login.Record, error)
	ResolveUID(uid uint32) (login.Record, error)
	ResolveName(name string) (login.Record, error)
	ResolveBootTime() (login.Record, error)
	Source() (string, error)
}

// HistoryService defines the snapshot-archive operations needed by MCP.
type HistoryService interface {
	Archive(ctx context.Context, source string, records []login.Record) (*history.Snapshot, error)
	List(ctx context.Context, limit int) ([]history.Snapshot, error)
}

// Services contains the domain services needed by MCP. History may be
// nil; snapshot tools then stay unregistered.
type Services struct {
	Resolver ResolverService
	History  HistoryService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "lastseen",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
