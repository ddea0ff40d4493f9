// Package app wires the configuration, adapters, federation service, ops
// HTTP server, and MCP stdio server into one runnable application.
package app

import (
	"context"
	"sync"

	"github.com/mselser95/predictmarket-mcp/internal/federation"
	"github.com/mselser95/predictmarket-mcp/internal/mcpserver"
	"github.com/mselser95/predictmarket-mcp/internal/storage"
	"github.com/mselser95/predictmarket-mcp/pkg/config"
	"github.com/mselser95/predictmarket-mcp/pkg/healthprobe"
	"github.com/mselser95/predictmarket-mcp/pkg/httpserver"
	"go.uber.org/zap"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	federation    *federation.Service
	mcpServer     *mcpserver.Server
	store         storage.Store
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
