package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown. The MCP stdio server
// is the primary surface; the ops HTTP server runs alongside it.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("log-level", a.cfg.LogLevel),
		zap.String("storage-mode", a.cfg.StorageMode),
		zap.Duration("cache-ttl", a.cfg.CacheTTL))

	// Start ops HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Mark as ready
	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.Strings("platforms", a.federation.Platforms()))

	// Run MCP server over stdio
	mcpErr := make(chan error, 1)
	go func() {
		mcpErr <- a.mcpServer.Run(a.ctx)
	}()

	return a.waitForShutdown(mcpErr)
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) waitForShutdown(mcpErr <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case err := <-mcpErr:
		// The MCP client disconnecting ends the session; that is a normal
		// exit, not a failure.
		if err != nil {
			a.logger.Error("mcp-server-error", zap.Error(err))
		} else {
			a.logger.Info("mcp-client-disconnected")
		}
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
