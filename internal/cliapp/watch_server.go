package cliapp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowctl/flowctl/internal/watch"
)

// watchServer owns the background HTTP server serving the live status
// websocket for a single run/backfill invocation.
type watchServer struct {
	httpServer *http.Server
}

func startWatchServer(addr string, broadcaster *watch.Broadcaster, logger *slog.Logger) *watchServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", broadcaster.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("cliapp: watch server stopped", "error", err)
		}
	}()
	return &watchServer{httpServer: srv}
}

// Close shuts the server down, giving in-flight connections a short grace
// period.
func (s *watchServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
}
