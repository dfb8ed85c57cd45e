// Package web serves the local dashboard: a small JSON API over the
// event store plus the embedded static frontend. The server binds to
// loopback only.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/recall-sh/recall/internal/logging"
	"github.com/recall-sh/recall/internal/store"
)

//go:embed static
var staticFiles embed.FS

// Server exposes the history API and dashboard over HTTP.
type Server struct {
	store *store.Store
	mux   *http.ServeMux
}

// New builds a server over the given store and registers all routes.
func New(s *store.Store) *Server {
	srv := &Server{
		store: s,
		mux:   http.NewServeMux(),
	}

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("web: embedded static tree missing: %v", err))
	}
	srv.mux.Handle("GET /", http.FileServerFS(staticFS))

	srv.mux.HandleFunc("GET /api/sessions", srv.handleSessions)
	srv.mux.HandleFunc("GET /api/commands", srv.handleCommands)
	srv.mux.HandleFunc("GET /api/search", srv.handleSearch)
	srv.mux.HandleFunc("GET /api/stats", srv.handleStats)
	srv.mux.HandleFunc("GET /api/graph", srv.handleGraph)

	return srv
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start binds to 127.0.0.1:port and serves until the listener closes.
// The local browser is opened best-effort.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: failed to bind %s: %w", addr, err)
	}

	url := fmt.Sprintf("http://%s", addr)
	fmt.Printf("recall web server running at %s\n", url)
	openBrowser(url)

	logging.Logger.Info("web server started", "addr", addr)
	return http.Serve(listener, s)
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		return
	}
	_ = cmd.Start()
}
