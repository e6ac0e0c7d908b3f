package server

import (
	"context"
	"encoding/json"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yoguido/yoguido/internal/dispatch"
	"github.com/yoguido/yoguido/internal/logging"
	"github.com/yoguido/yoguido/internal/session"
	"github.com/yoguido/yoguido/internal/wire"
)

//go:embed client.js
var clientJS []byte

// maxEventBody bounds an inbound event envelope.
const maxEventBody = 1 << 20

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address.
	Addr string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves pages and events over HTTP.
type Server struct {
	cfg        Config
	sessions   *session.Manager
	dispatcher *dispatch.Dispatcher
	renderer   MarkupRenderer
	logger     *logging.Logger

	httpSrv *http.Server
}

// New creates a server. A nil logger disables logging.
func New(cfg Config, sessions *session.Manager, dispatcher *dispatch.Dispatcher, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &Server{
		cfg:        cfg,
		sessions:   sessions,
		dispatcher: dispatcher,
		renderer:   HTMLRenderer{},
		logger:     logger.WithComponent("server"),
	}
}

// SetRenderer replaces the initial-markup renderer.
func (s *Server) SetRenderer(r MarkupRenderer) {
	s.renderer = r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /yoguido/client.js", s.handleClientJS)
	mux.HandleFunc("POST /yoguido/event", s.handleEvent)
	mux.HandleFunc("POST /yoguido/resync", s.handleResync)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /", s.handlePage)
	return mux
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.logger.Info("listening on %s", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handlePage serves the initial HTML shell for a page GET, creating a fresh
// session at the requested path.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create(r.URL.Path)

	result := s.dispatcher.FullRender(sess)
	if result.Status == dispatch.StatusError {
		s.logger.WithSession(sess.ID()).Error("initial render failed: %v", result.Err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		s.sessions.Destroy(sess.ID())
		return
	}

	boot := map[string]any{
		"session":  sess.ID(),
		"version":  result.Version,
		"fullTree": result.Tree,
	}
	bootJSON, err := json.Marshal(boot)
	if err != nil {
		s.logger.Error("marshaling bootstrap: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageShell,
		html.EscapeString(result.Title),
		s.renderer.RenderTree(result.Tree),
		// </script> inside the blob would terminate the tag early.
		strings.ReplaceAll(string(bootJSON), "</", `<\/`),
	)
}

// handleEvent handles one client interaction. An unknown session answers
// with a fresh session and a resync rather than an error, so an expired tab
// recovers on its next click.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ev, err := wire.ParseEvent(body)
	if err != nil {
		s.logger.Warn("rejecting event: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Get(ev.Session)
	if errors.Is(err, session.ErrNotFound) {
		s.reviveSession(w, r)
		return
	}

	result := s.dispatcher.Dispatch(sess, ev.Node, ev.Event, ev.Payload)
	s.writeResult(w, sess, result, false)
}

// handleResync re-renders a session's page in full. The client asks for it
// when its DOM is known-stale, such as after a version skew.
func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	id, err := wire.ParseSessionRef(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		s.reviveSession(w, r)
		return
	}

	result := s.dispatcher.FullRender(sess)
	s.writeResult(w, sess, result, false)
}

// reviveSession answers an orphaned event with a brand-new session rendered
// at the page root. State in the dead session is gone; only the session ID
// in the response tells the client to start over.
func (s *Server) reviveSession(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	sess := s.sessions.Create(path)
	s.logger.WithSession(sess.ID()).Info("revived expired session at %s", path)

	result := s.dispatcher.FullRender(sess)
	s.writeResult(w, sess, result, true)
}

// writeResult encodes a dispatch result. includeSession adds the session ID
// so the client can adopt a replacement session.
func (s *Server) writeResult(w http.ResponseWriter, sess *session.Session, result dispatch.Result, includeSession bool) {
	var (
		msg []byte
		err error
	)
	switch result.Status {
	case dispatch.StatusPatch:
		msg, err = wire.EncodePatch(result.Version, result.Patches, result.Notifications)
	case dispatch.StatusResync:
		msg, err = wire.EncodeResync(result.Version, result.Title, result.Tree, result.Notifications)
	case dispatch.StatusError:
		msg, err = wire.EncodeError(result.Version, result.Err.Error())
	default:
		err = fmt.Errorf("unknown dispatch status %v", result.Status)
	}
	if err == nil && includeSession {
		msg, err = wire.WithSession(msg, sess.ID())
	}
	if err != nil {
		s.logger.Error("encoding response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(msg)
}

func (s *Server) handleClientJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	_, _ = w.Write(clientJS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, s.sessions.Len())
}

// pageShell is the HTML wrapper of the initial render: title, server-side
// markup, bootstrap blob, client script.
const pageShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body>
<div id="yg-mount">%s</div>
<script>window.__YOGUIDO__ = %s;</script>
<script src="/yoguido/client.js"></script>
</body>
</html>
`
