// Package api implements the hidlink control protocol: NUL-terminated
// "<path> [payload]" commands over TCP answered with one JSON line, with
// optional PSK authentication and transport encryption.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"

	"github.com/openlabtools/hidlink/internal/server/api/auth"
	apierror "github.com/openlabtools/hidlink/internal/server/api/error"
)

// Server accepts control connections and dispatches commands through the
// router. One request is served per connection.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig
}

// New creates a control API server.
func New(config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		addr:   config.Addr,
		logger: logger,
		config: config,
		router: NewRouter(),
	}
}

// Router returns the router so the caller can register handlers.
func (s *Server) Router() *Router { return s.router }

// Addr returns the bound listen address, useful when the configured
// address had port zero.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("control API listening", "addr", ln.Addr().String())
	go s.serve()
	return nil
}

// Close stops the listener.
func (s *Server) Close() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Server) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("control API stopped")
				return
			}
			s.logger.Info("control API accept error", "error", err)
			return
		}
		go s.handleConn(c)
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	problemJSON, _ := json.Marshal(apierror.Wrap(err))
	fmt.Fprintf(w, "%s\n", problemJSON)
}

var whitespace = regexp.MustCompile(`\s`)

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connLogger := s.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)
	var w io.Writer = conn

	if s.config.Password != "" {
		if ok, err := auth.IsHandshake(r); err != nil || !ok {
			connLogger.Error("api connection without handshake rejected")
			s.writeError(w, apierror.ErrUnauthorized("authentication required"))
			return
		}
		key, err := auth.DeriveKey(s.config.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}
		clientNonce, serverNonce, err := auth.Handshake(r, conn, key, false)
		if err != nil {
			connLogger.Error("api handshake failed", "error", err)
			s.writeError(w, err)
			return
		}
		sec, err := auth.WrapConn(conn, auth.DeriveSessionKey(key, serverNonce, clientNonce))
		if err != nil {
			s.writeError(w, err)
			return
		}
		r = bufio.NewReader(sec)
		w = sec
	}

	reqData, err := r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("api incomplete request (no null terminator)")
		} else {
			connLogger.Error("read api data", "error", err)
		}
		return
	}
	reqData = strings.TrimSuffix(reqData, "\x00")

	if reqData == "" {
		connLogger.Error("api empty command")
		s.writeError(w, apierror.ErrBadRequest("empty request"))
		return
	}

	var path, payload string
	if loc := whitespace.FindStringIndex(reqData); loc != nil {
		path = reqData[:loc[0]]
		payload = reqData[loc[1]:]
	} else {
		path = reqData
	}

	connLogger.Info("api cmd", "path", path)

	h, params := s.router.Match(path)
	if h == nil {
		connLogger.Error("api unknown path", "path", path)
		s.writeError(w, apierror.ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
		return
	}

	req := &Request{Ctx: context.Background(), Params: params, Payload: payload}
	res := &Response{}
	if err := h(req, res, connLogger); err != nil {
		connLogger.Error("api handler error", "path", path, "error", err)
		s.writeError(w, err)
		return
	}
	connLogger.Debug("api handler success", "path", path)
	fmt.Fprintf(w, "%s\n", res.JSON)
}
