package api

import (
	"context"
	"log/slog"
	"strings"
)

// Request contains route parameters and the raw payload of the command.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response. The logger
// is connection-scoped, enriched with the remote address by the server.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// Router matches request paths against patterns with {name} placeholders,
// e.g. "device/{index}/send".
type Router struct {
	routes []routeEntry
}

type routeEntry struct {
	originalParts []string
	parts         []string
	handler       HandlerFunc
}

// NewRouter returns an empty Router.
func NewRouter() *Router { return &Router{} }

// Register registers a handler for a path pattern.
func (r *Router) Register(pattern string, handler HandlerFunc) {
	r.routes = append(r.routes, routeEntry{
		originalParts: strings.Split(pattern, "/"),
		parts:         strings.Split(strings.ToLower(pattern), "/"),
		handler:       handler,
	})
}

// Match returns the handler and extracted params for a path, or nil when
// nothing matches. Matching is case-insensitive; placeholder names keep
// their registered casing.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range r.routes {
		if len(rt.parts) != len(parts) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i := range parts {
			if strings.HasPrefix(rt.parts[i], "{") && strings.HasSuffix(rt.parts[i], "}") {
				name := rt.originalParts[i][1 : len(rt.originalParts[i])-1]
				params[name] = parts[i]
				continue
			}
			if rt.parts[i] != parts[i] {
				ok = false
				break
			}
		}
		if ok {
			return rt.handler, params
		}
	}
	return nil, nil
}
