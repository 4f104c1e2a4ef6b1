package apiconnect

import (
	"net/http"

	"connectrpc.com/connect"
)

// router dispatches a service's procedures to their handlers.
type router struct {
	handlers map[string]*connect.Handler
}

func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h, ok := r.handlers[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}
	h.ServeHTTP(w, req)
}

func route(handlers map[string]*connect.Handler) *router {
	return &router{handlers: handlers}
}
