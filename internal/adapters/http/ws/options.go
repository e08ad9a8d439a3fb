package ws

import (
	"net/http"

	"github.com/aubridge/torneos/pkg/logger"
)

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithCheckOrigin narrows which origins may subscribe.
func WithCheckOrigin(check func(r *http.Request) bool) Option {
	return func(h *Hub) {
		if check != nil {
			h.upgrader.CheckOrigin = check
		}
	}
}

// WithLogger sets a custom logger for the hub.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}
