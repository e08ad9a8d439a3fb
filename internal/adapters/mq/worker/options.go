package worker

import (
	"github.com/aubridge/torneos/pkg/logger"
)

// Option applies a configuration option to an ImportWorker.
type Option func(*ImportWorker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *ImportWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *ImportWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithNotifier wires a listener for finished jobs, typically the live
// update hub.
func WithNotifier(n Notifier) Option {
	return func(w *ImportWorker) {
		w.notifier = n
	}
}
