// Package delivery defines the contract shared by all transport adapters.
package delivery

import "context"

// Delivery is a transport adapter (HTTP server, worker, ...) started by the
// application entry point and stopped through its lifecycle hook.
type Delivery interface {
	// Serve blocks until the delivery stops or fails.
	Serve(ctx context.Context) error
}
