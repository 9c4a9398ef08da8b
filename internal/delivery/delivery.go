// Package delivery defines the contract every transport adapter satisfies.
package delivery

import "context"

// Delivery is a long-running inbound adapter, such as an HTTP server.
// Serve blocks until the adapter stops or the context is canceled.
type Delivery interface {
	Serve(ctx context.Context) error
}
