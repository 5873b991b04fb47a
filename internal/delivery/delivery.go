// Package delivery defines the contract every transport front-end
// (HTTP server, background workers) fulfills so the composition root can
// start them uniformly.
package delivery

import "context"

// Delivery is a long-running request-serving component. Serve blocks
// until the delivery stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
