// Package lifecycle holds shared timeouts for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds graceful start/stop of infrastructure components.
const DefaultTimeout = 10 * time.Second
