package providers

import "time"

// shutdownTimeout bounds graceful shutdown of the HTTP server and any
// in-flight requests.
const shutdownTimeout = 30 * time.Second
