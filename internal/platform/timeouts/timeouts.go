// Package timeouts holds the durations shared by the garoball servers and
// the sim client.
package timeouts

import "time"

// GRPCDial caps how long the sim client waits for a healthy game server.
const GRPCDial = 2 * time.Second

// Simulate caps a single simulate request, including persistence.
const Simulate = 30 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
