// Package server composes the game service into a runnable process.
//
// It opens the store, loads engine tuning, and serves the GameService over
// gRPC (with health checks) and the same operations as JSON over HTTP.
package server
