// Package grpc groups the gRPC transport of the game service.
//
//   - game/: the GameService descriptor, handlers and client
//   - metadata/: request id and locale propagation
//   - interceptors/: error mapping and logging
package grpc
