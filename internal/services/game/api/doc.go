// Package api contains the transports of the game service.
//
// Subpackages:
//   - grpc/game: the GameService over structpb messages, plus a typed client
//   - grpc/metadata: request id and locale helpers and interceptors
//   - grpc/interceptors: error mapping and request logging
//   - rest: the same operations as JSON over HTTP
//   - wire: request and response bodies shared by both transports
package api
