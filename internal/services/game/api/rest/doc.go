// Package rest exposes the game service as JSON over HTTP.
//
// Routes mirror the gRPC GameService and share its request and response
// bodies from package wire. Errors carry the domain code and a message
// localized from the Accept-Language header.
package rest
