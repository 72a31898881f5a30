// Package service implements the game service operations shared by the
// gRPC and HTTP surfaces: player registration, game creation, simulation,
// play logs and standings.
//
// Simulate serializes requests per game and persists the new state, the
// play records and any standings change in one transaction. A failed
// request leaves the stored game untouched, so a retry replays the same
// plate appearances from the saved generator position.
package service
