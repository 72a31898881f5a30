// Package storage defines persistence interfaces for the game service.
//
// It covers players, games (the full engine state plus both pitching staffs),
// play records and standings. Implementations live in subpackages: memory for
// tests and the CLI, sqlstore for sqlite and postgres.
//
// Common error types:
//   - ErrNotFound: requested record is missing
//   - ErrAlreadyExists: a create collided with an existing record
package storage
