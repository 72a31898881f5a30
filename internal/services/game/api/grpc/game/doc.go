// Package game exposes the game service over gRPC.
//
// GameService is described by hand rather than generated: every method takes
// and returns a google.protobuf.Struct holding the JSON bodies from package
// wire. Methods:
//   - PutPlayer, GetPlayer, ListPlayers -> player stat lines
//   - CreateGame, GetGame -> scheduled and in-progress games
//   - Simulate -> one play, one half-inning or the rest of a game
//   - ListPlays -> the paged play log
//   - ListStandings -> team records from completed games
package game
