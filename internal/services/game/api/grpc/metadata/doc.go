// Package metadata reads and stamps the request headers the game service
// cares about.
//
// # Header Constants
//
//   - RequestIDHeader: correlates server logs and traces with a client call.
//   - LocaleHeader: selects the language of error messages.
package metadata
