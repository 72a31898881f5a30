// Package id generates opaque identifiers for games and plays.
package id

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random UUIDv4 encoded as 26 lowercase base32 characters.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}
