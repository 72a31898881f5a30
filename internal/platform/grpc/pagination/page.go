// Package pagination normalizes page sizes and offset page tokens for list
// endpoints.
package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
)

// ErrInvalidPageToken indicates a token this package did not issue.
var ErrInvalidPageToken = errors.New("invalid page token")

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	size := int(value)
	if size <= 0 {
		size = cfg.Default
	}
	if cfg.Max > 0 && size > cfg.Max {
		size = cfg.Max
	}
	return max(size, 1)
}

// EncodeOffset returns the token for the page starting at offset. Offset
// zero encodes as the empty token.
func EncodeOffset(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeOffset reverses EncodeOffset.
func DecodeOffset(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, ErrInvalidPageToken
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}
	return offset, nil
}

// Next returns the token for the page after one that started at offset and
// returned n of total items, or "" when nothing remains.
func Next(offset, n, total int) string {
	if offset+n >= total {
		return ""
	}
	return EncodeOffset(offset + n)
}
