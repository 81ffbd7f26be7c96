package requestid

import (
	crand "crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const DefaultHeaderKey = "X-Request-Id"

const (
	FormatUUID       = "uuid"
	FormatIdentifier = "identifier"
)

// IdentifierAlphabet is the default alphabet of Identifier.
const IdentifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ResolveHeaderKey returns the provided header key when non-empty,
// otherwise falls back to the default request id header key.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen generates a random (v4) UUID request id.
func Gen() string {
	return uuid.NewString()
}

// Identifier generates a random string of size runes drawn from chars, e.g.
// for api keys or short request ids. An empty chars uses IdentifierAlphabet.
func Identifier(size int, chars string) string {
	if size <= 0 {
		return ""
	}
	if chars == "" {
		chars = IdentifierAlphabet
	}
	alphabet := []rune(chars)
	var b strings.Builder
	b.Grow(size)
	for i := 0; i < size; i++ {
		b.WriteRune(alphabet[cryptoRandIntn(len(alphabet))])
	}
	return b.String()
}

// Generator returns the id generator for a configured format. Unknown
// formats fall back to UUIDs.
func Generator(format string) func() string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatIdentifier:
		return func() string { return Identifier(16, IdentifierAlphabet) }
	default:
		return Gen
	}
}

func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}
	nBig, err := crand.Int(crand.Reader, big.NewInt(int64(max)))
	if err != nil {
		// best effort fallback
		return 0
	}
	return int(nBig.Int64())
}
