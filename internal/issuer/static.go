package issuer

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexZinkM/authenticity-key/internal/crypto"
)

// Static is an issuer registry backed by a fixed list of public keys
type Static struct {
	keys map[string]struct{}
}

// NewStatic builds a registry from hex encoded compressed public keys.
// Blank entries are skipped, malformed keys are an error.
func NewStatic(publicKeys []string) (*Static, error) {
	keys := make(map[string]struct{}, len(publicKeys))
	for _, key := range publicKeys {
		key = normalize(key)
		if key == "" {
			continue
		}
		if _, err := crypto.ParsePublicKey(key); err != nil {
			return nil, fmt.Errorf("trusted issuer %q: %w", key, err)
		}
		keys[key] = struct{}{}
	}
	return &Static{keys: keys}, nil
}

func (s *Static) IsKnownIssuer(_ context.Context, publicKey string) (bool, error) {
	_, ok := s.keys[normalize(publicKey)]
	return ok, nil
}

// Len returns the number of trusted issuers
func (s *Static) Len() int {
	return len(s.keys)
}

func normalize(publicKey string) string {
	return strings.ToLower(strings.TrimSpace(publicKey))
}

func (s *Static) Close() error {
	return nil
}
