package issuer

import (
	"context"
	"fmt"
)

// Registry answers whether a public key belongs to a trusted issuer
type Registry interface {
	IsKnownIssuer(ctx context.Context, publicKey string) (bool, error)
	Close() error
}

// Open picks the registry for the given settings: a redis set when redisURL is
// set, seeded with trusted, otherwise the static list. It returns nil when
// neither is configured.
func Open(ctx context.Context, redisURL, redisKey string, trusted []string) (Registry, error) {
	if redisURL != "" {
		r, err := NewRedis(redisURL, redisKey)
		if err != nil {
			return nil, err
		}
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		if err := r.Add(ctx, trusted...); err != nil {
			_ = r.Close()
			return nil, err
		}
		return r, nil
	}

	if len(trusted) == 0 {
		return nil, nil
	}
	return NewStatic(trusted)
}
