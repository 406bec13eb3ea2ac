package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aretw0/scriptflow/internal/config"
	"github.com/aretw0/scriptflow/pkg/adapters/file"
	"github.com/aretw0/scriptflow/pkg/adapters/memory"
	"github.com/aretw0/scriptflow/pkg/adapters/redis"
	"github.com/aretw0/scriptflow/pkg/persistence/middleware"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/aretw0/scriptflow/pkg/session"
)

// Backend bundles the session store chosen by configuration.
type Backend struct {
	Store  ports.StateStore
	Locker ports.SessionLocker
	Kind   string

	close func() error
}

// Close releases the backend connection, if any.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// ManagerOptions returns the session.Manager options matching the backend.
func (b *Backend) ManagerOptions(cfg config.Config, logger *slog.Logger) []session.ManagerOption {
	opts := []session.ManagerOption{session.WithManagerLogger(logger)}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker), session.WithLockTTL(cfg.Redis.LockTTL))
	}
	return opts
}

// OpenBackend selects Redis when an address is configured, then the session
// directory, and finally an in-memory store. Redaction and encryption from
// cfg.Security wrap whichever store is chosen.
func OpenBackend(cfg config.Config) (*Backend, error) {
	b := openStore(cfg)

	mws, err := securityMiddleware(cfg.Security)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Store = middleware.Chain(b.Store, mws...)
	return b, nil
}

func openStore(cfg config.Config) *Backend {
	if cfg.Redis.Addr != "" {
		store := redis.New(cfg.Redis.Addr,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), store.Prefix()),
			Kind:   "redis",
			close:  store.Client().Close,
		}
	}
	if cfg.SessionDir != "" {
		return &Backend{Store: file.NewStore(cfg.SessionDir), Kind: "file"}
	}
	return &Backend{Store: memory.NewStore(), Kind: "memory"}
}

// securityMiddleware redacts before it seals, so masked answers are what gets encrypted.
func securityMiddleware(sec config.SecurityConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	patterns := append([]string(nil), sec.RedactPatterns...)
	if sec.RedactPII {
		patterns = append(patterns, middleware.PatternEmail, middleware.PatternPhone)
	}
	if len(patterns) > 0 {
		mw, err := middleware.NewPIIMiddleware(patterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}

	if sec.EncryptionKey == "" {
		return mws, nil
	}
	active, err := decodeKey(sec.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range sec.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	mw, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		return nil, err
	}
	return append(mws, mw), nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("key is not valid base64: %w", err)
	}
	return key, nil
}
