package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/tivona-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/tivona-cli/internal/adapters/secrets/pass"
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
)

// Store reads and writes through primary and falls back to the second store
// when primary is unusable.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassFirstWithFileFallback prefers pass(1) and keeps 0600 files under
// fileRoot when pass is missing or broken.
func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if isContextError(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary secret store put failed: %w; fallback secret store put failed: %w", err, fallbackErr)
}

// Get returns domain.ErrSecretNotFound only when neither store holds key and
// neither failed for another reason.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if isContextError(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	if absent(err) && errors.Is(fallbackErr, domain.ErrSecretNotFound) {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return "", fmt.Errorf("primary secret store get failed: %w; fallback secret store get failed: %v", err, fallbackErr)
}

// Delete removes key from both stores, since a value may have been written to
// either of them.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if isContextError(err) {
		return err
	}
	if errors.Is(err, passstore.ErrUnavailable) {
		err = nil
	}

	fallbackErr := s.fallback.Delete(ctx, key)

	switch {
	case err == nil && fallbackErr == nil:
		return nil
	case err == nil:
		return fmt.Errorf("fallback secret store delete failed: %w", fallbackErr)
	case fallbackErr == nil:
		return fmt.Errorf("primary secret store delete failed: %w", err)
	default:
		return fmt.Errorf("primary secret store delete failed: %w; fallback secret store delete failed: %w", err, fallbackErr)
	}
}

func absent(err error) bool {
	return errors.Is(err, domain.ErrSecretNotFound) || errors.Is(err, passstore.ErrUnavailable)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
