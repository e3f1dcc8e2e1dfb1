// Package session holds the client's authentication state: the persisted
// access token (TokenStore) and its in-memory mirror (Session).
package session

import (
	"context"
	"fmt"

	"github.com/tealives/tealives-client/internal/client/repositories/metadata"
	"github.com/tealives/tealives-client/internal/common"
)

// TokenStore persists the single access token. Token returns "" when the
// client is unauthenticated.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MetadataTokenStore keeps the token under common.AccessTokenKey.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	return string(v), nil
}

// SetToken overwrites the stored token. An empty token clears it.
func (s *MetadataTokenStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	if err := s.repo.Set(ctx, common.AccessTokenKey, []byte(token)); err != nil {
		return fmt.Errorf("write access token: %w", err)
	}
	return nil
}

func (s *MetadataTokenStore) ClearToken(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.AccessTokenKey); err != nil {
		return fmt.Errorf("clear access token: %w", err)
	}
	return nil
}
