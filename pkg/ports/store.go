package ports

import (
	"context"

	"github.com/aretw0/scriptflow/pkg/domain"
)

// StateStore holds the latest snapshot of each live session so it can be
// resumed by id. It is not an archive: ending a session deletes it.
//
// Adapters must return detached copies from Load and report unknown ids
// with domain.ErrSessionNotFound. RunStateStoreContract checks both.
type StateStore interface {
	Save(ctx context.Context, sessionID string, state *domain.State) error
	Load(ctx context.Context, sessionID string) (*domain.State, error)
	// Delete succeeds for ids that were never saved.
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}
