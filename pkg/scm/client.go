package scm

import (
	"context"

	"github.com/google/uuid"

	"github.com/cdot65/scmsync/pkg/types"
)

// Client is the collaborator contract the reconciliation engine consumes.
// Implementations own transport, authentication and the wire shape of the
// backend; the engine only sees identities, attribute maps and the error
// taxonomy in this package.
//
// Fetch reports a missing object with *NotFoundError. Every method may also
// fail with *APIError (or a transport error), which callers must propagate
// without interpretation. All calls are single-attempt.
type Client interface {
	Fetch(ctx context.Context, id types.Identity) (*types.RemoteObject, error)
	Create(ctx context.Context, kind types.ResourceKind, attrs map[string]any) (*types.RemoteObject, error)
	Update(ctx context.Context, kind types.ResourceKind, obj *types.RemoteObject) (*types.RemoteObject, error)
	Delete(ctx context.Context, kind types.ResourceKind, id uuid.UUID) error
}
