package ports

import (
	"context"

	"github.com/plataforma/accounts-api/internal/core/domain"
)

// ProfileCache is a short-lived cache of public user views (Redis). A miss
// is (nil, nil); cache failures must never fail the read path.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.PublicUser, error)
	Set(ctx context.Context, view domain.PublicUser) error
	Invalidate(ctx context.Context, id string) error
}
