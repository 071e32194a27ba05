package shortener

import (
	"context"

	"github.com/google/uuid"
)

// StorageKey is the buntdb key holding the serialized link list.
const StorageKey = "url-analytics-links"

// Repository defines the persistence operations for Link entities.
// Lists are ordered newest first. Implementations enforce short code
// uniqueness and keep Clicks equal to the length of the click history.
type Repository interface {
	Insert(ctx context.Context, link Link) (Link, error)
	List(ctx context.Context) ([]Link, error)
	Get(ctx context.Context, id uuid.UUID) (Link, error)
	GetByCode(ctx context.Context, code string) (Link, error)
	RecordClick(ctx context.Context, id uuid.UUID, click Click) (Link, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
