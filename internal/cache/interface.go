package cache

import "context"

// ListingCache holds the serialized live-report listing for a short TTL so
// burst reads don't hit the database. Every write path (submit, delete, vote)
// invalidates it; readers fall through to the database on any cache error.
type ListingCache interface {
	// Get unmarshals the cached listing into dest. The bool reports a hit.
	Get(ctx context.Context, dest any) (bool, error)
	Set(ctx context.Context, value any) error
	Invalidate(ctx context.Context) error

	Close() error
}
