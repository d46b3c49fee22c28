package interfaces

import (
	"context"

	"github.com/ternarybob/censeo/internal/models"
)

// MetadataService resolves external token metadata (description, links, logo,
// market facts) for the fact sheet. Lookups are best-effort: a failed or
// disabled lookup returns a record with Enabled/Error set rather than nil,
// so the report can show provenance either way.
type MetadataService interface {
	// Fetch enriches the given token identity. Implementations should cache
	// aggressively; the same asset is commonly assessed repeatedly.
	Fetch(ctx context.Context, meta models.TokenMeta) (*models.ExternalTokenMetadata, error)
}
