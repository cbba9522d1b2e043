package ports

import (
	"context"

	"github.com/srinivasaraghavankm/beer/internal/domain"
)

// ListingStore scans audio directories and persists split listings
// (wavs.scp + uttids).
type ListingStore interface {
	// Scan lists every .wav under srcDir, recursively.
	Scan(ctx context.Context, split, srcDir string) (domain.SplitListing, error)
	Write(outDir string, l domain.SplitListing) error
	Read(outDir, split string) (domain.SplitListing, error)
}
