package ports

import "context"

// CorpusFetcher materializes a remote corpus repository at dest.
type CorpusFetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}
