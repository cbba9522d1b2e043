package tui

import (
	"log/slog"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	Listings ports.ListingStore
	Fetcher  ports.CorpusFetcher
	Store    ports.ArtifactStore // nil disables manifests

	ModelLoader   ports.ModelLoader
	ModelRenderer ports.ModelRenderer
	ModelPath     string

	Config  domain.Config
	DataDir string

	Logger *slog.Logger
	Debug  bool
}
