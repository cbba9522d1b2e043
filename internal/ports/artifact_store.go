package ports

import "github.com/srinivasaraghavankm/beer/internal/domain"

// ArtifactStore persists staging run manifests for reproducibility.
type ArtifactStore interface {
	SavePrep(run domain.PrepArtifact) (id string, err error)
}
