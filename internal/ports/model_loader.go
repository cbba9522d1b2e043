package ports

import "github.com/srinivasaraghavankm/beer/internal/domain"

// ModelLoader loads a model configuration from a source (e.g., filesystem).
type ModelLoader interface {
	LoadModel(path string) (domain.ModelConfig, error)
}
