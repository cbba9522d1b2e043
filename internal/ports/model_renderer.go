package ports

import "github.com/srinivasaraghavankm/beer/internal/domain"

// ModelRenderer encodes a model configuration for the external trainer.
type ModelRenderer interface {
	RenderModel(m domain.ModelConfig) ([]byte, error)
}
