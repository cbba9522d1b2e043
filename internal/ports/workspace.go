package ports

import "github.com/srinivasaraghavankm/beer/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
