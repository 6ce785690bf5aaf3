package ports

import "depsync/internal/types"

type ManifestPort interface {
	Load(path string) (types.Manifest, error)
}
