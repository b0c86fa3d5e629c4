package configports

import (
	"context"

	configdomain "mojoscan.dev/cli/internal/core/domain/config"
)

// Loader reads configuration entries from one source.
type Loader interface {
	Load(ctx context.Context) (configdomain.Snapshot, error)
	Name() string
}

// Validator checks a merged snapshot before it is applied.
type Validator interface {
	Validate(snap configdomain.Snapshot) error
}
