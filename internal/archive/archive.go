// Package archive persists upload records outside the local store, so a
// history of what was published survives database resets.
package archive

import (
	"context"

	"driveflow/internal/store"
)

type Archiver interface {
	StoreRecord(ctx context.Context, video *store.Video) error
}
