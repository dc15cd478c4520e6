package storage

import (
	"context"

	"swapDesk/internal/model"
)

// Storage defines a sink for pool snapshots.
type Storage interface {
	PutPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error
}
