package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"swapDesk/internal/model"
)

// JsonlStorage appends pool snapshots to a JSONL file, one line per
// observation: the chain, block and time it was taken at, then the pools.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

var _ Storage = (*JsonlStorage)(nil)

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

type snapshotLine struct {
	ChainID    uint64           `json:"chain_id"`
	Block      uint64           `json:"block"`
	ObservedAt time.Time        `json:"observed_at"`
	Pools      []model.PoolInfo `json:"pools"`
}

func (l snapshotLine) sameObservation(s model.PoolSnapshot) bool {
	return l.ChainID == s.ChainID && l.Block == s.Block && l.ObservedAt.Equal(s.ObservedAt)
}

// groupObservations folds consecutive snapshots taken together into one line.
func groupObservations(snapshots []model.PoolSnapshot) []snapshotLine {
	var lines []snapshotLine
	for _, snap := range snapshots {
		if n := len(lines); n > 0 && lines[n-1].sameObservation(snap) {
			lines[n-1].Pools = append(lines[n-1].Pools, snap.PoolInfo)
			continue
		}
		lines = append(lines, snapshotLine{
			ChainID:    snap.ChainID,
			Block:      snap.Block,
			ObservedAt: snap.ObservedAt,
			Pools:      []model.PoolInfo{snap.PoolInfo},
		})
	}
	return lines
}

// PutPoolSnapshots appends the snapshots grouped by observation.
func (s *JsonlStorage) PutPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, line := range groupObservations(snapshots) {
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write snapshot block %d: %w", line.Block, err)
		}
	}
	return w.Flush()
}
