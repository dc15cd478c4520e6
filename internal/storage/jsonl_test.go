package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/model"
)

func readLines(t *testing.T, path string) []snapshotLine {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var lines []snapshotLine
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line snapshotLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("unmarshal line %d: %v", len(lines), err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestJsonlStorageGroupsObservations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pools.jsonl")
	s := NewJsonlStorage(path)
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)
	pool := func(addr string, tvl string) model.PoolInfo {
		return model.PoolInfo{
			Pair:     common.HexToAddress(addr),
			Token0:   model.Token{Symbol: "AAA", Decimals: 18},
			Reserve0: "1000",
			TVL:      tvl,
		}
	}

	batch := []model.PoolSnapshot{
		{PoolInfo: pool("0xab0", "3000"), ChainID: 56, Block: 100, ObservedAt: first},
		{PoolInfo: pool("0xae0", "1010"), ChainID: 56, Block: 100, ObservedAt: first},
		{PoolInfo: pool("0xab0", "3100"), ChainID: 56, Block: 120, ObservedAt: second},
	}
	if err := s.PutPoolSnapshots(context.Background(), batch); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.PutPoolSnapshots(context.Background(), nil); err != nil {
		t.Fatalf("empty put: %v", err)
	}
	if err := s.PutPoolSnapshots(context.Background(), batch[2:]); err != nil {
		t.Fatalf("append: %v", err)
	}

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].Block != 100 || lines[0].ChainID != 56 || !lines[0].ObservedAt.Equal(first) || len(lines[0].Pools) != 2 {
		t.Fatalf("unexpected first observation: %+v", lines[0])
	}
	if lines[0].Pools[1].Pair != common.HexToAddress("0xae0") || lines[0].Pools[1].TVL != "1010" {
		t.Fatalf("unexpected pool order: %+v", lines[0].Pools)
	}
	for _, line := range lines[1:] {
		if line.Block != 120 || len(line.Pools) != 1 || line.Pools[0].TVL != "3100" {
			t.Fatalf("unexpected observation: %+v", line)
		}
	}
}

func TestJsonlStorageCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewJsonlStorage(filepath.Join(t.TempDir(), "pools.jsonl"))
	if err := s.PutPoolSnapshots(ctx, []model.PoolSnapshot{{}}); err == nil {
		t.Fatalf("expected context error")
	}
}
