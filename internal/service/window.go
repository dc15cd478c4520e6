package service

import "fmt"

// DefaultScanSize is how many of the most recently registered pairs are scanned.
// Older pairs are not visible to pool and position listings.
const DefaultScanSize = 20

// IndexRange is a half-open range [From, To) of factory pair indexes.
type IndexRange struct {
	From uint64
	To   uint64
}

// Len returns the number of indexes in the range.
func (r IndexRange) Len() uint64 {
	return r.To - r.From
}

// ScanWindow selects a tail window of the factory's pair list. Offset skips
// the newest pairs, so successive pages walk backwards.
type ScanWindow struct {
	Size   uint64
	Offset uint64
}

// Range returns [max(0, total-Offset-Size), total-Offset).
func (w ScanWindow) Range(total uint64) (IndexRange, error) {
	if w.Size == 0 {
		return IndexRange{}, fmt.Errorf("scan window size must be greater than zero")
	}
	if w.Offset >= total {
		return IndexRange{From: total, To: total}, nil
	}
	end := total - w.Offset
	start := uint64(0)
	if end > w.Size {
		start = end - w.Size
	}
	return IndexRange{From: start, To: end}, nil
}
