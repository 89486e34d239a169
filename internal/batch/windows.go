// Package batch splits a document into page windows and drives the
// window-by-window extraction loop.
package batch

import (
	"fmt"

	"github.com/spherical/pdf-transcriber/internal/domain"
)

// Windows partitions pages 1..totalPages into ordered, contiguous,
// non-overlapping windows of at most size pages. The count is always
// ceil(totalPages/size) and the final window ends exactly at totalPages.
func Windows(totalPages, size int) ([]domain.Window, error) {
	if totalPages < 1 {
		return nil, domain.InvalidConfiguration(
			fmt.Sprintf("total page count must be at least 1, got %d", totalPages), nil)
	}
	if size < 1 {
		return nil, domain.InvalidConfiguration(
			fmt.Sprintf("window size must be at least 1, got %d", size), nil)
	}

	windows := make([]domain.Window, 0, (totalPages+size-1)/size)
	for start := 1; start <= totalPages; start += size {
		end := start + size - 1
		if end > totalPages {
			end = totalPages
		}
		windows = append(windows, domain.Window{Start: start, End: end})
	}
	return windows, nil
}
