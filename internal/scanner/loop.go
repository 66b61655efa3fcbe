package scanner

import (
	"context"
	"log"
	"time"

	"github.com/vaultindex/vaultindex/internal/models"
)

// RunLoop is the top-level scheduling loop (spec.md §4.4 and grounded
// directly on the teacher's crash-recovery-first scan cycle): every cycle,
// first re-run any index stuck in "scanning" (crash recovery), otherwise
// scan the oldest queued index. It sleeps pollInterval between empty
// cycles and starts the next cycle immediately after a successful one.
func (s *Scanner) RunLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		didWork, err := s.RunCycle(ctx)
		if err != nil {
			log.Printf("scanner: cycle error: %v", err)
		}
		if !didWork {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.pollInterval):
			}
		}
	}
}

// RunCycle runs one scheduling cycle and reports whether any index was
// scanned (crash-recovered or freshly picked), which governs whether the
// caller sleeps before the next cycle.
func (s *Scanner) RunCycle(ctx context.Context) (bool, error) {
	recovering, err := s.indexes.ListByScanStatus(models.ScanStatusScanning)
	if err != nil {
		return false, err
	}
	if len(recovering) > 0 {
		for _, idx := range recovering {
			if err := s.scanIndex(ctx, idx); err != nil {
				log.Printf("scanner: crash-recovery scan of index %s failed: %v", idx.ID, err)
				s.markFailed(idx.ID)
			}
		}
		return true, nil
	}

	next, err := s.indexes.ListOldestQueued()
	if err != nil {
		return false, err
	}
	if next == nil {
		return false, nil
	}

	if err := s.indexes.UpdateScanStatus(next.ID, models.ScanStatusScanning); err != nil {
		return false, err
	}
	s.notify(next.ID, models.ScanStatusScanning)
	if err := s.scanIndex(ctx, next); err != nil {
		log.Printf("scanner: scan of index %s failed: %v", next.ID, err)
		s.markFailed(next.ID)
		return false, nil
	}
	return true, nil
}
