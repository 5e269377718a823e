package scan

import (
	"context"
	"log"
	"time"

	"modmaster-backend/entities"
	"modmaster-backend/pkg/inference"
)

// Sweeper is the safety net for scans whose worker callback never arrives:
// scans stuck in processing past the deadline are failed, and pending scans
// whose dispatch was lost are redispatched.
type Sweeper struct {
	scanRepository ScanRepository
	inference      inference.Client
	interval       time.Duration
	stop           chan struct{}
}

func NewSweeper(scanRepository ScanRepository, inferenceClient inference.Client) *Sweeper {
	return &Sweeper{
		scanRepository: scanRepository,
		inference:      inferenceClient,
		interval:       time.Minute,
		stop:           make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Sweeper) Stop() {
	close(s.stop)
}

func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now()

	stuck, err := s.scanRepository.GetStuckProcessing(ctx, now.Add(-ProcessingDeadline))
	if err != nil {
		log.Printf("sweep: listing stuck scans failed: %v", err)
	}
	for _, scan := range stuck {
		rows, err := s.scanRepository.TransitionStatus(ctx, scan.ID.String(),
			[]string{entities.ScanStatusProcessing},
			map[string]interface{}{
				"status":        entities.ScanStatusFailed,
				"error_message": "processing timed out",
			})
		if err != nil {
			log.Printf("sweep: failing scan %s failed: %v", scan.ID, err)
			continue
		}
		if rows > 0 {
			log.Printf("sweep: scan %s failed after exceeding processing deadline", scan.ID)
		}
	}

	stale, err := s.scanRepository.GetStalePending(ctx, now.Add(-RedispatchAfter))
	if err != nil {
		log.Printf("sweep: listing stale pending scans failed: %v", err)
		return
	}
	for _, scan := range stale {
		if err := s.inference.Dispatch(ctx, scan); err != nil {
			log.Printf("sweep: redispatch of scan %s failed: %v", scan.ID, err)
			continue
		}
		if _, err := s.scanRepository.TransitionStatus(ctx, scan.ID.String(),
			[]string{entities.ScanStatusPending},
			map[string]interface{}{"status": entities.ScanStatusProcessing},
		); err != nil {
			log.Printf("sweep: marking scan %s processing failed: %v", scan.ID, err)
		}
	}
}
