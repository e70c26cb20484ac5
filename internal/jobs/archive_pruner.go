package jobs

import (
	"context"
	"log"
	"time"
)

// Archive is the store whose old generations are pruned.
type Archive interface {
	DeleteGenerationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ArchivePruner periodically deletes archived generations older than maxAge.
// Downloads of pruned generations fall back to the copy kept in the session.
type ArchivePruner struct {
	archive  Archive
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

// NewArchivePruner creates a new archive pruner.
func NewArchivePruner(archive Archive, interval, maxAge time.Duration) *ArchivePruner {
	return &ArchivePruner{
		archive:  archive,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Start begins the background prune loop. It returns when ctx is done.
func (p *ArchivePruner) Start(ctx context.Context) {
	log.Printf("Archive pruner started (interval: %v, maxAge: %v)", p.interval, p.maxAge)

	// Run immediately on start
	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Archive pruner stopped")
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *ArchivePruner) prune(ctx context.Context) {
	n, err := p.archive.DeleteGenerationsBefore(ctx, p.now().Add(-p.maxAge))
	if err != nil {
		log.Printf("Archive pruner: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Archive pruner: removed %d generations", n)
	}
}
