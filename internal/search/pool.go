package search

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/spotify2tidal/spotify-to-tidal/internal/models"
)

const (
	defaultWorkers   = 16
	defaultRateLimit = 10.0
)

// Result is the outcome of one lookup in a batch, at the same index as
// its input item. A nil Err with Found false means the ladder genuinely
// came up empty; Err is only set for failures that ended the lookup early.
type Result struct {
	TargetID string
	Found    bool
	Err      error
}

// Pool runs lookups concurrently behind a shared rate limiter so batches
// of hundreds of tracks stay inside the target API's request budget. Zero
// values fall back to the defaults.
type Pool struct {
	Workers   int
	RateLimit float64
}

// FindTracks resolves tracks concurrently, returning results aligned with
// the input order. The first fatal lookup error cancels the remaining
// work and is returned.
func (p *Pool) FindTracks(ctx context.Context, o *Orchestrator, tracks []models.Track) ([]Result, error) {
	results := make([]Result, len(tracks))
	err := p.run(ctx, len(tracks), func(ctx context.Context, i int) error {
		id, found, err := o.FindTrack(ctx, tracks[i])
		results[i] = Result{TargetID: id, Found: found, Err: err}
		return err
	})
	return results, err
}

// FindAlbums resolves albums concurrently, aligned with the input order.
func (p *Pool) FindAlbums(ctx context.Context, o *Orchestrator, albums []models.Album) ([]Result, error) {
	results := make([]Result, len(albums))
	err := p.run(ctx, len(albums), func(ctx context.Context, i int) error {
		id, found, err := o.FindAlbum(ctx, albums[i])
		results[i] = Result{TargetID: id, Found: found, Err: err}
		return err
	})
	return results, err
}

// FindArtists resolves artists concurrently, aligned with the input order.
func (p *Pool) FindArtists(ctx context.Context, o *Orchestrator, artists []models.Artist) ([]Result, error) {
	results := make([]Result, len(artists))
	err := p.run(ctx, len(artists), func(ctx context.Context, i int) error {
		id, found, err := o.FindArtist(ctx, artists[i])
		results[i] = Result{TargetID: id, Found: found, Err: err}
		return err
	})
	return results, err
}

// run dispatches indices 0..n-1 to a bounded set of workers, pacing
// dispatch through the rate limiter. Each index is written by exactly one
// worker, so callers can collect into index-aligned slices without locks.
// The first job error cancels dispatch and is returned once all started
// workers have drained.
func (p *Pool) run(ctx context.Context, n int, job func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(p.rateLimit()), 1)
	jobs := make(chan int, n)

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	var wg sync.WaitGroup
	for w := 0; w < p.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := job(ctx, i); err != nil {
					fail(err)
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		if err := limiter.Wait(ctx); err != nil {
			fail(err)
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return firstErr
}

func (p *Pool) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return defaultWorkers
}

func (p *Pool) rateLimit() float64 {
	if p.RateLimit > 0 {
		return p.RateLimit
	}
	return defaultRateLimit
}
