package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"abiscope/internal/interop"
)

// Result is the outcome of projecting one manifest. Per-manifest failures
// land in Err rather than aborting the batch.
type Result struct {
	Path     string
	Snapshot *interop.Snapshot
	Err      error
}

// Status of one manifest within a batch projection.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event reports a status change of one manifest during batch projection.
type Event struct {
	Path   string
	Status Status
}

// ProjectManifests loads and projects several unit manifests in parallel.
// Each unit is confined to its own goroutine; result slots are indexed per
// goroutine, so no mutex is needed.
func ProjectManifests(ctx context.Context, paths []string, jobs int) ([]Result, error) {
	return ProjectManifestsObserved(ctx, paths, jobs, nil)
}

// ProjectManifestsObserved is ProjectManifests with per-manifest status
// events. The events channel, when non-nil, is closed before returning.
func ProjectManifestsObserved(ctx context.Context, paths []string, jobs int, events chan<- Event) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			emit(events, Event{Path: path, Status: StatusWorking})
			results[i] = projectOne(path)
			status := StatusDone
			if results[i].Err != nil {
				status = StatusError
			}
			emit(events, Event{Path: path, Status: status})
			return nil
		})
	}

	err := g.Wait()
	if events != nil {
		close(events)
	}
	return results, err
}

func emit(events chan<- Event, ev Event) {
	if events != nil {
		events <- ev
	}
}

func projectOne(path string) Result {
	snap, err := ProjectManifestFile(path)
	return Result{Path: path, Snapshot: snap, Err: err}
}
