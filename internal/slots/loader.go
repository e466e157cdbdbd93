package slots

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

type slotSource interface {
	Fetch(ctx context.Context, opts FetchOptions) ([]RawSlot, error)
	Invalidate()
}

type flight struct {
	id     uint64
	cancel context.CancelFunc
}

// Loader serves normalized slots to consumers. Each consumer has at most one
// fetch in flight: starting a new load cancels the previous one, whose caller
// then receives ok=false instead of an error.
type Loader struct {
	source     slotSource
	normalizer *Normalizer

	mu       sync.Mutex
	nextID   uint64
	inflight map[string]flight
}

func NewLoader(source slotSource, normalizer *Normalizer) (*Loader, error) {
	if source == nil {
		return nil, fmt.Errorf("slot source required")
	}
	if normalizer == nil {
		return nil, fmt.Errorf("slot normalizer required")
	}
	return &Loader{
		source:     source,
		normalizer: normalizer,
		inflight:   make(map[string]flight),
	}, nil
}

// Load fetches and normalizes slots for consumer. ok is false when the load
// was cancelled, either by ctx or by a newer load for the same consumer.
func (l *Loader) Load(ctx context.Context, consumer string, opts FetchOptions) ([]TimeSlot, bool, error) {
	fetchCtx, id := l.begin(ctx, consumer)
	defer l.finish(consumer, id)

	raws, err := l.source.Fetch(fetchCtx, opts)
	if err != nil {
		if fetchCtx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if fetchCtx.Err() != nil {
		return nil, false, nil
	}
	return slices.Collect(l.normalizer.NormalizeAll(raws)), true, nil
}

// Refresh invalidates the cache and forces a network fetch.
func (l *Loader) Refresh(ctx context.Context, consumer string, date string) ([]TimeSlot, bool, error) {
	l.source.Invalidate()
	return l.Load(ctx, consumer, FetchOptions{Date: date, Force: true})
}

// Abort cancels the consumer's in-flight load, if any.
func (l *Loader) Abort(consumer string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if current, ok := l.inflight[consumer]; ok {
		current.cancel()
		delete(l.inflight, consumer)
	}
}

func (l *Loader) begin(ctx context.Context, consumer string) (context.Context, uint64) {
	fetchCtx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if previous, ok := l.inflight[consumer]; ok {
		previous.cancel()
	}
	l.nextID++
	l.inflight[consumer] = flight{id: l.nextID, cancel: cancel}
	return fetchCtx, l.nextID
}

func (l *Loader) finish(consumer string, id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.inflight[consumer]
	if !ok || current.id != id {
		return
	}
	current.cancel()
	delete(l.inflight, consumer)
}
