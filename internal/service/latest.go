package service

import (
	"context"
	"sync"

	"balance-dashboard/internal/core/domain"
	"balance-dashboard/internal/core/ports"
	"balance-dashboard/pkg/apperror"
)

// Latest runs loads keyed by view. Starting a load for a key cancels the
// one still in flight for that key, and a load that has been superseded
// returns apperror.ErrSuperseded instead of its result. The zero value is
// ready to use.
type Latest[T any] struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflightLoad
}

type inflightLoad struct {
	id     uint64
	cancel context.CancelFunc
}

// Do runs load under a context that is cancelled when a newer load for key
// starts.
func (l *Latest[T]) Do(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	ctx, id := l.begin(ctx, key)
	defer l.end(key, id)

	v, err := load(ctx)
	if !l.current(key, id) {
		var zero T
		return zero, apperror.ErrSuperseded()
	}
	return v, err
}

func (l *Latest[T]) begin(ctx context.Context, key string) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight == nil {
		l.inflight = make(map[string]inflightLoad)
	}
	if prev, ok := l.inflight[key]; ok {
		prev.cancel()
	}
	l.seq++
	l.inflight[key] = inflightLoad{id: l.seq, cancel: cancel}
	return ctx, l.seq
}

func (l *Latest[T]) current(key string, id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.inflight[key]
	return ok && cur.id == id
}

func (l *Latest[T]) end(key string, id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.inflight[key]; ok && cur.id == id {
		cur.cancel()
		delete(l.inflight, key)
	}
}

// LatestDashboard decorates a DashboardService so that a new overview
// supersedes the previous overview and a new detail load supersedes the
// previous detail load.
type LatestDashboard struct {
	next     ports.DashboardService
	overview Latest[*ports.Overview]
	detail   Latest[*ports.AccountDetail]
}

var _ ports.DashboardService = (*LatestDashboard)(nil)

// NewLatestDashboard wraps next.
func NewLatestDashboard(next ports.DashboardService) *LatestDashboard {
	return &LatestDashboard{next: next}
}

func (d *LatestDashboard) Overview(ctx context.Context, search string) (*ports.Overview, error) {
	return d.overview.Do(ctx, "overview", func(ctx context.Context) (*ports.Overview, error) {
		return d.next.Overview(ctx, search)
	})
}

func (d *LatestDashboard) AccountDetail(ctx context.Context, accountID string, r domain.DateRange) (*ports.AccountDetail, error) {
	return d.detail.Do(ctx, "detail", func(ctx context.Context) (*ports.AccountDetail, error) {
		return d.next.AccountDetail(ctx, accountID, r)
	})
}
