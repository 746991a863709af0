package service

import (
	"context"
	"time"

	"balance-dashboard/internal/core/domain"
	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/core/view"
	"balance-dashboard/pkg/apperror"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DashboardServiceImpl implements ports.DashboardService.
type DashboardServiceImpl struct {
	client      ports.BackendClient
	maxParallel int
	now         func() time.Time
	log         zerolog.Logger
}

// NewDashboardService creates a new DashboardServiceImpl. maxParallel bounds
// the concurrent 24h-indicator fetches of the overview.
func NewDashboardService(client ports.BackendClient, maxParallel int, log zerolog.Logger) *DashboardServiceImpl {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &DashboardServiceImpl{
		client:      client,
		maxParallel: maxParallel,
		now:         time.Now,
		log:         log,
	}
}

// Overview lists the accounts matching search, each with the sum of its
// balance changes over the trailing 24 hours. A failed indicator is
// reported on its card; a 401 fails the whole overview.
func (s *DashboardServiceImpl) Overview(ctx context.Context, search string) (*ports.Overview, error) {
	accounts, err := s.client.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	filtered := view.FilterAccounts(accounts, search)
	cards := make([]ports.AccountCard, len(filtered))
	window := domain.Last24Hours(s.now())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, acc := range filtered {
		cards[i] = ports.AccountCard{Account: acc, Tone: view.ToneNeutral}
		g.Go(func() error {
			changes, err := s.client.GetBalanceChanges(gctx, acc.ID, window.From, window.To)
			if err != nil {
				if apperror.IsUnauthorized(err) {
					return err
				}
				s.log.Warn().Err(err).Str("account_id", acc.ID).Msg("failed to load 24h change")
				cards[i].Err = err.Error()
				return nil
			}

			sum := view.SumDiffs(changes)
			cards[i].Change24h = sum
			cards[i].Delta = view.FormatDelta(sum)
			cards[i].Tone = view.ToneOf(sum)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &ports.Overview{Search: search, Cards: cards}, nil
}

// AccountDetail loads one account and its changes within r and derives the
// table, footer total, both chart series and the reconciliation report.
func (s *DashboardServiceImpl) AccountDetail(ctx context.Context, accountID string, r domain.DateRange) (*ports.AccountDetail, error) {
	if accountID == "" {
		return nil, apperror.Validation("account id is required")
	}
	if err := r.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var (
		accounts []domain.Account
		changes  []domain.BalanceChange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.client.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		changes, err = s.client.GetBalanceChanges(gctx, accountID, r.From, r.To)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	account, ok := findAccount(accounts, accountID)
	if !ok {
		return nil, apperror.ErrAccountNotFound(accountID)
	}

	total := view.SumDiffs(changes)
	detail := &ports.AccountDetail{
		Account:       account,
		From:          r.From,
		To:            r.To,
		Changes:       view.SortNewestFirst(changes),
		Total:         total,
		TotalTone:     view.ToneOf(total),
		BalanceSeries: view.BalanceSeries(changes),
		DiffSeries:    view.DiffSeries(changes),
		Mismatches:    view.Reconcile(changes),
	}

	if len(detail.Mismatches) > 0 {
		s.log.Warn().
			Str("account_id", accountID).
			Int("mismatches", len(detail.Mismatches)).
			Msg("balance history does not replay cleanly")
	}
	return detail, nil
}

func findAccount(accounts []domain.Account, id string) (domain.Account, bool) {
	for _, acc := range accounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return domain.Account{}, false
}
