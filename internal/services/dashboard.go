package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

const recentExpenseCount = 3

// DashboardService derives the monthly summary for a user. Summaries are
// cached per user and concurrent requests for the same user collapse into
// a single computation.
type DashboardService struct {
	store  ledger.RecordStore
	cache  cache.Cache[*SummaryView]
	group  singleflight.Group
	logger *log.Logger
	now    func() time.Time
}

func NewDashboardService(store ledger.RecordStore, c cache.Cache[*SummaryView], logger *log.Logger, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		store:  store,
		cache:  c,
		logger: logger.WithComponent(log.ComponentDashboard),
		now:    now,
	}
}

// Summary returns the current-month summary for the user.
func (s *DashboardService) Summary(ctx context.Context, userID string) (*SummaryView, error) {
	if s.cache != nil {
		if view, ok := s.cache.Get(userID); ok {
			return view, nil
		}
	}

	v, err, _ := s.group.Do(userID, func() (any, error) {
		return s.compute(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	view := v.(*SummaryView)
	if s.cache != nil {
		s.cache.Set(userID, view)
	}
	return view, nil
}

// Invalidate drops the cached summary for the user. Called after every
// record append so the next dashboard read reflects the new record.
func (s *DashboardService) Invalidate(userID string) {
	if s.cache != nil {
		s.cache.Delete(userID)
	}
}

func (s *DashboardService) compute(ctx context.Context, userID string) (*SummaryView, error) {
	var (
		income   []core.IncomeRecord
		expenses []core.ExpenseRecord
	)

	// Both record sets load concurrently; derivation waits for both.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.store.ListIncome(gctx, userID)
		if err != nil {
			return fmt.Errorf("list income: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, userID)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	stats := core.ComputePeriodStats(income, expenses, now.Year(), now.Month())

	s.logger.DebugContext(ctx, "Computed monthly summary",
		log.FieldUserID, userID,
		log.FieldYear, stats.Year,
		log.FieldMonth, int(stats.Month))

	return &SummaryView{
		Stats:          statsView(stats),
		Suggestions:    core.DeriveSuggestions(stats),
		RecentExpenses: recentExpenses(expenses, recentExpenseCount),
	}, nil
}
