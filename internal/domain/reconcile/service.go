package reconcile

import (
	"context"
	"sort"
	"time"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	repo    Repository
	entries ledger.Repository
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, entries ledger.Repository, log logger.Logger) *Service {
	return &Service{
		repo:    repo,
		entries: entries,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Report lists every child with its stored and recomputed earnings. Drift is
// reported, never corrected.
func (s *Service) Report(ctx context.Context) (*Report, error) {
	var (
		kids     []children.Child
		credited []chores.Chore
		entries  []ledger.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kids, err = s.repo.ListChildren(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		credited, err = s.repo.ListCreditedChores(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entries.ListEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	actual := make(map[string]decimal.Decimal, len(kids))
	counts := make(map[string]int, len(kids))
	for _, chore := range credited {
		actual[chore.ChildID] = actual[chore.ChildID].Add(chore.Reward)
		counts[chore.ChildID]++
	}
	entriesByChild := make(map[string][]ledger.Entry, len(kids))
	for _, entry := range entries {
		entriesByChild[entry.ChildID] = append(entriesByChild[entry.ChildID], entry)
	}

	report := &Report{GeneratedAt: s.now(), Children: make([]ChildReport, 0, len(kids))}
	for _, child := range kids {
		row := buildChildReport(child, ledger.Round(actual[child.ID]), counts[child.ID], entriesByChild[child.ID])
		if row.Drift {
			report.Drifted++
		}
		report.Children = append(report.Children, row)
	}
	sort.SliceStable(report.Children, func(i, j int) bool {
		a, b := report.Children[i], report.Children[j]
		if a.Drift != b.Drift {
			return a.Drift
		}
		return a.FirstName < b.FirstName
	})

	s.log.Info("reconcile.report: report built", "children", len(report.Children), "drifted", report.Drifted)
	return report, nil
}

// Apply overwrites a child's earnings total with the sum of its credited
// chore rewards. Goal and savings balances are left alone.
func (s *Service) Apply(ctx context.Context, actorID, childID string) (*ChildReport, error) {
	var result ChildReport
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		child, err := tx.LockChild(ctx, childID)
		if err != nil {
			return err
		}
		actual, err := tx.SumCreditedRewards(ctx, child.ID)
		if err != nil {
			return err
		}
		actual = ledger.Round(actual)

		delta := actual.Sub(child.TotalEarnings)
		if delta.IsZero() {
			return ErrNoDrift
		}
		if err := tx.UpdateChildEarnings(ctx, child.ID, actual); err != nil {
			return err
		}
		entry := ledger.NewEntry(child.ID, ledger.KindReconciled, ledger.AccountEarnings, delta, actorID)
		if err := tx.AppendEntries(ctx, []ledger.Entry{entry}); err != nil {
			return err
		}

		result = ChildReport{
			ChildID:        child.ID,
			FirstName:      child.FirstName,
			ParentID:       child.ParentID,
			StoredEarnings: child.TotalEarnings,
			ActualEarnings: actual,
			Difference:     delta,
			Savings:        child.SavingsBucket,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Warn("reconcile.apply: earnings overwritten", "child_id", childID, "actor_id", actorID, "difference", result.Difference.StringFixed(2))
	return &result, nil
}

func buildChildReport(child children.Child, actual decimal.Decimal, credited int, entries []ledger.Entry) ChildReport {
	balances := ledger.SumBalances(entries)
	return ChildReport{
		ChildID:        child.ID,
		FirstName:      child.FirstName,
		ParentID:       child.ParentID,
		StoredEarnings: child.TotalEarnings,
		ActualEarnings: actual,
		Difference:     actual.Sub(child.TotalEarnings),
		CreditedChores: credited,
		Savings:        child.SavingsBucket,
		Ledger:         balances,
		Drift:          !actual.Equal(child.TotalEarnings),
		LedgerDrift:    !balances.Earnings.Equal(child.TotalEarnings) || !balances.Savings.Equal(child.SavingsBucket),
	}
}
