package reconcile

import (
	"context"
	"errors"
	"testing"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/pkg/logger"
	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type fakeRepo struct {
	children map[string]*children.Child
	chores   []chores.Chore
	entries  []ledger.Entry
	listErr  error
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) ListChildren(ctx context.Context) ([]children.Child, error) {
	result := make([]children.Child, 0, len(r.children))
	for _, child := range r.children {
		result = append(result, *child)
	}
	return result, nil
}

func (r *fakeRepo) ListCreditedChores(ctx context.Context) ([]chores.Chore, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	result := make([]chores.Chore, 0)
	for _, chore := range r.chores {
		if chore.Status.Credited() {
			result = append(result, chore)
		}
	}
	return result, nil
}

func (r *fakeRepo) LockChild(ctx context.Context, childID string) (*children.Child, error) {
	child, ok := r.children[childID]
	if !ok {
		return nil, children.ErrChildNotFound
	}
	copied := *child
	return &copied, nil
}

func (r *fakeRepo) SumCreditedRewards(ctx context.Context, childID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, chore := range r.chores {
		if chore.ChildID == childID && chore.Status.Credited() {
			total = total.Add(chore.Reward)
		}
	}
	return total, nil
}

func (r *fakeRepo) UpdateChildEarnings(ctx context.Context, childID string, totalEarnings decimal.Decimal) error {
	r.children[childID].TotalEarnings = totalEarnings
	return nil
}

func (r *fakeRepo) AppendEntries(ctx context.Context, entries []ledger.Entry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeRepo) ListEntriesByChild(ctx context.Context, childID string) ([]ledger.Entry, error) {
	result := make([]ledger.Entry, 0)
	for _, entry := range r.entries {
		if entry.ChildID == childID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeRepo) ListEntries(ctx context.Context) ([]ledger.Entry, error) {
	return r.entries, nil
}

func newFixture() *fakeRepo {
	return &fakeRepo{
		children: map[string]*children.Child{
			"c1": {ID: "c1", FirstName: "Ava", ParentID: "mom", TotalEarnings: d("12"), SavingsBucket: d("2")},
			"c2": {ID: "c2", FirstName: "Ben", ParentID: "mom", TotalEarnings: d("3"), SavingsBucket: d("3")},
		},
		chores: []chores.Chore{
			{ID: "k1", ChildID: "c1", Reward: d("5"), Status: chores.StatusApproved},
			{ID: "k2", ChildID: "c1", Reward: d("2"), Status: chores.StatusAwaitingGoalSelection},
			{ID: "k3", ChildID: "c1", Reward: d("9"), Status: chores.StatusPendingApproval},
			{ID: "k4", ChildID: "c2", Reward: d("3"), Status: chores.StatusApproved},
		},
		entries: []ledger.Entry{
			ledger.NewEntry("c2", ledger.KindEarned, ledger.AccountEarnings, d("3"), "mom"),
			ledger.NewEntry("c2", ledger.KindAllocatedSavings, ledger.AccountSavings, d("3"), "mom"),
		},
	}
}

func TestReportFlagsDrift(t *testing.T) {
	repo := newFixture()
	svc := NewService(repo, repo, logger.Nop())

	report, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(report.Children) != 2 || report.Drifted != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	ava := report.Children[0]
	if ava.ChildID != "c1" || !ava.Drift {
		t.Fatalf("expected drifted child first, got %+v", ava)
	}
	if !ava.ActualEarnings.Equal(d("7")) || !ava.Difference.Equal(d("-5")) || ava.CreditedChores != 2 {
		t.Fatalf("unexpected drift numbers %+v", ava)
	}
	if !ava.LedgerDrift {
		t.Fatalf("expected ledger drift for child without entries")
	}

	ben := report.Children[1]
	if ben.Drift || ben.LedgerDrift {
		t.Fatalf("expected consistent child, got %+v", ben)
	}
}

func TestReportPropagatesLoadErrors(t *testing.T) {
	repo := newFixture()
	repo.listErr = errors.New("boom")
	svc := NewService(repo, repo, logger.Nop())

	if _, err := svc.Report(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestApplyOverwritesEarnings(t *testing.T) {
	repo := newFixture()
	svc := NewService(repo, repo, logger.Nop())

	result, err := svc.Apply(context.Background(), "admin", "c1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.ActualEarnings.Equal(d("7")) || !repo.children["c1"].TotalEarnings.Equal(d("7")) {
		t.Fatalf("expected earnings 7, got %+v", repo.children["c1"])
	}
	if !repo.children["c1"].SavingsBucket.Equal(d("2")) {
		t.Fatalf("expected savings untouched")
	}
	last := repo.entries[len(repo.entries)-1]
	if last.Kind != ledger.KindReconciled || !last.Amount.Equal(d("-5")) {
		t.Fatalf("unexpected entry %+v", last)
	}

	if _, err := svc.Apply(context.Background(), "admin", "c1"); !errors.Is(err, ErrNoDrift) {
		t.Fatalf("expected ErrNoDrift, got %v", err)
	}
	if _, err := svc.Apply(context.Background(), "admin", "missing"); !errors.Is(err, children.ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}
