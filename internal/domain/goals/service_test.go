package goals

import (
	"context"
	"errors"
	"testing"
	"time"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"family-chores-go/pkg/logger"
	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type fakeGoalsRepo struct {
	goals         map[string]*Goal
	children      map[string]*children.Child
	entries       []ledger.Entry
	notifications []notifications.Notification
	locks         []string
	beforeLock    func(goalID string)
}

func newFakeGoalsRepo() *fakeGoalsRepo {
	return &fakeGoalsRepo{
		goals:    make(map[string]*Goal),
		children: make(map[string]*children.Child),
	}
}

func (r *fakeGoalsRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeGoalsRepo) GetGoal(ctx context.Context, id string) (*Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	copied := *goal
	return &copied, nil
}

func (r *fakeGoalsRepo) LockGoal(ctx context.Context, id string) (*Goal, error) {
	if r.beforeLock != nil {
		r.beforeLock(id)
	}
	r.locks = append(r.locks, "goal")
	return r.GetGoal(ctx, id)
}

func (r *fakeGoalsRepo) LockChild(ctx context.Context, childID string) (*children.Child, error) {
	r.locks = append(r.locks, "child")
	return r.child(childID)
}

func (r *fakeGoalsRepo) child(childID string) (*children.Child, error) {
	child, ok := r.children[childID]
	if !ok {
		return nil, children.ErrChildNotFound
	}
	copied := *child
	return &copied, nil
}

func (r *fakeGoalsRepo) ListGoalsByChildren(ctx context.Context, childIDs []string) ([]Goal, error) {
	result := make([]Goal, 0)
	for _, goal := range r.goals {
		for _, id := range childIDs {
			if goal.ChildID == id {
				result = append(result, *goal)
			}
		}
	}
	return result, nil
}

func (r *fakeGoalsRepo) ListActiveGoalsByChild(ctx context.Context, childID string) ([]Goal, error) {
	result := make([]Goal, 0)
	for _, goal := range r.goals {
		if goal.ChildID == childID && goal.Status == StatusActive {
			result = append(result, *goal)
		}
	}
	return result, nil
}

func (r *fakeGoalsRepo) CreateGoal(ctx context.Context, goal *Goal) error {
	copied := *goal
	copied.CreatedAt = time.Now()
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeGoalsRepo) UpdateGoal(ctx context.Context, goal *Goal) error {
	copied := *goal
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeGoalsRepo) DeleteGoal(ctx context.Context, id string) error {
	delete(r.goals, id)
	return nil
}

func (r *fakeGoalsRepo) ClearAutoApply(ctx context.Context, childID, exceptGoalID string) error {
	for _, goal := range r.goals {
		if goal.ChildID == childID && goal.ID != exceptGoalID && goal.Status == StatusActive {
			goal.AutoApply = false
		}
	}
	return nil
}

func (r *fakeGoalsRepo) UpdateChildBalances(ctx context.Context, childID string, totalEarnings, savingsBucket decimal.Decimal) error {
	child, ok := r.children[childID]
	if !ok {
		return children.ErrChildNotFound
	}
	child.TotalEarnings = totalEarnings
	child.SavingsBucket = savingsBucket
	return nil
}

func (r *fakeGoalsRepo) AppendEntries(ctx context.Context, entries []ledger.Entry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeGoalsRepo) CreateNotification(ctx context.Context, notification *notifications.Notification) error {
	r.notifications = append(r.notifications, *notification)
	return nil
}

type fakeChildren struct {
	repo *fakeGoalsRepo
}

func (f fakeChildren) GetChild(ctx context.Context, childID string) (*children.Child, error) {
	return f.repo.child(childID)
}

func (f fakeChildren) GetFamilyChild(ctx context.Context, parentID, childID string) (*children.Child, error) {
	child, err := f.repo.child(childID)
	if err != nil {
		return nil, err
	}
	if child.ParentID != parentID {
		return nil, children.ErrChildNotFound
	}
	return child, nil
}

func (f fakeChildren) ListFamilyChildren(ctx context.Context, parentID string) ([]children.Child, error) {
	result := make([]children.Child, 0)
	for _, child := range f.repo.children {
		if child.ParentID == parentID {
			result = append(result, *child)
		}
	}
	return result, nil
}

type fakeFamily struct{}

func (fakeFamily) FamilyMemberIDs(ctx context.Context, parentID string) ([]string, error) {
	return []string{parentID}, nil
}

type fakeNotifier struct {
	events []notifications.Event
	emails []string
}

func (n *fakeNotifier) Dispatch(ctx context.Context, event notifications.Event) int {
	n.events = append(n.events, event)
	return 1
}

func (n *fakeNotifier) EmailGoalCompleted(ctx context.Context, parentID, childName, goalTitle string) {
	n.emails = append(n.emails, parentID)
}

func newTestService(repo *fakeGoalsRepo) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewService(repo, fakeChildren{repo: repo}, fakeFamily{}, notifier, logger.Nop()), notifier
}

func seedChild(repo *fakeGoalsRepo, earnings, savings string) {
	repo.children["c1"] = &children.Child{
		ID:            "c1",
		FirstName:     "Ava",
		ParentID:      "mom",
		TotalEarnings: d(earnings),
		SavingsBucket: d(savings),
	}
}

func seedGoal(repo *fakeGoalsRepo, id, saved, target string) {
	repo.goals[id] = &Goal{
		ID:           id,
		ChildID:      "c1",
		ParentID:     "mom",
		Title:        "Goal " + id,
		IsMonetary:   true,
		TargetAmount: decimal.NewNullDecimal(d(target)),
		SavedAmount:  d(saved),
		Status:       StatusActive,
	}
}

func TestCreateGoalRecordsStartingEarnings(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "12.50", "0")
	svc, notifier := newTestService(repo)

	target := d("20.004")
	goal, err := svc.CreateGoal(context.Background(), "mom", CreateInput{ChildID: "c1", Title: " Bike ", IsMonetary: true, TargetAmount: &target})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if goal.Title != "Bike" || goal.Status != StatusActive || goal.AutoApply {
		t.Fatalf("unexpected goal %+v", goal)
	}
	if !goal.StartingEarnings.Equal(d("12.50")) {
		t.Fatalf("expected starting earnings 12.50, got %s", goal.StartingEarnings)
	}
	if !goal.Target().Equal(d("20")) {
		t.Fatalf("expected rounded target 20, got %s", goal.Target())
	}
	if len(notifier.events) != 1 || notifier.events[0].Type != notifications.TypeGoalAdded {
		t.Fatalf("expected goal_added event, got %+v", notifier.events)
	}
}

func TestCreateGoalValidation(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "0", "0")
	svc, _ := newTestService(repo)

	zero := d("0")
	if _, err := svc.CreateGoal(context.Background(), "mom", CreateInput{ChildID: "c1", Title: "Bike", IsMonetary: true, TargetAmount: &zero}); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	if _, err := svc.CreateGoal(context.Background(), "stranger", CreateInput{ChildID: "c1", Title: "Bike"}); !errors.Is(err, children.ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}

	goal, err := svc.CreateGoal(context.Background(), "mom", CreateInput{ChildID: "c1", Title: "Zoo trip"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if goal.TargetAmount.Valid || goal.AcceptsRewards() {
		t.Fatalf("expected non-monetary goal without target")
	}
}

func TestToggleAutoApplyLeavesExactlyOne(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "0", "0")
	seedGoal(repo, "a", "0", "10")
	seedGoal(repo, "b", "0", "10")
	repo.goals["b"].AutoApply = true
	svc, _ := newTestService(repo)

	goal, err := svc.ToggleAutoApply(context.Background(), "c1", "a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !goal.AutoApply {
		t.Fatalf("expected goal a auto-apply")
	}

	count := 0
	for _, g := range repo.goals {
		if g.ChildID == "c1" && g.AutoApply {
			count++
		}
	}
	if count != 1 || !repo.goals["a"].AutoApply {
		t.Fatalf("expected exactly goal a with auto-apply, got %d", count)
	}

	goal, err = svc.ToggleAutoApply(context.Background(), "c1", "a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if goal.AutoApply || repo.goals["a"].AutoApply {
		t.Fatalf("expected auto-apply toggled off")
	}
}

func TestToggleAutoApplyRejectsIneligibleGoals(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "0", "0")
	seedGoal(repo, "a", "0", "10")
	repo.goals["a"].IsMonetary = false
	seedGoal(repo, "b", "0", "10")
	repo.goals["b"].Status = StatusCompleted
	seedGoal(repo, "c", "0", "10")
	repo.goals["c"].ChildID = "other"
	svc, _ := newTestService(repo)

	if _, err := svc.ToggleAutoApply(context.Background(), "c1", "a"); !errors.Is(err, ErrGoalNotMonetary) {
		t.Fatalf("expected ErrGoalNotMonetary, got %v", err)
	}
	if _, err := svc.ToggleAutoApply(context.Background(), "c1", "b"); !errors.Is(err, ErrGoalNotActive) {
		t.Fatalf("expected ErrGoalNotActive, got %v", err)
	}
	if _, err := svc.ToggleAutoApply(context.Background(), "c1", "c"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestTransferFromSavingsCapsAndCompletes(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "20", "8")
	seedGoal(repo, "a", "7", "10")
	svc, notifier := newTestService(repo)

	result, err := svc.TransferFromSavings(context.Background(), "c1", "c1", "a", d("5"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Moved.Equal(d("3")) || !result.Completed {
		t.Fatalf("expected 3 moved and completed, got %s %v", result.Moved, result.Completed)
	}
	if !repo.goals["a"].SavedAmount.Equal(d("10")) || repo.goals["a"].CompletedAt == nil {
		t.Fatalf("expected goal filled and stamped, got %+v", repo.goals["a"])
	}
	if !repo.children["c1"].SavingsBucket.Equal(d("5")) {
		t.Fatalf("expected savings 5, got %s", repo.children["c1"].SavingsBucket)
	}
	if !repo.children["c1"].TotalEarnings.Equal(d("20")) {
		t.Fatalf("expected earnings untouched")
	}
	balances := ledger.SumBalances(repo.entries)
	if !balances.Savings.Equal(d("-3")) || !balances.Goal("a").Equal(d("3")) {
		t.Fatalf("unexpected ledger balances %+v", balances)
	}
	if len(repo.notifications) != 1 || repo.notifications[0].Type != notifications.TypeGoalCompleted {
		t.Fatalf("expected goal_completed notification, got %+v", repo.notifications)
	}
	if len(notifier.emails) != 1 || notifier.emails[0] != "mom" {
		t.Fatalf("expected parent emailed, got %v", notifier.emails)
	}
}

func TestTransferFromSavingsInsufficient(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "0", "2")
	seedGoal(repo, "a", "0", "10")
	svc, _ := newTestService(repo)

	if _, err := svc.TransferFromSavings(context.Background(), "c1", "c1", "a", d("5")); !errors.Is(err, ledger.ErrInsufficientSavings) {
		t.Fatalf("expected ErrInsufficientSavings, got %v", err)
	}
	if !repo.children["c1"].SavingsBucket.Equal(d("2")) || len(repo.entries) != 0 {
		t.Fatalf("expected no changes")
	}
}

func TestRevertCompletedGoals(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "5", "0")
	completedAt := time.Now()
	by := "mom"
	seedGoal(repo, "a", "10", "10")
	repo.goals["a"].Status = StatusCompleted
	repo.goals["a"].CompletedAt = &completedAt
	repo.goals["a"].CompletedBy = &by
	seedGoal(repo, "b", "4", "4")
	repo.goals["b"].Status = StatusCompleted
	svc, _ := newTestService(repo)

	reverted, err := svc.RevertCompletedGoals(context.Background(), []string{"c1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reverted != 1 {
		t.Fatalf("expected 1 goal reverted, got %d", reverted)
	}
	if repo.goals["a"].Status != StatusActive || repo.goals["a"].CompletedAt != nil || repo.goals["a"].CompletedBy != nil {
		t.Fatalf("expected goal a reopened, got %+v", repo.goals["a"])
	}
	if repo.goals["b"].Status != StatusCompleted {
		t.Fatalf("expected goal b to stay completed")
	}
}

func TestCompleteGoalKeepsEarnings(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "15", "0")
	seedGoal(repo, "a", "10", "10")
	repo.goals["a"].AutoApply = true
	svc, notifier := newTestService(repo)

	goal, err := svc.CompleteGoal(context.Background(), "mom", "a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if goal.Status != StatusCompleted || goal.CompletedAt == nil || goal.CompletedBy == nil || *goal.CompletedBy != "mom" {
		t.Fatalf("unexpected goal %+v", goal)
	}
	if goal.AutoApply {
		t.Fatalf("expected auto-apply cleared on completion")
	}
	if !repo.children["c1"].TotalEarnings.Equal(d("15")) {
		t.Fatalf("expected earnings kept, got %s", repo.children["c1"].TotalEarnings)
	}
	if len(notifier.events) != 1 || notifier.events[0].Type != notifications.TypeGoalReached {
		t.Fatalf("expected goal_reached event, got %+v", notifier.events)
	}

	if _, err := svc.CompleteGoal(context.Background(), "mom", "a"); !errors.Is(err, ErrGoalAlreadyCompleted) {
		t.Fatalf("expected ErrGoalAlreadyCompleted, got %v", err)
	}
}

func TestDeleteGoalRefundsSavedAmount(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "10", "1")
	seedGoal(repo, "a", "6", "10")
	svc, _ := newTestService(repo)

	if err := svc.DeleteGoal(context.Background(), "mom", "a"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.goals["a"]; ok {
		t.Fatalf("expected goal deleted")
	}
	if !repo.children["c1"].SavingsBucket.Equal(d("7")) {
		t.Fatalf("expected savings 7, got %s", repo.children["c1"].SavingsBucket)
	}

	if err := svc.DeleteGoal(context.Background(), "mom", "missing"); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestBalanceFlowsLockChildBeforeGoal(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "10", "5")
	seedGoal(repo, "a", "2", "10")
	seedGoal(repo, "b", "0", "10")
	svc, _ := newTestService(repo)

	if _, err := svc.TransferFromSavings(context.Background(), "mom", "c1", "a", d("1")); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	assertLockOrder(t, "transfer", repo.locks)

	repo.locks = nil
	if _, err := svc.ToggleAutoApply(context.Background(), "c1", "b"); err != nil {
		t.Fatalf("toggle auto-apply: %v", err)
	}
	assertLockOrder(t, "toggle auto-apply", repo.locks)

	repo.locks = nil
	if err := svc.DeleteGoal(context.Background(), "mom", "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertLockOrder(t, "delete", repo.locks)
}

func assertLockOrder(t *testing.T, op string, locks []string) {
	t.Helper()
	if len(locks) < 2 || locks[0] != "child" || locks[1] != "goal" {
		t.Fatalf("%s: expected child lock before goal lock, got %v", op, locks)
	}
}

func TestRevertCompletedGoalsSkipsGoalReopenedConcurrently(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "5", "0")
	seedGoal(repo, "a", "10", "10")
	repo.goals["a"].Status = StatusCompleted
	repo.beforeLock = func(goalID string) {
		repo.goals[goalID].Status = StatusActive
	}
	svc, _ := newTestService(repo)

	reverted, err := svc.RevertCompletedGoals(context.Background(), []string{"c1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reverted != 0 {
		t.Fatalf("expected no goals counted as reopened, got %d", reverted)
	}
}

func TestUpdateGoalTargetBelowSaved(t *testing.T) {
	repo := newFakeGoalsRepo()
	seedChild(repo, "0", "0")
	seedGoal(repo, "a", "6", "10")
	svc, _ := newTestService(repo)

	lower := d("5")
	if _, err := svc.UpdateGoal(context.Background(), "mom", "a", UpdateInput{TargetAmount: &lower}); !errors.Is(err, ErrTargetBelowSaved) {
		t.Fatalf("expected ErrTargetBelowSaved, got %v", err)
	}

	higher := d("12")
	title := "New bike"
	goal, err := svc.UpdateGoal(context.Background(), "mom", "a", UpdateInput{TargetAmount: &higher, Title: &title})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !goal.Target().Equal(d("12")) || goal.Title != "New bike" {
		t.Fatalf("unexpected goal %+v", goal)
	}
	if goal.Progress() != 50 {
		t.Fatalf("expected 50%% progress, got %v", goal.Progress())
	}
}
