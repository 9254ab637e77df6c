package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const currencyPlaces = 2

// Allocation describes where a reward goes when it is applied to a goal.
// ToGoal never exceeds the goal's remaining capacity.
type Allocation struct {
	ToGoal    decimal.Decimal
	ToSavings decimal.Decimal
	Completes bool
}

// Round rounds to cents, half away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(currencyPlaces)
}

// Remaining is max(0, target - saved).
func Remaining(saved, target decimal.Decimal) decimal.Decimal {
	remaining := target.Sub(saved)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// AllocateToGoal splits a reward between a goal and the savings bucket.
// A goal with nothing left to fill sends the whole reward to savings and
// does not complete again.
func AllocateToGoal(reward, saved, target decimal.Decimal) (Allocation, error) {
	reward = Round(reward)
	if reward.IsNegative() {
		return Allocation{}, ErrNegativeAmount
	}

	remaining := Remaining(saved, target)
	switch {
	case remaining.IsZero():
		return Allocation{ToGoal: decimal.Zero, ToSavings: reward}, nil
	case reward.LessThan(remaining):
		return Allocation{ToGoal: reward, ToSavings: decimal.Zero}, nil
	default:
		return Allocation{
			ToGoal:    remaining,
			ToSavings: reward.Sub(remaining),
			Completes: true,
		}, nil
	}
}

func AllocateToSavings(reward decimal.Decimal) (Allocation, error) {
	reward = Round(reward)
	if reward.IsNegative() {
		return Allocation{}, ErrNegativeAmount
	}
	return Allocation{ToGoal: decimal.Zero, ToSavings: reward}, nil
}

// TransferResult is the outcome of moving money from savings into a goal.
type TransferResult struct {
	Moved     decimal.Decimal
	Completes bool
}

// Transfer moves up to amount from savings into a goal, capped at what the
// goal still needs.
func Transfer(amount, savings, saved, target decimal.Decimal) (TransferResult, error) {
	amount = Round(amount)
	if !amount.IsPositive() {
		return TransferResult{}, ErrNonPositiveAmount
	}
	if amount.GreaterThan(savings) {
		return TransferResult{}, ErrInsufficientSavings
	}

	remaining := Remaining(saved, target)
	if remaining.IsZero() {
		return TransferResult{}, ErrGoalAlreadyReached
	}

	moved := decimal.Min(amount, remaining)
	return TransferResult{
		Moved:     moved,
		Completes: moved.Equal(remaining),
	}, nil
}

// AdjustEarnings applies a signed delta to an earnings total, flooring the
// result at zero. It returns the new total and the delta actually applied.
func AdjustEarnings(current, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	next := Round(current.Add(delta))
	if next.IsNegative() {
		next = decimal.Zero
	}
	return next, next.Sub(current)
}

// SumBalances folds entries into per-account totals.
func SumBalances(entries []Entry) Balances {
	balances := Balances{
		Earnings: decimal.Zero,
		Savings:  decimal.Zero,
		Goals:    make(map[string]decimal.Decimal),
	}
	for _, entry := range entries {
		switch entry.Account {
		case AccountEarnings:
			balances.Earnings = balances.Earnings.Add(entry.Amount)
		case AccountSavings:
			balances.Savings = balances.Savings.Add(entry.Amount)
		case AccountGoal:
			if entry.GoalID == nil {
				continue
			}
			balances.Goals[*entry.GoalID] = balances.Goals[*entry.GoalID].Add(entry.Amount)
		}
	}
	return balances
}

// EntryOption sets optional references on an entry.
type EntryOption func(*Entry)

func WithChore(choreID string) EntryOption {
	return func(e *Entry) {
		e.ChoreID = &choreID
	}
}

func WithGoal(goalID string) EntryOption {
	return func(e *Entry) {
		e.GoalID = &goalID
	}
}

func NewEntry(childID string, kind Kind, account Account, amount decimal.Decimal, actor string, opts ...EntryOption) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		ChildID:   childID,
		Kind:      kind,
		Account:   account,
		Amount:    Round(amount),
		CreatedBy: actor,
	}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

// AllocationEntries renders an allocation as ledger entries. Zero legs are
// skipped.
func AllocationEntries(childID, actor string, alloc Allocation, goalID string, opts ...EntryOption) []Entry {
	entries := make([]Entry, 0, 2)
	if alloc.ToGoal.IsPositive() && goalID != "" {
		goalOpts := append([]EntryOption{WithGoal(goalID)}, opts...)
		entries = append(entries, NewEntry(childID, KindAllocatedGoal, AccountGoal, alloc.ToGoal, actor, goalOpts...))
	}
	if alloc.ToSavings.IsPositive() {
		entries = append(entries, NewEntry(childID, KindAllocatedSavings, AccountSavings, alloc.ToSavings, actor, opts...))
	}
	return entries
}

// TransferEntries debits savings and credits the goal by the same amount.
func TransferEntries(childID, goalID, actor string, moved decimal.Decimal) []Entry {
	return []Entry{
		NewEntry(childID, KindTransferred, AccountSavings, moved.Neg(), actor, WithGoal(goalID)),
		NewEntry(childID, KindTransferred, AccountGoal, moved, actor, WithGoal(goalID)),
	}
}
