package goals

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ChildDirectory interface {
	GetChild(ctx context.Context, childID string) (*children.Child, error)
	GetFamilyChild(ctx context.Context, parentID, childID string) (*children.Child, error)
	ListFamilyChildren(ctx context.Context, parentID string) ([]children.Child, error)
}

type FamilyDirectory interface {
	FamilyMemberIDs(ctx context.Context, parentID string) ([]string, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, event notifications.Event) int
	EmailGoalCompleted(ctx context.Context, parentID, childName, goalTitle string)
}

type Service struct {
	repo     Repository
	children ChildDirectory
	family   FamilyDirectory
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, children ChildDirectory, family FamilyDirectory, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		children: children,
		family:   family,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// TransferResult is the state after moving savings into a goal.
type TransferResult struct {
	Goal      Goal
	Child     children.Child
	Moved     decimal.Decimal
	Completed bool
}

func (s *Service) CreateGoal(ctx context.Context, parentID string, input CreateInput) (*Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	child, err := s.children.GetFamilyChild(ctx, parentID, input.ChildID)
	if err != nil {
		return nil, err
	}

	goal := Goal{
		ID:               uuid.NewString(),
		ChildID:          child.ID,
		ParentID:         parentID,
		Title:            title,
		Description:      strings.TrimSpace(input.Description),
		IsMonetary:       input.IsMonetary,
		SavedAmount:      decimal.Zero,
		StartingEarnings: child.TotalEarnings,
		Status:           StatusActive,
		CreatedBy:        parentID,
	}
	if input.IsMonetary {
		if input.TargetAmount == nil || !ledger.Round(*input.TargetAmount).IsPositive() {
			return nil, ErrInvalidTarget
		}
		goal.TargetAmount = decimal.NewNullDecimal(ledger.Round(*input.TargetAmount))
	}

	if err := s.repo.CreateGoal(ctx, &goal); err != nil {
		return nil, err
	}

	s.dispatch(ctx, parentID, notifications.Event{
		Type:      notifications.TypeGoalAdded,
		ActorID:   parentID,
		ChildID:   child.ID,
		ChildName: child.FirstName,
		GoalID:    goal.ID,
		GoalTitle: goal.Title,
		Amount:    goal.Target(),
	})
	return &goal, nil
}

func (s *Service) UpdateGoal(ctx context.Context, parentID, goalID string, input UpdateInput) (*Goal, error) {
	if _, err := s.getFamilyGoal(ctx, parentID, goalID); err != nil {
		return nil, err
	}

	var result Goal
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := tx.LockGoal(ctx, goalID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrTitleRequired
			}
			goal.Title = title
		}
		if input.Description != nil {
			goal.Description = strings.TrimSpace(*input.Description)
		}
		if input.TargetAmount != nil {
			if !goal.IsMonetary {
				return ErrGoalNotMonetary
			}
			target := ledger.Round(*input.TargetAmount)
			if !target.IsPositive() {
				return ErrInvalidTarget
			}
			if target.LessThan(goal.SavedAmount) {
				return ErrTargetBelowSaved
			}
			goal.TargetAmount = decimal.NewNullDecimal(target)
			if goal.Status == StatusActive && goal.CompletedAt != nil && !goal.Reached() {
				goal.CompletedAt = nil
			}
		}

		goal.UpdatedBy = &parentID
		if err := tx.UpdateGoal(ctx, goal); err != nil {
			return err
		}
		result = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteGoal removes a goal. Money saved toward an active goal goes back to
// the child's savings bucket.
func (s *Service) DeleteGoal(ctx context.Context, parentID, goalID string) error {
	found, err := s.getFamilyGoal(ctx, parentID, goalID)
	if err != nil {
		return err
	}

	// Child before goal, same order as every other balance flow.
	return s.repo.Transaction(ctx, func(tx Repository) error {
		child, err := tx.LockChild(ctx, found.ChildID)
		if err != nil {
			return err
		}
		goal, err := tx.LockGoal(ctx, goalID)
		if err != nil {
			return err
		}

		if goal.Status == StatusActive && goal.SavedAmount.IsPositive() {
			savings := child.SavingsBucket.Add(goal.SavedAmount)
			if err := tx.UpdateChildBalances(ctx, child.ID, child.TotalEarnings, savings); err != nil {
				return err
			}
			entries := []ledger.Entry{
				ledger.NewEntry(child.ID, ledger.KindTransferred, ledger.AccountGoal, goal.SavedAmount.Neg(), parentID, ledger.WithGoal(goal.ID)),
				ledger.NewEntry(child.ID, ledger.KindTransferred, ledger.AccountSavings, goal.SavedAmount, parentID, ledger.WithGoal(goal.ID)),
			}
			if err := tx.AppendEntries(ctx, entries); err != nil {
				return err
			}
		}

		return tx.DeleteGoal(ctx, goal.ID)
	})
}

// CompleteGoal archives a goal on a parent's request.
func (s *Service) CompleteGoal(ctx context.Context, parentID, goalID string) (*Goal, error) {
	if _, err := s.getFamilyGoal(ctx, parentID, goalID); err != nil {
		return nil, err
	}

	var result Goal
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := tx.LockGoal(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.Status == StatusCompleted {
			return ErrGoalAlreadyCompleted
		}

		now := s.now()
		goal.Status = StatusCompleted
		goal.CompletedAt = &now
		goal.CompletedBy = &parentID
		goal.AutoApply = false
		goal.UpdatedBy = &parentID
		if err := tx.UpdateGoal(ctx, goal); err != nil {
			return err
		}
		result = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}

	child, err := s.children.GetChild(ctx, result.ChildID)
	if err == nil {
		s.dispatch(ctx, parentID, notifications.Event{
			Type:      notifications.TypeGoalReached,
			ActorID:   parentID,
			ChildID:   child.ID,
			ChildName: child.FirstName,
			GoalID:    result.ID,
			GoalTitle: result.Title,
			Amount:    result.Target(),
		})
	}

	s.log.Info("goals.complete: goal completed", "goal_id", goalID, "parent_id", parentID)
	return &result, nil
}

// ToggleAutoApply flips the auto-apply flag of a child's goal. Enabling it
// clears the flag on every other active goal of the child first.
func (s *Service) ToggleAutoApply(ctx context.Context, childID, goalID string) (*Goal, error) {
	var result Goal
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.LockChild(ctx, childID); err != nil {
			return err
		}
		goal, err := tx.LockGoal(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.ChildID != childID {
			return ErrGoalNotFound
		}

		if goal.AutoApply {
			goal.AutoApply = false
		} else {
			if !goal.IsMonetary {
				return ErrGoalNotMonetary
			}
			if goal.Status != StatusActive {
				return ErrGoalNotActive
			}
			if err := tx.ClearAutoApply(ctx, childID, goal.ID); err != nil {
				return err
			}
			goal.AutoApply = true
		}

		if err := tx.UpdateGoal(ctx, goal); err != nil {
			return err
		}
		result = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// TransferFromSavings moves money from the savings bucket into a goal,
// capped at what the goal still needs.
func (s *Service) TransferFromSavings(ctx context.Context, actorID, childID, goalID string, amount decimal.Decimal) (*TransferResult, error) {
	var result TransferResult
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		child, err := tx.LockChild(ctx, childID)
		if err != nil {
			return err
		}
		goal, err := tx.LockGoal(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.ChildID != child.ID {
			return ErrGoalNotFound
		}
		if !goal.IsMonetary {
			return ErrGoalNotMonetary
		}
		if goal.Status != StatusActive {
			return ErrGoalNotActive
		}

		transfer, err := ledger.Transfer(amount, child.SavingsBucket, goal.SavedAmount, goal.Target())
		if err != nil {
			return err
		}

		child.SavingsBucket = child.SavingsBucket.Sub(transfer.Moved)
		goal.SavedAmount = goal.SavedAmount.Add(transfer.Moved)
		goal.UpdatedBy = &actorID
		if transfer.Completes {
			now := s.now()
			goal.CompletedAt = &now
		}

		if err := tx.UpdateChildBalances(ctx, child.ID, child.TotalEarnings, child.SavingsBucket); err != nil {
			return err
		}
		if err := tx.UpdateGoal(ctx, goal); err != nil {
			return err
		}
		if err := tx.AppendEntries(ctx, ledger.TransferEntries(child.ID, goal.ID, actorID, transfer.Moved)); err != nil {
			return err
		}
		if transfer.Completes {
			notification := notifications.NewGoalCompleted(child.ParentID, child.ID, goal.ID, child.FirstName, goal.Title)
			if err := tx.CreateNotification(ctx, &notification); err != nil {
				return err
			}
		}

		result = TransferResult{Goal: *goal, Child: *child, Moved: transfer.Moved, Completed: transfer.Completes}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed && s.notifier != nil {
		s.notifier.EmailGoalCompleted(ctx, result.Child.ParentID, result.Child.FirstName, result.Goal.Title)
	}
	s.log.Info("goals.transfer: savings moved to goal", "child_id", childID, "goal_id", goalID, "amount", result.Moved.StringFixed(2))
	return &result, nil
}

// RevertCompletedGoals reopens completed monetary goals whose target is
// above the child's current earnings and returns how many were reopened.
func (s *Service) RevertCompletedGoals(ctx context.Context, childIDs []string) (int, error) {
	if len(childIDs) == 0 {
		return 0, nil
	}

	list, err := s.repo.ListGoalsByChildren(ctx, childIDs)
	if err != nil {
		return 0, err
	}

	earnings := make(map[string]decimal.Decimal)
	reverted := 0
	for _, goal := range list {
		if goal.Status != StatusCompleted || !goal.IsMonetary {
			continue
		}

		total, ok := earnings[goal.ChildID]
		if !ok {
			child, err := s.children.GetChild(ctx, goal.ChildID)
			if err != nil {
				if errors.Is(err, children.ErrChildNotFound) {
					continue
				}
				return reverted, err
			}
			total = child.TotalEarnings
			earnings[goal.ChildID] = total
		}
		if !total.LessThan(goal.Target()) {
			continue
		}

		reopened := false
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			locked, err := tx.LockGoal(ctx, goal.ID)
			if err != nil {
				return err
			}
			if locked.Status != StatusCompleted {
				return nil
			}
			locked.Status = StatusActive
			locked.CompletedAt = nil
			locked.CompletedBy = nil
			if err := tx.UpdateGoal(ctx, locked); err != nil {
				return err
			}
			reopened = true
			return nil
		})
		if err != nil {
			return reverted, err
		}
		if !reopened {
			continue
		}
		reverted++
		s.log.Info("goals.revert: completed goal reopened", "goal_id", goal.ID, "child_id", goal.ChildID)
	}
	return reverted, nil
}

// ListGoals returns the family's goals, newest first, after reopening goals
// that no longer meet their target.
func (s *Service) ListGoals(ctx context.Context, parentID string) ([]Goal, error) {
	family, err := s.children.ListFamilyChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	childIDs := make([]string, 0, len(family))
	for _, child := range family {
		childIDs = append(childIDs, child.ID)
	}
	if len(childIDs) == 0 {
		return []Goal{}, nil
	}

	if _, err := s.RevertCompletedGoals(ctx, childIDs); err != nil {
		s.log.InternalError("goals.list: revert check failed", err, "parent_id", parentID)
	}

	list, err := s.repo.ListGoalsByChildren(ctx, childIDs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *Service) ListChildGoals(ctx context.Context, childID string) ([]Goal, error) {
	return s.repo.ListActiveGoalsByChild(ctx, childID)
}

func (s *Service) getFamilyGoal(ctx context.Context, parentID, goalID string) (*Goal, error) {
	goal, err := s.repo.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.children.GetFamilyChild(ctx, parentID, goal.ChildID); err != nil {
		if errors.Is(err, children.ErrChildNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *Service) dispatch(ctx context.Context, parentID string, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	members, err := s.family.FamilyMemberIDs(ctx, parentID)
	if err != nil {
		s.log.InternalError("goals.notify: resolve family failed", err, "parent_id", parentID)
		return
	}
	event.ParentIDs = members
	s.notifier.Dispatch(ctx, event)
}
