package chores

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultRejectionMessage = "Please try again"
	urgentWindow            = 24 * time.Hour
)

var actionableStatuses = []Status{StatusAssigned, StatusPendingApproval, StatusAwaitingGoalSelection}

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

// Metrics observes chore transitions and reward allocations.
type Metrics interface {
	ChoreTransition(status string)
	RewardAllocated(destination string, amount decimal.Decimal)
}

type noopMetrics struct{}

func (noopMetrics) ChoreTransition(string) {}

func (noopMetrics) RewardAllocated(string, decimal.Decimal) {}

type Service struct {
	repo     Repository
	children ChildDirectory
	family   FamilyDirectory
	notifier Notifier
	metrics  Metrics
	log      logger.Logger
	now      func() time.Time
	location *time.Location
}

func NewService(repo Repository, children ChildDirectory, family FamilyDirectory, notifier Notifier, metrics Metrics, log logger.Logger) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		repo:     repo,
		children: children,
		family:   family,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		location: time.UTC,
	}
}

func (s *Service) CreateChore(ctx context.Context, parentID string, input CreateInput) (*Chore, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	reward := ledger.Round(input.Reward)
	if reward.IsNegative() {
		return nil, ErrInvalidReward
	}
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	choreType, err := normalizeType(input.Type)
	if err != nil {
		return nil, err
	}
	dueAt, err := ParseDueAt(input.DueDate, input.DueTime, s.location)
	if err != nil {
		return nil, err
	}

	child, err := s.children.GetFamilyChild(ctx, parentID, input.ChildID)
	if err != nil {
		return nil, err
	}

	chore := Chore{
		ID:           uuid.NewString(),
		Title:        title,
		Category:     category,
		Location:     strings.TrimSpace(input.Location),
		Type:         choreType,
		Reward:       reward,
		ChildID:      child.ID,
		ParentID:     parentID,
		CreatedBy:    parentID,
		Instructions: strings.TrimSpace(input.Instructions),
		DueAt:        dueAt,
		Status:       StatusAssigned,
	}
	if err := s.repo.CreateChore(ctx, &chore); err != nil {
		return nil, err
	}
	s.metrics.ChoreTransition(string(StatusAssigned))

	s.dispatch(ctx, parentID, notifications.Event{
		Type:       notifications.TypeChoreAssigned,
		ActorID:    parentID,
		ChildID:    child.ID,
		ChildName:  child.FirstName,
		ChoreID:    chore.ID,
		ChoreTitle: chore.Title,
		Amount:     chore.Reward,
	})
	return &chore, nil
}

func (s *Service) GetChore(ctx context.Context, parentID, choreID string) (*Chore, error) {
	chore, _, err := s.getFamilyChore(ctx, parentID, choreID)
	return chore, err
}

// UpdateChore edits a chore. Changing the reward of a chore whose reward is
// already credited adjusts the child's earnings by the difference, floored
// at zero. Where the original reward was allocated is left untouched.
func (s *Service) UpdateChore(ctx context.Context, parentID, choreID string, input UpdateInput) (*Chore, error) {
	if _, _, err := s.getFamilyChore(ctx, parentID, choreID); err != nil {
		return nil, err
	}

	var result Chore
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		chore, err := tx.LockChore(ctx, choreID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrTitleRequired
			}
			chore.Title = title
		}
		if input.Category != nil {
			category, err := normalizeCategory(*input.Category)
			if err != nil {
				return err
			}
			chore.Category = category
		}
		if input.Type != nil {
			choreType, err := normalizeType(*input.Type)
			if err != nil {
				return err
			}
			chore.Type = choreType
		}
		if input.Location != nil {
			chore.Location = strings.TrimSpace(*input.Location)
		}
		if input.Instructions != nil {
			chore.Instructions = strings.TrimSpace(*input.Instructions)
		}
		if input.DueDate != nil {
			clock := ""
			if input.DueTime != nil {
				clock = *input.DueTime
			}
			dueAt, err := ParseDueAt(*input.DueDate, clock, s.location)
			if err != nil {
				return err
			}
			if !sameTime(chore.DueAt, dueAt) {
				chore.ReminderSentAt = nil
			}
			chore.DueAt = dueAt
		}

		if input.Reward != nil {
			reward := ledger.Round(*input.Reward)
			if reward.IsNegative() {
				return ErrInvalidReward
			}
			if chore.Status.Credited() && !reward.Equal(chore.Reward) {
				if err := s.adjustEarnings(ctx, tx, parentID, chore, reward.Sub(chore.Reward), ledger.KindEarningsAdjusted); err != nil {
					return err
				}
			}
			chore.Reward = reward
		}

		chore.UpdatedBy = &parentID
		if err := tx.UpdateChore(ctx, chore); err != nil {
			return err
		}
		result = *chore
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteChore removes a chore. A credited reward is taken back out of the
// child's earnings; savings and goal progress keep what they received.
func (s *Service) DeleteChore(ctx context.Context, parentID, choreID string) error {
	if _, _, err := s.getFamilyChore(ctx, parentID, choreID); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		chore, err := tx.LockChore(ctx, choreID)
		if err != nil {
			return err
		}
		if chore.Status.Credited() && chore.Reward.IsPositive() {
			if err := s.adjustEarnings(ctx, tx, parentID, chore, chore.Reward.Neg(), ledger.KindEarningsReversed); err != nil {
				return err
			}
		}
		return tx.DeleteChore(ctx, chore.ID)
	})
}

// MarkComplete moves an assigned chore to pending approval on the child's
// behalf.
func (s *Service) MarkComplete(ctx context.Context, childID, choreID string) (*Chore, error) {
	var result Chore
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		chore, err := tx.LockChore(ctx, choreID)
		if err != nil {
			return err
		}
		if chore.ChildID != childID {
			return ErrChoreNotFound
		}
		if chore.Status != StatusAssigned {
			return ErrInvalidTransition
		}

		now := s.now()
		chore.Status = StatusPendingApproval
		chore.CompletedAt = &now
		chore.CompletedBy = &childID
		chore.RejectedAt = nil
		chore.RejectedBy = nil
		chore.RejectionMessage = nil
		if err := tx.UpdateChore(ctx, chore); err != nil {
			return err
		}
		result = *chore
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ChoreTransition(string(StatusPendingApproval))

	if child, err := s.children.GetChild(ctx, childID); err == nil {
		s.dispatch(ctx, result.ParentID, notifications.Event{
			Type:       notifications.TypeChoreCompleted,
			ActorID:    childID,
			ChildID:    child.ID,
			ChildName:  child.FirstName,
			ChoreID:    result.ID,
			ChoreTitle: result.Title,
			Amount:     result.Reward,
		})
	}
	return &result, nil
}

// ApproveChore credits the reward to the child's earnings. When the child
// has an auto-apply goal the reward is allocated right away, otherwise the
// chore waits for the child to pick a destination.
func (s *Service) ApproveChore(ctx context.Context, parentID, choreID string) (*Approval, error) {
	if _, _, err := s.getFamilyChore(ctx, parentID, choreID); err != nil {
		return nil, err
	}

	var (
		result    Approval
		childName string
		completed *goals.Goal
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		chore, err := tx.LockChore(ctx, choreID)
		if err != nil {
			return err
		}
		if chore.Status != StatusPendingApproval {
			return ErrInvalidTransition
		}
		child, err := tx.LockChild(ctx, chore.ChildID)
		if err != nil {
			return err
		}
		childName = child.FirstName

		now := s.now()
		child.TotalEarnings = child.TotalEarnings.Add(chore.Reward)
		earned := ledger.NewEntry(child.ID, ledger.KindEarned, ledger.AccountEarnings, chore.Reward, parentID, ledger.WithChore(chore.ID))
		if err := tx.AppendEntries(ctx, []ledger.Entry{earned}); err != nil {
			return err
		}

		chore.ApprovedAt = &now
		chore.ApprovedBy = &parentID
		chore.UpdatedBy = &parentID

		goal, err := tx.FindAutoApplyGoal(ctx, child.ID)
		switch {
		case errors.Is(err, ErrNoAutoApplyGoal):
			chore.Status = StatusAwaitingGoalSelection
		case err != nil:
			return err
		case !goal.AcceptsRewards():
			chore.Status = StatusAwaitingGoalSelection
		default:
			result, err = s.allocate(ctx, tx, parentID, chore, child, goal)
			if err != nil {
				return err
			}
			if result.GoalCompleted {
				completed = goal
			}
		}

		if err := tx.UpdateChildBalances(ctx, child.ID, child.TotalEarnings, child.SavingsBucket); err != nil {
			return err
		}
		if err := tx.UpdateChore(ctx, chore); err != nil {
			return err
		}
		result.Chore = *chore
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ChoreTransition(string(result.Chore.Status))
	s.afterAllocation(ctx, result, childName, completed)
	s.dispatch(ctx, parentID, notifications.Event{
		Type:       notifications.TypeAllowanceEarned,
		ActorID:    parentID,
		ChildID:    result.Chore.ChildID,
		ChildName:  childName,
		ChoreID:    result.Chore.ID,
		ChoreTitle: result.Chore.Title,
		Amount:     result.Chore.Reward,
	})
	s.log.Info("chores.approve: chore approved", "chore_id", choreID, "parent_id", parentID, "status", string(result.Chore.Status))
	return &result, nil
}

// RejectChore sends a pending chore back to the child. Earnings are not
// touched.
func (s *Service) RejectChore(ctx context.Context, parentID, choreID, message string) (*Chore, error) {
	if _, _, err := s.getFamilyChore(ctx, parentID, choreID); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = defaultRejectionMessage
	}

	var result Chore
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		chore, err := tx.LockChore(ctx, choreID)
		if err != nil {
			return err
		}
		if chore.Status != StatusPendingApproval {
			return ErrInvalidTransition
		}

		now := s.now()
		chore.Status = StatusAssigned
		chore.RejectedAt = &now
		chore.RejectedBy = &parentID
		chore.RejectionMessage = &message
		chore.UpdatedBy = &parentID
		if err := tx.UpdateChore(ctx, chore); err != nil {
			return err
		}
		result = *chore
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ChoreTransition(string(StatusAssigned))
	return &result, nil
}

// SelectRewardDestination applies the reward of an approved chore that is
// waiting for the child's choice. An empty goalID sends it to savings.
func (s *Service) SelectRewardDestination(ctx context.Context, childID, choreID, goalID string) (*Approval, error) {
	var (
		result    Approval
		childName string
		completed *goals.Goal
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		chore, err := tx.LockChore(ctx, choreID)
		if err != nil {
			return err
		}
		if chore.ChildID != childID {
			return ErrChoreNotFound
		}
		if chore.Status != StatusAwaitingGoalSelection {
			return ErrInvalidTransition
		}
		child, err := tx.LockChild(ctx, childID)
		if err != nil {
			return err
		}
		childName = child.FirstName

		var goal *goals.Goal
		if goalID != "" {
			goal, err = tx.LockGoal(ctx, goalID)
			if err != nil {
				return err
			}
			if goal.ChildID != childID {
				return goals.ErrGoalNotFound
			}
			if !goal.IsMonetary {
				return goals.ErrGoalNotMonetary
			}
			if !goal.AcceptsRewards() {
				return goals.ErrGoalNotActive
			}
		}

		result, err = s.allocate(ctx, tx, childID, chore, child, goal)
		if err != nil {
			return err
		}
		if result.GoalCompleted {
			completed = goal
		}
		if err := tx.UpdateChildBalances(ctx, child.ID, child.TotalEarnings, child.SavingsBucket); err != nil {
			return err
		}
		chore.UpdatedBy = &childID
		if err := tx.UpdateChore(ctx, chore); err != nil {
			return err
		}
		result.Chore = *chore
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ChoreTransition(string(StatusApproved))
	s.afterAllocation(ctx, result, childName, completed)
	return &result, nil
}

// ListChores returns the family's chores, newest first.
func (s *Service) ListChores(ctx context.Context, parentID string, filter ListFilter) ([]Chore, error) {
	childIDs, err := s.familyChildIDs(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if filter.ChildID != "" {
		if !containsID(childIDs, filter.ChildID) {
			return nil, children.ErrChildNotFound
		}
		childIDs = []string{filter.ChildID}
	}
	if len(childIDs) == 0 {
		return []Chore{}, nil
	}

	list, err := s.repo.ListChoresByChildren(ctx, childIDs, filter)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return list, nil
}

// ListChildChores returns the chores a child can still act on or is waiting
// on.
func (s *Service) ListChildChores(ctx context.Context, childID string) ([]Chore, error) {
	list, err := s.repo.ListChoresByChild(ctx, childID, actionableStatuses)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return list, nil
}

// SendDueReminders notifies children about assigned chores due within the
// window after now. Each chore is reminded once per due date.
func (s *Service) SendDueReminders(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	due, err := s.repo.ListDueChores(ctx, now, now.Add(window))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, chore := range due {
		if chore.DueAt == nil {
			continue
		}
		child, err := s.children.GetChild(ctx, chore.ChildID)
		if err != nil {
			s.log.BusinessError("chores.reminders: child lookup failed", err, "chore_id", chore.ID)
			continue
		}

		dueAt := *chore.DueAt
		s.dispatch(ctx, chore.ParentID, notifications.Event{
			Type:             notifications.TypeChoreReminder,
			ChildID:          child.ID,
			ChildName:        child.FirstName,
			ChoreID:          chore.ID,
			ChoreTitle:       chore.Title,
			DueAt:            &dueAt,
			MinutesRemaining: int(math.Round(dueAt.Sub(now).Minutes())),
		})
		if err := s.repo.MarkReminded(ctx, chore.ID, now); err != nil {
			return sent, err
		}
		sent++
	}

	if sent > 0 {
		s.log.Info("chores.reminders: reminders sent", "count", sent)
	}
	return sent, nil
}

// SendManualReminder nudges the child about an assigned chore.
func (s *Service) SendManualReminder(ctx context.Context, parentID, choreID, senderName string) error {
	chore, child, err := s.getFamilyChore(ctx, parentID, choreID)
	if err != nil {
		return err
	}
	if chore.Status != StatusAssigned {
		return ErrInvalidTransition
	}

	if s.notifier == nil {
		return nil
	}
	s.notifier.Dispatch(ctx, notifications.Event{
		Type:       notifications.TypeManualReminder,
		ActorID:    parentID,
		ChildID:    child.ID,
		ChildName:  child.FirstName,
		ChoreID:    chore.ID,
		ChoreTitle: chore.Title,
		SenderName: strings.TrimSpace(senderName),
	})
	return nil
}

func (s *Service) Summary(ctx context.Context, parentID string) (*Summary, error) {
	childIDs, err := s.familyChildIDs(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if len(childIDs) == 0 {
		return &Summary{}, nil
	}

	counts, err := s.repo.CountByStatus(ctx, childIDs)
	if err != nil {
		return nil, err
	}
	urgent, err := s.repo.CountDueBefore(ctx, childIDs, s.now().Add(urgentWindow))
	if err != nil {
		return nil, err
	}

	return &Summary{
		Assigned:              counts[StatusAssigned],
		PendingApproval:       counts[StatusPendingApproval],
		AwaitingGoalSelection: counts[StatusAwaitingGoalSelection],
		Approved:              counts[StatusApproved],
		Urgent:                urgent,
	}, nil
}

// allocate applies the chore's reward to goal, or to savings when goal is
// nil, and marks the chore approved. The caller persists child and chore.
func (s *Service) allocate(ctx context.Context, tx Repository, actor string, chore *Chore, child *children.Child, goal *goals.Goal) (Approval, error) {
	var (
		alloc  ledger.Allocation
		err    error
		goalID string
	)
	if goal != nil {
		goalID = goal.ID
		alloc, err = ledger.AllocateToGoal(chore.Reward, goal.SavedAmount, goal.Target())
	} else {
		alloc, err = ledger.AllocateToSavings(chore.Reward)
	}
	if err != nil {
		return Approval{}, err
	}

	now := s.now()
	child.SavingsBucket = child.SavingsBucket.Add(alloc.ToSavings)

	if goal != nil && alloc.ToGoal.IsPositive() {
		goal.SavedAmount = goal.SavedAmount.Add(alloc.ToGoal)
		goal.UpdatedBy = &actor
		if alloc.Completes {
			goal.CompletedAt = &now
		}
		if err := tx.UpdateGoal(ctx, goal); err != nil {
			return Approval{}, err
		}
		chore.GoalAppliedTo = &goal.ID
	}

	if err := tx.AppendEntries(ctx, ledger.AllocationEntries(child.ID, actor, alloc, goalID, ledger.WithChore(chore.ID))); err != nil {
		return Approval{}, err
	}

	if alloc.Completes {
		notification := notifications.NewGoalCompleted(child.ParentID, child.ID, goal.ID, child.FirstName, goal.Title)
		if err := tx.CreateNotification(ctx, &notification); err != nil {
			return Approval{}, err
		}
	}

	chore.Status = StatusApproved
	chore.RewardAppliedAt = &now
	return Approval{ToGoal: alloc.ToGoal, ToSavings: alloc.ToSavings, GoalCompleted: alloc.Completes}, nil
}

func (s *Service) afterAllocation(ctx context.Context, result Approval, childName string, completed *goals.Goal) {
	if result.ToGoal.IsPositive() {
		s.metrics.RewardAllocated("goal", result.ToGoal)
	}
	if result.ToSavings.IsPositive() {
		s.metrics.RewardAllocated("savings", result.ToSavings)
	}
	if completed != nil && s.notifier != nil {
		s.notifier.EmailGoalCompleted(ctx, completed.ParentID, childName, completed.Title)
	}
}

func (s *Service) adjustEarnings(ctx context.Context, tx Repository, actor string, chore *Chore, delta decimal.Decimal, kind ledger.Kind) error {
	child, err := tx.LockChild(ctx, chore.ChildID)
	if err != nil {
		return err
	}

	next, applied := ledger.AdjustEarnings(child.TotalEarnings, delta)
	if applied.IsZero() {
		return nil
	}
	if err := tx.UpdateChildBalances(ctx, child.ID, next, child.SavingsBucket); err != nil {
		return err
	}
	entry := ledger.NewEntry(child.ID, kind, ledger.AccountEarnings, applied, actor, ledger.WithChore(chore.ID))
	return tx.AppendEntries(ctx, []ledger.Entry{entry})
}

func (s *Service) getFamilyChore(ctx context.Context, parentID, choreID string) (*Chore, *children.Child, error) {
	chore, err := s.repo.GetChore(ctx, choreID)
	if err != nil {
		return nil, nil, err
	}
	child, err := s.children.GetFamilyChild(ctx, parentID, chore.ChildID)
	if err != nil {
		if errors.Is(err, children.ErrChildNotFound) {
			return nil, nil, ErrChoreNotFound
		}
		return nil, nil, err
	}
	return chore, child, nil
}

func (s *Service) familyChildIDs(ctx context.Context, parentID string) ([]string, error) {
	list, err := s.children.ListFamilyChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, child := range list {
		ids = append(ids, child.ID)
	}
	return ids, nil
}

func (s *Service) dispatch(ctx context.Context, parentID string, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	members, err := s.family.FamilyMemberIDs(ctx, parentID)
	if err != nil {
		s.log.InternalError("chores.notify: resolve family failed", err, "parent_id", parentID)
		return
	}
	event.ParentIDs = members
	s.notifier.Dispatch(ctx, event)
}

// ParseDueAt combines a YYYY-MM-DD date and an optional HH:MM time. A date
// without a time means the end of that day. RFC 3339 timestamps are accepted
// as they are.
func ParseDueAt(date, clock string, location *time.Location) (*time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, date); err == nil {
		ts = ts.UTC()
		return &ts, nil
	}

	day, err := time.ParseInLocation("2006-01-02", date, location)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	var dueAt time.Time
	if clock == "" {
		dueAt = day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	} else {
		at, err := time.Parse("15:04", clock)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		dueAt = day.Add(time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute)
	}
	dueAt = dueAt.UTC()
	return &dueAt, nil
}

func normalizeCategory(category Category) (Category, error) {
	category = Category(strings.ToLower(strings.TrimSpace(string(category))))
	if category == "" {
		return CategoryOther, nil
	}
	if !categories[category] {
		return "", ErrInvalidCategory
	}
	return category, nil
}

func normalizeType(choreType Type) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(string(choreType)))) {
	case "", TypeInside:
		return TypeInside, nil
	case TypeOutside:
		return TypeOutside, nil
	default:
		return "", ErrInvalidType
	}
}

func sortNewestFirst(list []Chore) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
