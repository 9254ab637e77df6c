package children

import (
	"context"
	"errors"
	"strings"
	"time"

	"family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	tokenLength   = 8
	tokenAttempts = 10
)

// FamilyDirectory resolves which parents share a family with a caller.
type FamilyDirectory interface {
	FamilyMemberIDs(ctx context.Context, parentID string) ([]string, error)
}

type Service struct {
	repo     Repository
	family   FamilyDirectory
	cache    Cache
	cacheTTL time.Duration
	sessions *Sessions
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, family FamilyDirectory, cache Cache, cacheTTL time.Duration, sessions *Sessions, log logger.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		repo:     repo,
		family:   family,
		cache:    cache,
		cacheTTL: cacheTTL,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) CreateChild(ctx context.Context, parentID string, input CreateInput) (*Child, error) {
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, ErrFirstNameRequired
	}

	members, err := s.family.FamilyMemberIDs(ctx, parentID)
	if err != nil {
		return nil, err
	}

	var result Child
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		token, err := generateUniqueToken(ctx, tx)
		if err != nil {
			return err
		}

		child := Child{
			ID:             uuid.NewString(),
			FirstName:      firstName,
			DateOfBirth:    input.DateOfBirth,
			ParentID:       parentID,
			Token:          token,
			TotalEarnings:  decimal.Zero,
			SavingsBucket:  decimal.Zero,
			ProfilePicture: input.ProfilePicture,
		}
		if err := tx.CreateChild(ctx, &child); err != nil {
			return err
		}
		if err := tx.AddChildToParents(ctx, members, child.ID); err != nil {
			return err
		}

		result = child
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("children.create: child created", "child_id", result.ID, "parent_id", parentID)
	return &result, nil
}

// GetByToken resolves a capability token, ignoring case.
func (s *Service) GetByToken(ctx context.Context, token string) (*Child, error) {
	token = normalizeToken(token)
	if len(token) != tokenLength {
		return nil, ErrChildNotFound
	}

	if childID, ok := s.cache.GetChildID(ctx, token); ok {
		child, err := s.repo.GetChild(ctx, childID)
		if err == nil && strings.EqualFold(child.Token, token) {
			return child, nil
		}
		s.cache.DeleteToken(ctx, token)
	}

	child, err := s.repo.GetChildByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	s.cache.SetChildID(ctx, token, child.ID, s.cacheTTL)
	return child, nil
}

func (s *Service) GetChild(ctx context.Context, childID string) (*Child, error) {
	return s.repo.GetChild(ctx, childID)
}

// GetFamilyChild loads a child owned by any parent of the caller's family.
// Children of other families are reported as not found.
func (s *Service) GetFamilyChild(ctx context.Context, parentID, childID string) (*Child, error) {
	child, err := s.repo.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, parentID, child); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *Service) ListFamilyChildren(ctx context.Context, parentID string) ([]Child, error) {
	members, err := s.family.FamilyMemberIDs(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListChildrenByParents(ctx, members)
}

func (s *Service) UpdateChild(ctx context.Context, parentID, childID string, input UpdateInput) (*Child, error) {
	child, err := s.GetFamilyChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		firstName := strings.TrimSpace(*input.FirstName)
		if firstName == "" {
			return nil, ErrFirstNameRequired
		}
		child.FirstName = firstName
	}
	if input.DateOfBirth != nil {
		child.DateOfBirth = input.DateOfBirth
	}
	if input.ProfilePicture != nil {
		child.ProfilePicture = input.ProfilePicture
	}

	if err := s.repo.UpdateChild(ctx, child); err != nil {
		return nil, err
	}
	return child, nil
}

// ResetEarnings zeroes a child's earnings total. Savings and goal progress
// are left as they are.
func (s *Service) ResetEarnings(ctx context.Context, parentID, childID string) (*Child, error) {
	if _, err := s.GetFamilyChild(ctx, parentID, childID); err != nil {
		return nil, err
	}

	var result Child
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		child, err := tx.LockChild(ctx, childID)
		if err != nil {
			return err
		}

		previous := child.TotalEarnings
		if err := tx.UpdateBalances(ctx, child.ID, decimal.Zero, child.SavingsBucket); err != nil {
			return err
		}
		if !previous.IsZero() {
			entry := ledger.NewEntry(child.ID, ledger.KindEarningsReset, ledger.AccountEarnings, previous.Neg(), parentID)
			if err := tx.AppendEntries(ctx, []ledger.Entry{entry}); err != nil {
				return err
			}
		}

		child.TotalEarnings = decimal.Zero
		result = *child
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("children.reset_earnings: earnings reset", "child_id", childID, "parent_id", parentID)
	return &result, nil
}

func (s *Service) RegenerateToken(ctx context.Context, parentID, childID string) (*Child, error) {
	child, err := s.GetFamilyChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}

	previous := child.Token
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		token, err := generateUniqueToken(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.UpdateToken(ctx, child.ID, token); err != nil {
			return err
		}
		child.Token = token
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteToken(ctx, normalizeToken(previous))
	return child, nil
}

// EnsureTokens backfills a token for every family child that lacks one and
// returns how many were assigned.
func (s *Service) EnsureTokens(ctx context.Context, parentID string) (int, error) {
	list, err := s.ListFamilyChildren(ctx, parentID)
	if err != nil {
		return 0, err
	}

	assigned := 0
	for _, child := range list {
		if strings.TrimSpace(child.Token) != "" {
			continue
		}
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			token, err := generateUniqueToken(ctx, tx)
			if err != nil {
				return err
			}
			return tx.UpdateToken(ctx, child.ID, token)
		})
		if err != nil {
			return assigned, err
		}
		assigned++
	}

	if assigned > 0 {
		s.log.Info("children.ensure_tokens: tokens assigned", "parent_id", parentID, "count", assigned)
	}
	return assigned, nil
}

// DeleteChild removes the child from every parent's children list and
// deletes it. Chores, goals and ledger entries go with it.
func (s *Service) DeleteChild(ctx context.Context, parentID, childID string) error {
	child, err := s.GetFamilyChild(ctx, parentID, childID)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.RemoveChildFromParents(ctx, child.ID); err != nil {
			return err
		}
		return tx.DeleteChild(ctx, child.ID)
	})
	if err != nil {
		return err
	}

	s.cache.DeleteToken(ctx, normalizeToken(child.Token))
	s.log.Info("children.delete: child deleted", "child_id", childID, "parent_id", parentID)
	return nil
}

// IssueSession exchanges a capability token for a signed session.
func (s *Service) IssueSession(ctx context.Context, token string) (*Session, error) {
	child, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	signed, expiresAt, err := s.sessions.Issue(*child, s.now())
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, ExpiresAt: expiresAt, Child: *child}, nil
}

// ResolveSession verifies a session token and loads its child. Sessions
// issued for a since-regenerated capability token are rejected.
func (s *Service) ResolveSession(ctx context.Context, token string) (*Child, error) {
	claims, err := s.sessions.Parse(token)
	if err != nil {
		return nil, err
	}

	child, err := s.repo.GetChild(ctx, claims.ChildID)
	if err != nil {
		if errors.Is(err, ErrChildNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if TokenFingerprint(child.Token) != claims.Fingerprint {
		return nil, ErrInvalidSession
	}
	return child, nil
}

func (s *Service) authorize(ctx context.Context, parentID string, child *Child) error {
	if child.ParentID == parentID {
		return nil
	}
	members, err := s.family.FamilyMemberIDs(ctx, parentID)
	if err != nil {
		return err
	}
	for _, member := range members {
		if member == child.ParentID {
			return nil
		}
	}
	return ErrChildNotFound
}

func generateUniqueToken(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < tokenAttempts; i++ {
		token, err := family.GenerateCode(tokenLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsTokenTaken(ctx, token)
		if err != nil {
			return "", err
		}
		if !taken {
			return token, nil
		}
	}
	return "", ErrTokenGenerationFailed
}

func normalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}
