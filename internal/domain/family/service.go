package family

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"strings"
	"time"

	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	shareCodeLength   = 6
	shareCodeAttempts = 10
	membersCacheTTL   = time.Minute
	defaultFamilyName = "My Family"
)

// Mailer delivers family invitations.
type Mailer interface {
	SendFamilyInvitation(ctx context.Context, to, familyName, shareCode string) error
}

type Service struct {
	repo   Repository
	cache  Cache
	mailer Mailer
	log    logger.Logger
}

func NewService(repo Repository, cache Cache, mailer Mailer, log logger.Logger) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, mailer: mailer, log: log}
}

// EnsureParent returns the parent record for an authenticated user, creating
// a single-member family on first sight.
func (s *Service) EnsureParent(ctx context.Context, userID, email string) (*Parent, error) {
	parent, err := s.repo.GetParent(ctx, userID)
	if err == nil {
		return parent, nil
	}
	if !errors.Is(err, ErrParentNotFound) {
		return nil, err
	}

	var created Parent
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		created = Parent{
			ID:            userID,
			Email:         strings.TrimSpace(email),
			FamilyName:    defaultFamilyName,
			ShareCode:     code,
			FamilyID:      uuid.NewString(),
			FamilyMembers: []string{userID},
			Children:      []string{},
		}
		return tx.CreateParent(ctx, &created)
	})
	if err != nil {
		// A concurrent first request may have created the row already.
		if existing, getErr := s.repo.GetParent(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.log.Info("families.ensure_parent: parent created", "user_id", userID, "share_code", created.ShareCode)
	return &created, nil
}

// UpsertProfile lets the auth middleware provision parents.
func (s *Service) UpsertProfile(ctx context.Context, userID, email string) error {
	_, err := s.EnsureParent(ctx, userID, email)
	return err
}

func (s *Service) GetParent(ctx context.Context, userID string) (*Parent, error) {
	return s.repo.GetParent(ctx, userID)
}

func (s *Service) ParentEmail(ctx context.Context, parentID string) (string, error) {
	parent, err := s.repo.GetParent(ctx, parentID)
	if err != nil {
		return "", err
	}
	return parent.Email, nil
}

func (s *Service) UpdateFamilyName(ctx context.Context, userID, name string) (*Parent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFamilyNameRequired
	}

	parent, err := s.repo.GetParent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFamilyName(ctx, parent.ShareCode, name); err != nil {
		return nil, err
	}

	parent.FamilyName = name
	return parent, nil
}

func (s *Service) ValidateShareCode(ctx context.Context, code string) (*Preview, error) {
	code, err := normalizeShareCode(code)
	if err != nil {
		return nil, err
	}

	parents, err := s.repo.ListParentsByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, ErrShareCodeNotFound
	}

	return &Preview{
		FamilyName:  parents[0].FamilyName,
		ShareCode:   code,
		MemberCount: len(parents),
	}, nil
}

// JoinFamily attaches userID to the family owning code. The joiner's record
// and every existing member's member list are written in one transaction.
func (s *Service) JoinFamily(ctx context.Context, userID, code string) (*Parent, error) {
	code, err := normalizeShareCode(code)
	if err != nil {
		return nil, err
	}

	var result Parent
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		inviting, err := tx.FindParentByShareCode(ctx, code)
		if err != nil {
			return err
		}

		members := []string(inviting.FamilyMembers)
		if len(members) == 0 {
			members = []string{inviting.ID}
		}
		if contains(members, userID) || inviting.ID == userID {
			return ErrAlreadyInFamily
		}

		locked, err := tx.LockParents(ctx, append([]string{userID}, members...))
		if err != nil {
			return err
		}

		var joiner *Parent
		for i := range locked {
			if locked[i].ID == userID {
				joiner = &locked[i]
			}
		}
		if joiner == nil {
			return ErrParentNotFound
		}
		if len(joiner.FamilyMembers) > 1 {
			return ErrAlreadyInFamily
		}

		newMembers := union(members, []string{userID})
		children := union(inviting.Children, joiner.Children)

		joiner.ShareCode = inviting.ShareCode
		joiner.FamilyID = inviting.FamilyID
		joiner.FamilyName = inviting.FamilyName
		joiner.FamilyMembers = newMembers
		joiner.Children = children
		if err := tx.UpdateParent(ctx, joiner); err != nil {
			return err
		}

		for i := range locked {
			member := &locked[i]
			if member.ID == userID {
				continue
			}
			member.FamilyMembers = union(member.FamilyMembers, []string{userID})
			member.Children = union(member.Children, joiner.Children)
			if err := tx.UpdateParent(ctx, member); err != nil {
				return err
			}
		}

		result = *joiner
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Clear()
	s.log.Info("families.join: parent joined family", "user_id", userID, "family_id", result.FamilyID)
	return &result, nil
}

// SyncFamily recomputes the caller's member and children lists from the
// parents sharing their code and overwrites them only on drift.
func (s *Service) SyncFamily(ctx context.Context, userID string) (*SyncResult, error) {
	parent, err := s.repo.GetParent(ctx, userID)
	if err != nil {
		return nil, err
	}

	peers, err := s.repo.ListParentsByShareCode(ctx, parent.ShareCode)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(peers)+1)
	for _, peer := range peers {
		members = append(members, peer.ID)
	}
	members = union(members, []string{parent.ID})
	sort.Strings(members)

	children, err := s.repo.ListChildIDsByParents(ctx, members)
	if err != nil {
		return nil, err
	}
	children = union(children, nil)
	sort.Strings(children)

	result := &SyncResult{Members: members, Children: children}
	if sameSet(parent.FamilyMembers, members) && sameSet(parent.Children, children) {
		return result, nil
	}

	if err := s.repo.SetFamilyArrays(ctx, parent.ID, members, children); err != nil {
		return nil, err
	}
	s.cache.DeleteMembers(parent.ID)
	s.log.Info("families.sync: drift corrected", "user_id", userID, "members", len(members), "children", len(children))

	result.Updated = true
	return result, nil
}

func (s *Service) ListMembers(ctx context.Context, userID string) ([]Member, error) {
	parent, err := s.repo.GetParent(ctx, userID)
	if err != nil {
		return nil, err
	}

	peers, err := s.repo.ListParentsByShareCode(ctx, parent.ShareCode)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(peers))
	for _, peer := range peers {
		members = append(members, Member{ID: peer.ID, Email: peer.Email, JoinedAt: peer.CreatedAt})
	}
	return members, nil
}

// FamilyMemberIDs returns every parent id in the caller's family, the caller
// included.
func (s *Service) FamilyMemberIDs(ctx context.Context, parentID string) ([]string, error) {
	if members, ok := s.cache.GetMembers(parentID); ok {
		return members, nil
	}

	parent, err := s.repo.GetParent(ctx, parentID)
	if err != nil {
		return nil, err
	}

	peers, err := s.repo.ListParentsByShareCode(ctx, parent.ShareCode)
	if err != nil {
		return nil, err
	}
	members := []string{parent.ID}
	for _, peer := range peers {
		members = union(members, []string{peer.ID})
	}

	s.cache.SetMembers(parentID, members, membersCacheTTL)
	return members, nil
}

func (s *Service) InviteByEmail(ctx context.Context, userID, email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	parent, err := s.repo.GetParent(ctx, userID)
	if err != nil {
		return err
	}
	if s.mailer == nil {
		s.log.Warn("families.invite: mailer not configured", "user_id", userID)
		return nil
	}
	return s.mailer.SendFamilyInvitation(ctx, email, parent.FamilyName, parent.ShareCode)
}

func normalizeShareCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != shareCodeLength {
		return "", ErrInvalidShareCode
	}
	return code, nil
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < shareCodeAttempts; i++ {
		code, err := GenerateCode(shareCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsShareCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

// GenerateCode returns a random uppercase code without look-alike characters.
func GenerateCode(length int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// union keeps the order of a and appends unseen values of b.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	result := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

func sameSet(a, b []string) bool {
	left := union(a, nil)
	right := union(b, nil)
	if len(left) != len(right) {
		return false
	}
	set := make(map[string]struct{}, len(left))
	for _, v := range left {
		set[v] = struct{}{}
	}
	for _, v := range right {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
