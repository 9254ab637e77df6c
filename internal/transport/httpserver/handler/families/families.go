package families

import (
	"net/http"
	"time"

	familydomain "family-chores-go/internal/domain/family"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type updateFamilyRequest struct {
	FamilyName string `json:"family_name" validate:"required,max=80"`
}

type joinFamilyRequest struct {
	ShareCode string `json:"share_code" validate:"required,len=6"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type parentResponse struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name,omitempty"`
	FamilyName    string   `json:"family_name"`
	ShareCode     string   `json:"share_code"`
	FamilyID      string   `json:"family_id"`
	FamilyMembers []string `json:"family_members"`
	Children      []string `json:"children"`
	IsAdmin       bool     `json:"is_admin"`
}

type previewResponse struct {
	FamilyName  string `json:"family_name"`
	ShareCode   string `json:"share_code"`
	MemberCount int    `json:"member_count"`
}

type memberResponse struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

type syncResponse struct {
	Members  []string `json:"members"`
	Children []string `json:"children"`
	Updated  bool     `json:"updated"`
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	parent, err := h.Families.GetParent(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "parents.me: get parent failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, h.toParentResponse(parent, user))
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req updateFamilyRequest
	if !common.Bind(w, r, &req) {
		return
	}

	parent, err := h.Families.UpdateFamilyName(r.Context(), user.ID, common.SanitizeText(req.FamilyName))
	if err != nil {
		common.WriteServiceError(w, h.log, "families.update: update failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, h.toParentResponse(parent, user))
}

// PreviewShareCode is public: it backs the join page shown before sign-in.
func (h *Handlers) PreviewShareCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "shareCode")

	preview, err := h.Families.ValidateShareCode(r.Context(), code)
	if err != nil {
		common.WriteServiceError(w, h.log, "families.preview: validate failed", err)
		return
	}

	common.WriteJSON(w, http.StatusOK, previewResponse{
		FamilyName:  preview.FamilyName,
		ShareCode:   preview.ShareCode,
		MemberCount: preview.MemberCount,
	})
}

func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req joinFamilyRequest
	if !common.Bind(w, r, &req) {
		return
	}

	parent, err := h.Families.JoinFamily(r.Context(), user.ID, req.ShareCode)
	if err != nil {
		common.WriteServiceError(w, h.log, "families.join: join failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, h.toParentResponse(parent, user))
}

func (h *Handlers) SyncFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	result, err := h.Families.SyncFamily(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "families.sync: sync failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, syncResponse{
		Members:  result.Members,
		Children: result.Children,
		Updated:  result.Updated,
	})
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	members, err := h.Families.ListMembers(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "families.members: list failed", err, "user_id", user.ID)
		return
	}

	resp := make([]memberResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, memberResponse{ID: member.ID, Email: member.Email, JoinedAt: member.JoinedAt})
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Invite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req inviteRequest
	if !common.Bind(w, r, &req) {
		return
	}

	if err := h.Families.InviteByEmail(r.Context(), user.ID, req.Email); err != nil {
		common.WriteServiceError(w, h.log, "families.invite: invite failed", err, "user_id", user.ID)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) toParentResponse(parent *familydomain.Parent, user middleware.User) parentResponse {
	return parentResponse{
		ID:            parent.ID,
		Email:         parent.Email,
		Name:          user.Name,
		FamilyName:    parent.FamilyName,
		ShareCode:     parent.ShareCode,
		FamilyID:      parent.FamilyID,
		FamilyMembers: nonNil(parent.FamilyMembers),
		Children:      nonNil(parent.Children),
		IsAdmin:       h.isAdmin != nil && h.isAdmin(parent.Email),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
