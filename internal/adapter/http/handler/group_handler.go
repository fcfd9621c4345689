package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gosettle/internal/adapter/http/dto"
	"github.com/iho/gosettle/internal/domain"
	"github.com/iho/gosettle/internal/usecase"
)

// GroupService defines the behavior needed by GroupHandler.
type GroupService interface {
	CreateGroup(ctx context.Context, input usecase.CreateGroupInput) (*domain.Group, error)
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	ListGroups(ctx context.Context, input usecase.ListGroupsInput) ([]*domain.Group, error)
	AddMember(ctx context.Context, groupID string, member domain.Address) (*domain.Group, error)
	RemoveMember(ctx context.Context, groupID string, member domain.Address) error
}

// GroupHandler handles group-related HTTP requests.
type GroupHandler struct {
	groupUC GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupUC GroupService) *GroupHandler {
	return &GroupHandler{groupUC: groupUC}
}

// Create creates a new group.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group request", err.Error())
		return
	}

	group, err := h.groupUC.CreateGroup(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create group", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupFromDomain(group))
}

// Get retrieves a group by ID.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	group, err := h.groupUC.GetGroup(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get group", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}

// List lists groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	groups, err := h.groupUC.ListGroups(r.Context(), usecase.ListGroupsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list groups", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListGroupsResponse{
		Groups: dto.GroupsFromDomain(groups),
		Total:  int64(len(groups)),
	})
}

// AddMember appends a member to the group roster.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := req.Address()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member address", err.Error())
		return
	}

	group, err := h.groupUC.AddMember(r.Context(), id, member)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add member", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}

// RemoveMember drops a member from the group roster. Members with
// recorded history cannot be removed.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing group ID", "")
		return
	}

	member, err := domain.ParseAddress(chi.URLParam(r, "member"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member address", err.Error())
		return
	}

	if err := h.groupUC.RemoveMember(r.Context(), id, member); err != nil {
		writeError(w, mapDomainError(err), "failed to remove member", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
