package handlers

import (
	"net/http"
	"strconv"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// FamilyHandler handles family and invite HTTP requests
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

type createFamilyRequest struct {
	Name string `json:"name"`
}

// CreateFamily creates a family owned by the caller
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	family, err := h.familyService.CreateFamily(req.Name, user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, family)
}

// ListFamilies returns every family the caller belongs to
func (h *FamilyHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	families, err := h.familyService.GetUserFamilies(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if families == nil {
		families = []models.Family{}
	}
	respondJSON(w, http.StatusOK, families)
}

type inviteMemberRequest struct {
	InviteEmail string `json:"inviteEmail"`
	Role        string `json:"role"`
}

// inviteMemberResponse is the created membership plus the shareable link
type inviteMemberResponse struct {
	*models.FamilyMember
	InviteURL string `json:"inviteUrl"`
}

// InviteMember invites an email address into a family
func (h *FamilyHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := strconv.ParseInt(r.PathValue("familyId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid family id")
		return
	}

	var req inviteMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, inviteURL, err := h.familyService.InviteMember(r.Context(), familyID, user.ID, req.InviteEmail, req.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, inviteMemberResponse{
		FamilyMember: member,
		InviteURL:    inviteURL,
	})
}

// ListMembers returns the members of a family the caller belongs to
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := strconv.ParseInt(r.PathValue("familyId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid family id")
		return
	}

	members, err := h.familyService.GetFamilyMembers(familyID, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if members == nil {
		members = []models.FamilyMember{}
	}
	respondJSON(w, http.StatusOK, members)
}

// VerifyInvite resolves an invite token to its family so the client can show
// context before the user logs in. No authentication required.
func (h *FamilyHandler) VerifyInvite(w http.ResponseWriter, r *http.Request) {
	member, err := h.familyService.VerifyInvite(r.PathValue("token"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"familyId": member.FamilyID})
}

// AcceptInvite binds a pending invite to the authenticated caller
func (h *FamilyHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	member, err := h.familyService.AcceptInvite(r.PathValue("token"), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}
