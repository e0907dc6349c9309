package handlers

import (
	"net/http"
	"strconv"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// ActivityHandler handles activity HTTP requests
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

type createActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	FamilyID    int64  `json:"familyId"`
	AssignedTo  int64  `json:"assignedTo"`
	IsAllDay    bool   `json:"isAllDay"`
}

// Create adds an activity to a family the caller belongs to
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "startDate must be an RFC 3339 timestamp")
		return
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "endDate must be an RFC 3339 timestamp")
			return
		}
		endDate = &parsed
	}

	activity, err := h.activityService.CreateActivity(service.NewActivity{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartDate:   startDate,
		EndDate:     endDate,
		FamilyID:    req.FamilyID,
		AssignedTo:  req.AssignedTo,
		IsAllDay:    req.IsAllDay,
	}, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// List returns a family's recent activities, newest first
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	familyID, err := strconv.ParseInt(r.URL.Query().Get("familyId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "familyId query parameter is required")
		return
	}

	activities, err := h.activityService.GetFamilyActivities(familyID, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if activities == nil {
		activities = []models.Activity{}
	}
	respondJSON(w, http.StatusOK, activities)
}

// Complete marks an activity done. Completing an already-completed activity
// succeeds without change.
func (h *ActivityHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	activityID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid activity id")
		return
	}

	activity, err := h.activityService.CompleteActivity(activityID, user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activity)
}
