package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/ics"
	"github.com/parishdesk/parishdesk/internal/infrastructure/http/response"
)

// CreateOccasionRequest is the request body for POST /v1/occasions.
type CreateOccasionRequest struct {
	Name       string             `json:"name"`
	Recurrence *RecurrenceRuleDTO `json:"recurrence,omitempty"`
}

// UpdateOccasionRequest is the request body for PATCH /v1/occasions/{id}.
type UpdateOccasionRequest struct {
	UpdateMask []string           `json:"update_mask"`
	Etag       *string            `json:"etag,omitempty"`
	Name       *string            `json:"name,omitempty"`
	Recurrence *RecurrenceRuleDTO `json:"recurrence,omitempty"`
}

// ListOccasionsResponse is the response body for GET /v1/occasions.
type ListOccasionsResponse struct {
	Occasions     []OccasionDTO `json:"occasions"`
	NextPageToken *string       `json:"next_page_token,omitempty"`
}

// CreateOccasion handles POST /v1/occasions.
func (h *ScheduleHandler) CreateOccasion(w http.ResponseWriter, r *http.Request) {
	var req CreateOccasionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	rule, err := mapRuleFromDTO(req.Recurrence)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	created, err := h.service.CreateOccasion(r.Context(), req.Name, rule)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create occasion via HTTP",
			"name", req.Name,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "occasion created via HTTP", "occasion_id", created.ID)

	response.Created(w, MapOccasionToDTO(created))
}

// GetOccasion handles GET /v1/occasions/{occasionID}.
func (h *ScheduleHandler) GetOccasion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "occasionID")

	occasion, err := h.service.GetOccasion(r.Context(), id)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapOccasionToDTO(occasion))
}

// ListOccasions handles GET /v1/occasions.
func (h *ScheduleHandler) ListOccasions(w http.ResponseWriter, r *http.Request) {
	offset := parsePageToken(r.URL.Query().Get("page_token"))

	params := domain.ListOccasionsParams{
		Limit:  getPageSize(r),
		Offset: offset,
	}
	if name := r.URL.Query().Get("name"); name != "" {
		params.NameContains = &name
	}

	result, err := h.service.ListOccasions(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list occasions via HTTP",
			"offset", offset,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]OccasionDTO, len(result.Occasions))
	for i, occasion := range result.Occasions {
		dtos[i] = MapOccasionToDTO(occasion)
	}

	response.OK(w, ListOccasionsResponse{
		Occasions:     dtos,
		NextPageToken: generatePageToken(offset+len(dtos), result.HasMore),
	})
}

// UpdateOccasion handles PATCH /v1/occasions/{occasionID}.
func (h *ScheduleHandler) UpdateOccasion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "occasionID")

	var req UpdateOccasionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateOccasionParams{
		OccasionID: id,
		Etag:       req.Etag,
		UpdateMask: req.UpdateMask,
	}

	for _, field := range params.UpdateMask {
		switch field {
		case domain.FieldOccasionName:
			params.Name = req.Name
		case domain.FieldRecurrence:
			rule, err := mapRuleFromDTO(req.Recurrence)
			if err != nil {
				response.BadRequest(w, err.Error())
				return
			}
			params.Recurrence = rule
		}
	}

	updated, err := h.service.UpdateOccasion(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to update occasion via HTTP",
			"occasion_id", id,
			"update_mask", params.UpdateMask,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapOccasionToDTO(updated))
}

// DeleteOccasion handles DELETE /v1/occasions/{occasionID}.
func (h *ScheduleHandler) DeleteOccasion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "occasionID")

	if err := h.service.DeleteOccasion(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "failed to delete occasion via HTTP",
			"occasion_id", id,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "occasion deleted via HTTP", "occasion_id", id)

	response.NoContent(w)
}

// OccasionCalendar handles GET /v1/occasions/{occasionID}/calendar.ics. It
// serves the occasion's sessions as an iCalendar feed.
func (h *ScheduleHandler) OccasionCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "occasionID")

	occasion, err := h.service.GetOccasion(r.Context(), id)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	// Page through the occasion's sessions up to the feed cap; page size is
	// clamped by the service, so one request is rarely enough.
	var sessions []domain.Session
	offset := 0
	for len(sessions) < ics.FeedSessionLimit {
		page, err := h.service.ListSessions(r.Context(), domain.ListSessionsParams{
			OccasionID: &occasion.ID,
			Offset:     offset,
		})
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to list sessions for calendar feed",
				"occasion_id", id,
				"error", err)
			response.FromDomainError(w, r, err)
			return
		}
		sessions = append(sessions, page.Sessions...)
		if !page.HasMore || len(page.Sessions) == 0 {
			break
		}
		offset += len(page.Sessions)
	}
	if len(sessions) > ics.FeedSessionLimit {
		sessions = sessions[:ics.FeedSessionLimit]
	}

	w.Header().Set("Content-Type", ics.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ics.Feed(occasion, sessions))); err != nil {
		slog.ErrorContext(r.Context(), "failed to write calendar feed", "error", err)
	}
}
