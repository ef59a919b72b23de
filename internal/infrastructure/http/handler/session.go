package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/infrastructure/http/response"
)

// UpdateSessionRequest is the request body for PATCH /v1/sessions/{id}.
type UpdateSessionRequest struct {
	UpdateMask []string            `json:"update_mask"`
	Etag       *string             `json:"etag,omitempty"`
	Name       *string             `json:"name,omitempty"`
	StartTime  *time.Time          `json:"start_time,omitempty"`
	EndTime    *time.Time          `json:"end_time,omitempty"`
	Open       *bool               `json:"open,omitempty"`
	Settings   *SessionSettingsDTO `json:"settings,omitempty"`
}

// ListSessionsResponse is the response body for GET /v1/sessions.
type ListSessionsResponse struct {
	Sessions      []SessionDTO `json:"sessions"`
	TotalCount    int          `json:"total_count"`
	NextPageToken *string      `json:"next_page_token,omitempty"`
}

// GetSession handles GET /v1/sessions/{sessionID}.
func (h *ScheduleHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	session, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapSessionToDTO(session))
}

// ListSessions handles GET /v1/sessions.
func (h *ScheduleHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	offset := parsePageToken(r.URL.Query().Get("page_token"))
	query := r.URL.Query()

	params := domain.ListSessionsParams{
		Limit:  getPageSize(r),
		Offset: offset,
	}
	if occasionID := query.Get("occasion_id"); occasionID != "" {
		params.OccasionID = &occasionID
	}
	if openRaw := query.Get("open"); openRaw != "" {
		open := openRaw == "true"
		params.Open = &open
	}
	if after := query.Get("start_after"); after != "" {
		t, err := time.Parse(time.RFC3339, after)
		if err != nil {
			response.BadRequest(w, "invalid start_after")
			return
		}
		params.StartAfter = &t
	}
	if before := query.Get("start_before"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			response.BadRequest(w, "invalid start_before")
			return
		}
		params.StartBefore = &t
	}

	result, err := h.service.ListSessions(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list sessions via HTTP",
			"offset", offset,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]SessionDTO, len(result.Sessions))
	for i := range result.Sessions {
		dtos[i] = MapSessionToDTO(&result.Sessions[i])
	}

	response.OK(w, ListSessionsResponse{
		Sessions:      dtos,
		TotalCount:    result.TotalCount,
		NextPageToken: generatePageToken(offset+len(dtos), result.HasMore),
	})
}

// UpdateSession handles PATCH /v1/sessions/{sessionID}.
func (h *ScheduleHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	params := domain.UpdateSessionParams{
		SessionID:  id,
		Etag:       req.Etag,
		UpdateMask: req.UpdateMask,
	}

	for _, field := range params.UpdateMask {
		switch field {
		case domain.FieldSessionName:
			params.Name = req.Name
		case domain.FieldStartTime:
			params.StartTime = req.StartTime
		case domain.FieldEndTime:
			params.EndTime = req.EndTime
		case domain.FieldOpen:
			params.Open = req.Open
		case domain.FieldSettings:
			if req.Settings != nil {
				settings := mapSettingsFromDTO(*req.Settings)
				params.Settings = &settings
			}
		}
	}

	updated, err := h.service.UpdateSession(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to update session via HTTP",
			"session_id", id,
			"update_mask", params.UpdateMask,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapSessionToDTO(updated))
}

// DeleteSession handles DELETE /v1/sessions/{sessionID}.
func (h *ScheduleHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	if err := h.service.DeleteSession(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "failed to delete session via HTTP",
			"session_id", id,
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "session deleted via HTTP", "session_id", id)

	response.NoContent(w)
}
