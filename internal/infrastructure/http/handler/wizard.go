package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/infrastructure/http/response"
	"github.com/parishdesk/parishdesk/internal/schedule"
)

// SessionTemplateDTO carries the shared attributes applied to every
// generated draft. Start and end times are "15:04" clock-of-day strings; the
// calendar day comes from each resolved date.
type SessionTemplateDTO struct {
	BaseName  string             `json:"base_name,omitempty"`
	StartTime string             `json:"start_time"`
	EndTime   string             `json:"end_time"`
	Settings  SessionSettingsDTO `json:"settings"`
}

// PreviewSessionsRequest is the request body for POST /v1/sessions/preview.
// Dates are plain calendar dates ("2006-01-02").
type PreviewSessionsRequest struct {
	OccasionID  string             `json:"occasion_id"`
	Mode        string             `json:"mode"`
	Date        *string            `json:"date,omitempty"`
	ManualDates []string           `json:"manual_dates,omitempty"`
	Option      string             `json:"option,omitempty"`
	CustomStart *string            `json:"custom_start,omitempty"`
	CustomEnd   *string            `json:"custom_end,omitempty"`
	Template    SessionTemplateDTO `json:"template"`
}

// PreviewSessionsResponse is the response body for POST /v1/sessions/preview.
type PreviewSessionsResponse struct {
	Drafts []DraftSessionDTO `json:"drafts"`
}

// SubmitSessionsRequest is the request body for POST /v1/sessions. Drafts
// come back from a preview, possibly edited or pruned by the user.
type SubmitSessionsRequest struct {
	Drafts []DraftSessionDTO `json:"drafts"`
}

// SubmitSessionsResponse is the response body for POST /v1/sessions. Created
// maps each draft token to the persisted session with its server ID.
type SubmitSessionsResponse struct {
	Sessions []SessionDTO      `json:"sessions"`
	Created  map[string]string `json:"created"`
}

// PreviewSessions handles POST /v1/sessions/preview. It resolves target dates
// for the requested mode and returns unsaved drafts; nothing is persisted.
func (h *ScheduleHandler) PreviewSessions(w http.ResponseWriter, r *http.Request) {
	var req PreviewSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	occasion, err := h.service.GetOccasion(r.Context(), req.OccasionID)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	genReq, err := buildGenerateRequest(occasion, req)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	drafts, err := schedule.NewWizard().Generate(genReq)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "session drafts generated via HTTP",
		"occasion_id", occasion.ID,
		"mode", req.Mode,
		"draft_count", len(drafts))

	dtos := make([]DraftSessionDTO, len(drafts))
	for i, draft := range drafts {
		dtos[i] = MapDraftToDTO(draft)
	}

	response.OK(w, PreviewSessionsResponse{Drafts: dtos})
}

// buildGenerateRequest converts the wire request into a wizard request.
func buildGenerateRequest(occasion *domain.Occasion, req PreviewSessionsRequest) (schedule.GenerateRequest, error) {
	genReq := schedule.GenerateRequest{
		Occasion: occasion,
		Mode:     schedule.Mode(req.Mode),
		Option:   domain.BulkDurationOption(req.Option),
		Now:      time.Now().UTC(),
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return schedule.GenerateRequest{}, err
		}
		genReq.Date = &date
	}
	for _, raw := range req.ManualDates {
		date, err := parseDate(raw)
		if err != nil {
			return schedule.GenerateRequest{}, err
		}
		genReq.ManualDates = append(genReq.ManualDates, date)
	}
	if req.CustomStart != nil {
		start, err := parseDate(*req.CustomStart)
		if err != nil {
			return schedule.GenerateRequest{}, err
		}
		genReq.CustomStart = &start
	}
	if req.CustomEnd != nil {
		end, err := parseDate(*req.CustomEnd)
		if err != nil {
			return schedule.GenerateRequest{}, err
		}
		genReq.CustomEnd = &end
	}

	startClock, err := parseClock(req.Template.StartTime)
	if err != nil {
		return schedule.GenerateRequest{}, err
	}
	endClock, err := parseClock(req.Template.EndTime)
	if err != nil {
		return schedule.GenerateRequest{}, err
	}

	genReq.Template = schedule.SessionTemplate{
		OccasionName: occasion.Name,
		BaseName:     req.Template.BaseName,
		StartTime:    startClock,
		EndTime:      endClock,
		Settings:     mapSettingsFromDTO(req.Template.Settings),
	}

	return genReq, nil
}

// SubmitSessions handles POST /v1/sessions. Drafts are persisted together;
// on conflict nothing is saved and the 409 body carries the conflict message
// so the client can render the panel.
func (h *ScheduleHandler) SubmitSessions(w http.ResponseWriter, r *http.Request) {
	var req SubmitSessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	drafts := make([]schedule.DraftSession, len(req.Drafts))
	for i, dto := range req.Drafts {
		drafts[i] = schedule.DraftSession{
			Token:      dto.Token,
			OccasionID: dto.OccasionID,
			Name:       dto.Name,
			StartTime:  dto.StartTime,
			EndTime:    dto.EndTime,
			Settings:   mapSettingsFromDTO(dto.Settings),
		}
	}

	created, err := h.service.SubmitDrafts(r.Context(), drafts)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to submit session drafts via HTTP",
			"draft_count", len(drafts),
			"error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "sessions created via HTTP", "count", len(created))

	sessions := make([]SessionDTO, len(created))
	tokenToID := make(map[string]string, len(created))
	for i, session := range created {
		sessions[i] = MapSessionToDTO(session)
		tokenToID[drafts[i].Token] = session.ID
	}

	response.Created(w, SubmitSessionsResponse{
		Sessions: sessions,
		Created:  tokenToID,
	})
}
