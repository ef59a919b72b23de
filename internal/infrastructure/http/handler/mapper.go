package handler

import (
	"fmt"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/parishdesk/parishdesk/internal/schedule"
)

// RecurrenceRuleDTO is the wire representation of a recurrence rule. Rule
// dates are plain calendar dates ("2006-01-02"); by_weekday uses Go weekday
// numbering (0 = Sunday). A null by_weekday means "anchor weekday".
type RecurrenceRuleDTO struct {
	Frequency string  `json:"frequency"`
	Interval  int     `json:"interval"`
	ByWeekday []int   `json:"by_weekday"`
	StartDate string  `json:"start_date"`
	Until     *string `json:"until,omitempty"`
	Count     *int    `json:"count,omitempty"`
}

// OccasionDTO is the wire representation of an occasion.
type OccasionDTO struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Recurrence *RecurrenceRuleDTO `json:"recurrence,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Etag       string             `json:"etag"`
}

// SessionSettingsDTO is the wire representation of session settings.
type SessionSettingsDTO struct {
	Open             bool     `json:"open"`
	PublicMarking    bool     `json:"public_marking"`
	SelfMarking      bool     `json:"self_marking"`
	RequireProximity bool     `json:"require_proximity"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	RadiusMeters     *int     `json:"radius_meters,omitempty"`
	AllowedTagIDs    []string `json:"allowed_tag_ids,omitempty"`
	AllowedGroupIDs  []string `json:"allowed_group_ids,omitempty"`
	AllowedMemberIDs []string `json:"allowed_member_ids,omitempty"`
}

// SessionDTO is the wire representation of a session.
type SessionDTO struct {
	ID         string             `json:"id"`
	OccasionID string             `json:"occasion_id"`
	Name       string             `json:"name"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	Settings   SessionSettingsDTO `json:"settings"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Etag       string             `json:"etag"`
}

// DraftSessionDTO is the wire representation of an unsaved draft. Token is a
// preview-local identifier, never a server-assigned session ID.
type DraftSessionDTO struct {
	Token      string             `json:"token"`
	OccasionID string             `json:"occasion_id"`
	Name       string             `json:"name"`
	StartTime  time.Time          `json:"start_time"`
	EndTime    time.Time          `json:"end_time"`
	Settings   SessionSettingsDTO `json:"settings"`
}

// MapOccasionToDTO converts a domain occasion to its wire form.
func MapOccasionToDTO(o *domain.Occasion) OccasionDTO {
	return OccasionDTO{
		ID:         o.ID,
		Name:       o.Name,
		Recurrence: mapRuleToDTO(o.Recurrence),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Etag:       o.Etag(),
	}
}

func mapRuleToDTO(rule *domain.RecurrenceRule) *RecurrenceRuleDTO {
	if rule == nil {
		return nil
	}
	dto := &RecurrenceRuleDTO{
		Frequency: string(rule.Frequency),
		Interval:  rule.Interval,
		StartDate: rule.StartDate.Format(time.DateOnly),
		Count:     rule.Count,
	}
	if rule.ByWeekday != nil {
		dto.ByWeekday = make([]int, 0, len(rule.ByWeekday))
		for _, wd := range rule.ByWeekday {
			dto.ByWeekday = append(dto.ByWeekday, int(wd))
		}
	}
	if rule.Until != nil {
		s := rule.Until.Format(time.DateOnly)
		dto.Until = &s
	}
	return dto
}

// mapRuleFromDTO converts a wire rule to its domain form. Structural
// validation happens in the domain layer, not here.
func mapRuleFromDTO(dto *RecurrenceRuleDTO) (*domain.RecurrenceRule, error) {
	if dto == nil {
		return nil, nil
	}
	startDate, err := parseDate(dto.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	rule := &domain.RecurrenceRule{
		Frequency: domain.Frequency(dto.Frequency),
		Interval:  dto.Interval,
		StartDate: startDate,
		Count:     dto.Count,
	}
	if dto.ByWeekday != nil {
		rule.ByWeekday = make([]time.Weekday, 0, len(dto.ByWeekday))
		for _, wd := range dto.ByWeekday {
			rule.ByWeekday = append(rule.ByWeekday, time.Weekday(wd))
		}
	}
	if dto.Until != nil {
		until, err := parseDate(*dto.Until)
		if err != nil {
			return nil, fmt.Errorf("invalid until: %w", err)
		}
		rule.Until = &until
	}
	return rule, nil
}

// MapSessionToDTO converts a domain session to its wire form.
func MapSessionToDTO(s *domain.Session) SessionDTO {
	return SessionDTO{
		ID:         s.ID,
		OccasionID: s.OccasionID,
		Name:       s.Name,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Settings:   mapSettingsToDTO(s.Settings),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		Etag:       s.Etag(),
	}
}

func mapSettingsToDTO(s domain.SessionSettings) SessionSettingsDTO {
	return SessionSettingsDTO(s)
}

func mapSettingsFromDTO(dto SessionSettingsDTO) domain.SessionSettings {
	return domain.SessionSettings(dto)
}

// MapDraftToDTO converts a wizard draft to its wire form.
func MapDraftToDTO(d schedule.DraftSession) DraftSessionDTO {
	return DraftSessionDTO{
		Token:      d.Token,
		OccasionID: d.OccasionID,
		Name:       d.Name,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		Settings:   mapSettingsToDTO(d.Settings),
	}
}

// parseDate parses a plain calendar date and pins it to midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// parseClock parses a "15:04" clock-of-day string into a time carrier whose
// only meaningful components are hour and minute.
func parseClock(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}
