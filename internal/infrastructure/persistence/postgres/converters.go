package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
)

// recurrenceRow is the JSONB shape recurrence rules are stored as. Dates are
// kept as RFC 3339 strings so the column stays human-readable.
type recurrenceRow struct {
	Frequency string  `json:"frequency"`
	Interval  int     `json:"interval"`
	ByWeekday []int   `json:"by_weekday,omitempty"`
	StartDate string  `json:"start_date"`
	Until     *string `json:"until,omitempty"`
	Count     *int    `json:"count,omitempty"`
}

func marshalRecurrence(rule *domain.RecurrenceRule) ([]byte, error) {
	if rule == nil {
		return nil, nil
	}
	row := recurrenceRow{
		Frequency: string(rule.Frequency),
		Interval:  rule.Interval,
		StartDate: rule.StartDate.UTC().Format(time.RFC3339),
		Count:     rule.Count,
	}
	if rule.ByWeekday != nil {
		row.ByWeekday = make([]int, 0, len(rule.ByWeekday))
		for _, wd := range rule.ByWeekday {
			row.ByWeekday = append(row.ByWeekday, int(wd))
		}
	}
	if rule.Until != nil {
		s := rule.Until.UTC().Format(time.RFC3339)
		row.Until = &s
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recurrence rule: %w", err)
	}
	return data, nil
}

func unmarshalRecurrence(data []byte) (*domain.RecurrenceRule, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var row recurrenceRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recurrence rule: %w", err)
	}
	startDate, err := time.Parse(time.RFC3339, row.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recurrence start date: %w", err)
	}
	rule := &domain.RecurrenceRule{
		Frequency: domain.Frequency(row.Frequency),
		Interval:  row.Interval,
		StartDate: startDate,
		Count:     row.Count,
	}
	if row.ByWeekday != nil {
		rule.ByWeekday = make([]time.Weekday, 0, len(row.ByWeekday))
		for _, wd := range row.ByWeekday {
			rule.ByWeekday = append(rule.ByWeekday, time.Weekday(wd))
		}
	}
	if row.Until != nil {
		until, err := time.Parse(time.RFC3339, *row.Until)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recurrence until date: %w", err)
		}
		rule.Until = &until
	}
	return rule, nil
}

// settingsRow is the JSONB shape session settings are stored as. The open
// flag lives in its own column so the auto-close worker can index on it.
type settingsRow struct {
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

func marshalSettings(settings domain.SessionSettings) ([]byte, error) {
	row := settingsRow{
		PublicMarking:    settings.PublicMarking,
		SelfMarking:      settings.SelfMarking,
		RequireProximity: settings.RequireProximity,
		Latitude:         settings.Latitude,
		Longitude:        settings.Longitude,
		RadiusMeters:     settings.RadiusMeters,
		AllowedTagIDs:    settings.AllowedTagIDs,
		AllowedGroupIDs:  settings.AllowedGroupIDs,
		AllowedMemberIDs: settings.AllowedMemberIDs,
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session settings: %w", err)
	}
	return data, nil
}

func unmarshalSettings(data []byte, open bool) (domain.SessionSettings, error) {
	var row settingsRow
	if len(data) > 0 {
		if err := json.Unmarshal(data, &row); err != nil {
			return domain.SessionSettings{}, fmt.Errorf("failed to unmarshal session settings: %w", err)
		}
	}
	return domain.SessionSettings{
		Open:             open,
		PublicMarking:    row.PublicMarking,
		SelfMarking:      row.SelfMarking,
		RequireProximity: row.RequireProximity,
		Latitude:         row.Latitude,
		Longitude:        row.Longitude,
		RadiusMeters:     row.RadiusMeters,
		AllowedTagIDs:    row.AllowedTagIDs,
		AllowedGroupIDs:  row.AllowedGroupIDs,
		AllowedMemberIDs: row.AllowedMemberIDs,
	}, nil
}
