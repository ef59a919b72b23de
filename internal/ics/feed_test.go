package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/parishdesk/parishdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed(t *testing.T) {
	occasion := &domain.Occasion{ID: "occ-1", Name: "Sunday Service"}
	sessions := []domain.Session{
		{
			ID:        "sess-1",
			Name:      "Sunday Service – Jan 14, 2024",
			StartTime: time.Date(2024, 1, 14, 9, 30, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 1, 14, 11, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Settings:  domain.SessionSettings{Open: true},
		},
		{
			ID:        "sess-2",
			Name:      "Sunday Service – Jan 21, 2024",
			StartTime: time.Date(2024, 1, 21, 9, 30, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 1, 21, 11, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Settings:  domain.SessionSettings{Open: true},
		},
	}

	feed := Feed(occasion, sessions)

	require.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR"))
	assert.Contains(t, feed, "METHOD:PUBLISH")
	assert.Equal(t, 2, strings.Count(feed, "BEGIN:VEVENT"))
	assert.Contains(t, feed, "UID:sess-1@parishdesk")
	assert.Contains(t, feed, "DTSTART:20240114T093000Z")
	assert.Contains(t, feed, "SUMMARY:Sunday Service – Jan 14\\, 2024")
}

func TestFeedClosedSessionMarkedCancelled(t *testing.T) {
	occasion := &domain.Occasion{ID: "occ-1", Name: "Sunday Service"}
	sessions := []domain.Session{
		{
			ID:        "sess-1",
			Name:      "Past Service",
			StartTime: time.Date(2023, 12, 3, 9, 30, 0, 0, time.UTC),
			EndTime:   time.Date(2023, 12, 3, 11, 0, 0, 0, time.UTC),
			Settings:  domain.SessionSettings{Open: false},
		},
	}

	feed := Feed(occasion, sessions)
	assert.Contains(t, feed, "STATUS:CANCELLED")
}

func TestFeedEmpty(t *testing.T) {
	occasion := &domain.Occasion{ID: "occ-1", Name: "Sunday Service"}
	feed := Feed(occasion, nil)

	assert.Contains(t, feed, "BEGIN:VCALENDAR")
	assert.NotContains(t, feed, "BEGIN:VEVENT")
}
