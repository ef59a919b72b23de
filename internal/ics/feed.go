// Package ics renders an occasion's sessions as an iCalendar feed so members
// can subscribe from their own calendar clients.
package ics

import (
	"fmt"

	ical "github.com/arran4/golang-ical"

	"github.com/parishdesk/parishdesk/internal/domain"
)

const prodID = "-//parishdesk//session feed//EN"

// Feed renders the given sessions as a VCALENDAR. Sessions are expected in
// chronological order; the feed preserves the order it is given.
func Feed(occasion *domain.Occasion, sessions []domain.Session) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetName(occasion.Name)

	for i := range sessions {
		addEvent(cal, &sessions[i])
	}

	return cal.Serialize()
}

func addEvent(cal *ical.Calendar, session *domain.Session) {
	event := cal.AddEvent(fmt.Sprintf("%s@parishdesk", session.ID))
	event.SetDtStampTime(session.UpdatedAt.UTC())
	event.SetStartAt(session.StartTime.UTC())
	event.SetEndAt(session.EndTime.UTC())
	event.SetSummary(session.Name)

	if session.Settings.RequireProximity &&
		session.Settings.Latitude != nil && session.Settings.Longitude != nil {
		event.SetGeo(*session.Settings.Latitude, *session.Settings.Longitude)
	}

	if !session.Settings.Open {
		event.SetStatus(ical.ObjectStatusCancelled)
	}
}

// ContentType is the media type for serialized feeds.
const ContentType = "text/calendar; charset=utf-8"

// FeedSessionLimit caps how many sessions one feed carries. Calendar clients
// poll feeds whole, so unbounded feeds would grow without limit.
const FeedSessionLimit = 500
