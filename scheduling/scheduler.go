// Package scheduling converts recurring local posting slots into exact
// future UTC publish instants. All functions are pure; "now" and the set
// of already-taken instants are passed in by the caller.
package scheduling

import (
	"fmt"
	"sort"
	"time"

	"content-autopilot/models"
)

// maxDayOffset bounds the forward search: every slot is tried on each of
// the next 8 calendar days (offset 0..7), which always covers a weekly
// day-of-week constraint.
const maxDayOffset = 7

// fallback when no slot yields a usable candidate: tomorrow 09:00 UTC.
const fallbackHourUTC = 9

// WallClockToUTC returns the UTC instant at which it is exactly
// hour:minute local time in tz on base's calendar day (base read in UTC).
//
// A fixed offset table would be wrong across DST transitions, so the
// conversion is a self-correcting round trip: build a naive instant by
// treating the requested fields as if they were already UTC, render that
// instant's wall clock as seen in tz, and subtract the signed
// minute-of-day difference between rendered and requested fields. The
// zone offset in effect on the target date, not the one in effect now,
// is what ends up applied.
func WallClockToUTC(base time.Time, hour, minute int, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone %q: %w", tz, err)
	}

	year, month, day := base.UTC().Date()
	naive := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)

	rendered := naive.In(loc)
	ry, rm, rd := rendered.Date()

	// Signed day rollover between the rendered local date and the
	// requested date, in whole days (-1, 0 or +1 in practice).
	renderedDay := time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC)
	requestedDay := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	dayDiff := int(renderedDay.Sub(requestedDay).Hours() / 24)

	diffMinutes := dayDiff*24*60 +
		(rendered.Hour()*60 + rendered.Minute()) -
		(hour*60 + minute)

	return naive.Add(-time.Duration(diffMinutes) * time.Minute), nil
}

// NextScheduledTime picks the earliest free publish instant for the
// user's active slots: every slot is expanded over the next 8 days,
// candidates at or before now are dropped, day-of-week constraints are
// checked against the slot's own timezone, and the first instant not
// present in taken wins. With no active slots, or nothing surviving the
// filters, it falls back to tomorrow 09:00 UTC with no timezone
// conversion.
func NextScheduledTime(slots []models.PostingSlot, now time.Time, taken []time.Time) time.Time {
	takenSet := make(map[int64]bool, len(taken))
	for _, t := range taken {
		takenSet[t.Unix()] = true
	}

	var candidates []time.Time
	for _, slot := range slots {
		if !slot.Active {
			continue
		}
		loc, err := time.LoadLocation(slot.Timezone)
		if err != nil {
			continue
		}

		for offset := 0; offset <= maxDayOffset; offset++ {
			candidate, err := WallClockToUTC(now.AddDate(0, 0, offset), slot.Hour, slot.Minute, slot.Timezone)
			if err != nil {
				continue
			}
			if !candidate.After(now) {
				continue
			}
			if slot.DayOfWeek != nil {
				// 0=Sunday..6=Saturday, matching time.Weekday.
				if int(candidate.In(loc).Weekday()) != *slot.DayOfWeek {
					continue
				}
			}
			candidates = append(candidates, candidate)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Before(candidates[j])
	})

	for _, c := range candidates {
		if !takenSet[c.Unix()] {
			return c
		}
	}

	return fallbackTime(now)
}

func fallbackTime(now time.Time) time.Time {
	tomorrow := now.UTC().AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), fallbackHourUTC, 0, 0, 0, time.UTC)
}
