package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"content-autopilot/models"
	"content-autopilot/scheduling"
)

func dayPtr(d int) *int {
	return &d
}

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestWallClockToUTCStandardTime(t *testing.T) {
	// 09:00 America/New_York in January is EST (UTC-5)
	base := utc(2026, time.January, 15, 0, 0)
	got, err := scheduling.WallClockToUTC(base, 9, 0, "America/New_York")
	assert.NoError(t, err)
	assert.Equal(t, utc(2026, time.January, 15, 14, 0), got)
}

func TestWallClockToUTCDaylightTime(t *testing.T) {
	// same wall clock in July is EDT (UTC-4)
	base := utc(2026, time.July, 15, 0, 0)
	got, err := scheduling.WallClockToUTC(base, 9, 0, "America/New_York")
	assert.NoError(t, err)
	assert.Equal(t, utc(2026, time.July, 15, 13, 0), got)
}

func TestWallClockToUTCDayRollover(t *testing.T) {
	// 09:00 in Auckland (UTC+13 in January) lands on the previous UTC day
	base := utc(2026, time.January, 15, 0, 0)
	got, err := scheduling.WallClockToUTC(base, 9, 0, "Pacific/Auckland")
	assert.NoError(t, err)
	assert.Equal(t, utc(2026, time.January, 14, 20, 0), got)

	// 23:30 in Los Angeles (UTC-8) lands on the next UTC day
	got, err = scheduling.WallClockToUTC(base, 23, 30, "America/Los_Angeles")
	assert.NoError(t, err)
	assert.Equal(t, utc(2026, time.January, 16, 7, 30), got)
}

func TestWallClockToUTCInvalidTimezone(t *testing.T) {
	_, err := scheduling.WallClockToUTC(time.Now(), 9, 0, "Mars/Olympus_Mons")
	assert.Error(t, err)
}

func newYorkTuesdaySlot() models.PostingSlot {
	return models.PostingSlot{
		SlotNumber: 1,
		Hour:       9,
		Minute:     0,
		DayOfWeek:  dayPtr(2), // Tuesday
		Timezone:   "America/New_York",
		Active:     true,
	}
}

func TestNextScheduledTimePicksSameDaySlot(t *testing.T) {
	// 2026-01-13 is a Tuesday; 08:00 UTC is before the 09:00 EST slot
	now := utc(2026, time.January, 13, 8, 0)

	got := scheduling.NextScheduledTime([]models.PostingSlot{newYorkTuesdaySlot()}, now, nil)
	assert.Equal(t, utc(2026, time.January, 13, 14, 0), got)
}

func TestNextScheduledTimeStrictlyAfterNow(t *testing.T) {
	// exactly at the slot instant: today does not qualify, next week does
	now := utc(2026, time.January, 13, 14, 0)

	got := scheduling.NextScheduledTime([]models.PostingSlot{newYorkTuesdaySlot()}, now, nil)
	assert.Equal(t, utc(2026, time.January, 20, 14, 0), got)
}

func TestNextScheduledTimeSkipsTakenInstants(t *testing.T) {
	now := utc(2026, time.January, 13, 8, 0)
	taken := []time.Time{utc(2026, time.January, 13, 14, 0)}

	got := scheduling.NextScheduledTime([]models.PostingSlot{newYorkTuesdaySlot()}, now, taken)
	assert.Equal(t, utc(2026, time.January, 20, 14, 0), got)
}

func TestNextScheduledTimeAcrossSpringForward(t *testing.T) {
	// US DST starts 2026-03-08: a daily 09:00 New York slot moves from
	// 14:00 UTC to 13:00 UTC across the transition
	slot := models.PostingSlot{
		SlotNumber: 1,
		Hour:       9,
		Timezone:   "America/New_York",
		Active:     true,
	}
	now := utc(2026, time.March, 7, 20, 0)

	got := scheduling.NextScheduledTime([]models.PostingSlot{slot}, now, nil)
	assert.Equal(t, utc(2026, time.March, 8, 13, 0), got)
}

func TestNextScheduledTimeEarliestAcrossSlots(t *testing.T) {
	daily := func(hour int, tz string) models.PostingSlot {
		return models.PostingSlot{Hour: hour, Timezone: tz, Active: true}
	}
	now := utc(2026, time.January, 13, 8, 0)

	got := scheduling.NextScheduledTime([]models.PostingSlot{
		daily(18, "America/New_York"), // 23:00 UTC today
		daily(12, "UTC"),              // 12:00 UTC today
	}, now, nil)
	assert.Equal(t, utc(2026, time.January, 13, 12, 0), got)
}

func TestNextScheduledTimeFallback(t *testing.T) {
	now := utc(2026, time.January, 13, 8, 0)
	wantFallback := utc(2026, time.January, 14, 9, 0)

	// no slots at all
	got := scheduling.NextScheduledTime(nil, now, nil)
	assert.Equal(t, wantFallback, got)

	// only inactive slots
	inactive := newYorkTuesdaySlot()
	inactive.Active = false
	got = scheduling.NextScheduledTime([]models.PostingSlot{inactive}, now, nil)
	assert.Equal(t, wantFallback, got)

	// unknown timezone is skipped, not fatal
	broken := newYorkTuesdaySlot()
	broken.Timezone = "Not/AZone"
	got = scheduling.NextScheduledTime([]models.PostingSlot{broken}, now, nil)
	assert.Equal(t, wantFallback, got)
}
