package feeder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeItems(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.August, d, 0, 0, 0, 0, time.UTC)
	}
	items := []SourceItem{
		{Title: "oldest", Link: "https://example.com/1", PublishedAt: day(1)},
		{Title: "no link", PublishedAt: day(20)},
		{Title: "newest", Link: "https://example.com/3", PublishedAt: day(15)},
		{Title: "middle", Link: "https://example.com/2", PublishedAt: day(8)},
	}

	got := normalizeItems(items, 0)
	assert.Len(t, got, 3)
	assert.Equal(t, "newest", got[0].Title)
	assert.Equal(t, "middle", got[1].Title)
	assert.Equal(t, "oldest", got[2].Title)
}

func TestNormalizeItemsLimit(t *testing.T) {
	items := []SourceItem{
		{Title: "a", Link: "https://example.com/a", PublishedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
		{Title: "b", Link: "https://example.com/b", PublishedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := normalizeItems(items, 1)
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)

	// undated items keep their feed order behind dated ones
	undated := []SourceItem{
		{Title: "x", Link: "https://example.com/x"},
		{Title: "y", Link: "https://example.com/y"},
	}
	got = normalizeItems(undated, 0)
	assert.Equal(t, "x", got[0].Title)
	assert.Equal(t, "y", got[1].Title)
}
