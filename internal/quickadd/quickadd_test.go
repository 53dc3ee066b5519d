package quickadd

import (
	"testing"
	"time"

	"github.com/dori/tasknote/internal/model"
	"github.com/stretchr/testify/assert"
)

// Monday, 10:00 local
var monday = time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)

func TestParse(t *testing.T) {
	got := Parse("Review PR !high due:tomorrow", monday)
	assert.Equal(t, "Review PR", got.Title)
	assert.Equal(t, model.CategoryHigh, got.Category)
	assert.True(t, got.HasDue)
	assert.Equal(t, time.Date(2026, 3, 3, 23, 59, 59, 0, time.Local), got.Due)
}

func TestParseKeepsUnknownMarkers(t *testing.T) {
	got := Parse("Say hi! !loud due:someday", monday)
	assert.Equal(t, "Say hi! !loud due:someday", got.Title)
	assert.Equal(t, model.CategoryMedium, got.Category)
	assert.False(t, got.HasDue)
}

func TestParseDue(t *testing.T) {
	eod := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, 0, time.Local)
	}

	tests := []struct {
		in   string
		want time.Time
	}{
		{"today", eod(2026, 3, 2)},
		{"TOM", eod(2026, 3, 3)},
		{"fri", eod(2026, 3, 6)},
		{"monday", eod(2026, 3, 9)},
		{"nextweek", eod(2026, 3, 9)},
		{"3d", eod(2026, 3, 5)},
		{"1w", eod(2026, 3, 9)},
		{"2h", monday.Add(2 * time.Hour)},
		{"45m", monday.Add(45 * time.Minute)},
		{"17:30", time.Date(2026, 3, 2, 17, 30, 0, 0, time.Local)},
		{"2026-04-01", eod(2026, 4, 1)},
		{"2026-04-01T09:15", time.Date(2026, 4, 1, 9, 15, 0, 0, time.Local)},
		{"04/01/2026", eod(2026, 4, 1)},
		{"apr1", eod(2026, 4, 1)},
		{"Dec-24", eod(2026, 12, 24)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDue(tt.in, monday)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDueRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "someday", "0d", "13/45/2026", "25:00"} {
		_, ok := ParseDue(in, monday)
		assert.False(t, ok, in)
	}
}
