package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// jst returns a JST instant on 2025-01-(1+dayOffset). 2025-01-01 was a
// Wednesday, so dayOffset 3 is Saturday and 4 is Sunday.
func jst(dayOffset, hour, minute int) time.Time {
	return time.Date(2025, time.January, 1+dayOffset, hour, minute, 0, 0, JST)
}

func TestOpenNow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hours string
		at    time.Time
		want  bool
	}{
		{
			name:  "weekday block during hours on Wednesday",
			hours: "平日 9:00-18:00",
			at:    jst(0, 10, 0),
			want:  true,
		},
		{
			name:  "weekday block after hours on Wednesday",
			hours: "平日 9:00-18:00",
			at:    jst(0, 18, 20),
			want:  false,
		},
		{
			name:  "closing minute is inclusive",
			hours: "平日 9:00-18:00",
			at:    jst(0, 18, 0),
			want:  true,
		},
		{
			name:  "crossing midnight before midnight",
			hours: "22:00-翌2:00",
			at:    jst(0, 23, 30),
			want:  true,
		},
		{
			name:  "crossing midnight after midnight",
			hours: "22:00-翌2:00",
			at:    jst(0, 1, 0),
			want:  true,
		},
		{
			name:  "crossing midnight outside range",
			hours: "22:00-翌2:00",
			at:    jst(0, 3, 0),
			want:  false,
		},
		{
			name:  "implicit crossing when end before start",
			hours: "22:00-2:00",
			at:    jst(0, 23, 30),
			want:  true,
		},
		{
			name:  "empty hours are always closed",
			hours: "",
			at:    jst(0, 12, 0),
			want:  false,
		},
		{
			name:  "bare range without day marker applies daily",
			hours: "7-20",
			at:    jst(4, 8, 0), // Sunday
			want:  true,
		},
		{
			name:  "weekend block on Saturday",
			hours: "土日 10:00-17:00",
			at:    jst(3, 12, 0),
			want:  true,
		},
		{
			name:  "weekend block on Wednesday falls back to all blocks",
			hours: "土日 10:00-17:00",
			at:    jst(0, 12, 0),
			want:  true,
		},
		{
			name:  "saturday-only block on Sunday falls back leniently",
			hours: "土 10:00-17:00",
			at:    jst(4, 12, 0),
			want:  true,
		},
		{
			name:  "matching day block shadows the others",
			hours: "平日 9:00-18:00; 土日 11:00-15:00",
			at:    jst(3, 9, 30), // Saturday before weekend opening
			want:  false,
		},
		{
			name:  "sunday-only block on Sunday",
			hours: "日 11:00-15:00; 平日 9:00-18:00",
			at:    jst(4, 12, 0),
			want:  true,
		},
		{
			name:  "other day kanji disqualify an unmarked block",
			hours: "月火 9:00-18:00; 土日 10:00-17:00",
			at:    jst(3, 9, 30), // Saturday, only the weekend block applies
			want:  false,
		},
		{
			name:  "malformed range is skipped",
			hours: "平日 たぶん営業",
			at:    jst(0, 12, 0),
			want:  false,
		},
		{
			name:  "malformed block does not poison valid ones",
			hours: "なんとなく; 9:00-18:00",
			at:    jst(0, 12, 0),
			want:  true,
		},
		{
			name:  "semicolons only",
			hours: " ; ; ",
			at:    jst(0, 12, 0),
			want:  false,
		},
		{
			name:  "compact digits without colon",
			hours: "900-1800",
			at:    jst(0, 12, 0),
			want:  true,
		},
		{
			name:  "missing minutes default to zero",
			hours: "9-18",
			at:    jst(0, 8, 59),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := OpenNow(tt.hours, tt.at)
			assert.Equal(t, tt.want, got, "OpenNow(%q, %s)", tt.hours, tt.at)
		})
	}
}

// TestOpenNowIgnoresHostLocation pins the evaluation clock to JST regardless
// of the location attached to the reference instant.
func TestOpenNowIgnoresHostLocation(t *testing.T) {
	t.Parallel()

	// 01:00 UTC on a Wednesday is 10:00 JST the same day.
	at := time.Date(2025, time.January, 8, 1, 0, 0, 0, time.UTC)
	assert.True(t, OpenNow("平日 9:00-18:00", at))

	// 13:00 UTC is 22:00 JST, past closing.
	at = time.Date(2025, time.January, 8, 13, 0, 0, 0, time.UTC)
	assert.False(t, OpenNow("平日 9:00-18:00", at))
}

func TestExtractRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		block  string
		want   timeRange
		wantOK bool
	}{
		{
			name:   "plain range",
			block:  "9:00-18:00",
			want:   timeRange{start: 540, end: 1080},
			wantOK: true,
		},
		{
			name:   "hour only range",
			block:  "7-20",
			want:   timeRange{start: 420, end: 1200},
			wantOK: true,
		},
		{
			name:   "next day marker",
			block:  "22:00-翌2:00",
			want:   timeRange{start: 1320, end: 120, crosses: true},
			wantOK: true,
		},
		{
			name:   "spaces around dash",
			block:  "10:30 - 19:30",
			want:   timeRange{start: 630, end: 1170},
			wantOK: true,
		},
		{
			name:   "leading day marker text",
			block:  "平日 9:00-18:00",
			want:   timeRange{start: 540, end: 1080},
			wantOK: true,
		},
		{
			name:   "implicit midnight crossing",
			block:  "20-2",
			want:   timeRange{start: 1200, end: 120, crosses: true},
			wantOK: true,
		},
		{
			name:   "no digits",
			block:  "定休日",
			wantOK: false,
		},
		{
			name:   "dangling start only",
			block:  "9:00-",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := extractRange(tt.block)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
