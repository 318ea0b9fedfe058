// Package hours evaluates the compact opening-hours mini-language used in
// the store data file and decides whether a store is open at a given moment.
//
// An hours string is a semicolon-separated list of blocks. A block may carry
// a day qualifier (平日 for weekdays, 土日 for weekends, a lone 土 or 日 for
// Saturday or Sunday only) and a time range like "9:00-18:00", "7-20" or
// "22:00-翌2:00" where 翌 marks a range crossing midnight.
package hours

import (
	"strings"
	"time"
)

// JST is the fixed reference timezone for all evaluations. The target region
// has no daylight saving, so a fixed UTC+9 offset is deliberate: evaluation
// must not depend on the host's local timezone or locale database.
var JST = time.FixedZone("JST", 9*60*60)

const minutesPerHour = 60

// dayKanji are the weekday characters whose presence marks a block as
// day-qualified. A block containing none of them applies every day.
const dayKanji = "月火水木金土日"

// timeRange is a parsed opening interval in minutes of day.
type timeRange struct {
	start   int
	end     int
	crosses bool // range spans midnight
}

// contains reports whether the minute-of-day m falls inside the range.
func (r timeRange) contains(m int) bool {
	if r.crosses {
		return m >= r.start || m <= r.end
	}
	return m >= r.start && m <= r.end
}

// OpenNow reports whether a store with the given raw hours string is open
// at the instant at, evaluated on the JST clock. An empty hours string is
// always closed. Malformed blocks are skipped, never an error: the data file
// is community-authored and a bad row must not take down the whole render.
func OpenNow(raw string, at time.Time) bool {
	if raw == "" {
		return false
	}

	local := at.In(JST)
	day := local.Weekday()
	nowMin := local.Hour()*minutesPerHour + local.Minute()

	blocks := splitBlocks(raw)

	selected := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if blockQualifies(b, day) {
			selected = append(selected, b)
		}
	}
	// Lenient fallback: when no block names today, consider every block.
	// This mirrors the historical behavior of the data format; a typo'd day
	// marker degrades to "hours apply daily" rather than "always closed".
	if len(selected) == 0 {
		selected = blocks
	}

	for _, b := range selected {
		if r, ok := extractRange(b); ok && r.contains(nowMin) {
			return true
		}
	}
	return false
}

// splitBlocks splits the raw hours string on semicolons, trims each block
// and drops empty ones.
func splitBlocks(raw string) []string {
	parts := strings.Split(raw, ";")
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if b := strings.TrimSpace(p); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// blockQualifies decides whether a block applies on the given day.
// Marker precedence matters: 平日 contains the 日 rune and 土日 contains
// both 土 and 日, so the broader markers are tested first.
func blockQualifies(b string, day time.Weekday) bool {
	switch {
	case strings.Contains(b, "平日"):
		return day >= time.Monday && day <= time.Friday
	case strings.Contains(b, "土日"):
		return day == time.Saturday || day == time.Sunday
	case strings.Contains(b, "土"):
		return day == time.Saturday
	case strings.Contains(b, "日"):
		return day == time.Sunday
	default:
		return !strings.ContainsAny(b, dayKanji)
	}
}

// extractRange scans a block for its first time range. It is a hand-written
// scanner over the grammar
//
//	clock [spaces] '-' [spaces] ['翌'] clock
//
// where clock is a 1-2 digit hour optionally followed by ':' and two minute
// digits, or a 1 digit hour directly followed by two minute digits. A block
// with no extractable range yields ok=false and is skipped by the caller.
func extractRange(block string) (timeRange, bool) {
	rs := []rune(block)
	for i := range rs {
		if !isDigit(rs[i]) {
			continue
		}
		if r, ok := scanRangeAt(rs, i); ok {
			return r, true
		}
	}
	return timeRange{}, false
}

// scanRangeAt attempts to read a full range starting at rune index i, which
// must point at a digit. Clock readings are ambiguous ("900" is 9:00, not
// hour 90), so each candidate start reading is tried against the rest of
// the range before giving up.
func scanRangeAt(rs []rune, i int) (timeRange, bool) {
	for _, start := range scanClock(rs, i) {
		j := skipSpaces(rs, i+start.width)
		if j >= len(rs) || rs[j] != '-' {
			continue
		}
		j = skipSpaces(rs, j+1)

		crosses := false
		if j < len(rs) && rs[j] == '翌' {
			crosses = true
			j++
		}

		ends := scanClock(rs, j)
		if len(ends) == 0 {
			continue
		}
		end := ends[0]
		if end.minutes < start.minutes {
			crosses = true
		}
		return timeRange{start: start.minutes, end: end.minutes, crosses: crosses}, true
	}
	return timeRange{}, false
}

// clockReading is one way of interpreting digits at a position as a time
// of day. width is the number of runes consumed.
type clockReading struct {
	minutes int
	width   int
}

// scanClock enumerates possible clock readings at rune index i, most
// specific first: two-digit hour with explicit minutes, then shorter
// interpretations. Minutes require exactly two digits; a missing minutes
// part defaults to :00.
func scanClock(rs []rune, i int) []clockReading {
	var out []clockReading
	for hlen := 2; hlen >= 1; hlen-- {
		if i+hlen > len(rs) || !allDigits(rs[i:i+hlen]) {
			continue
		}
		hour := digitsValue(rs[i : i+hlen])
		pos := i + hlen

		withColon := pos < len(rs) && rs[pos] == ':'
		if withColon {
			if m, ok := twoDigits(rs, pos+1); ok {
				out = append(out, clockReading{minutes: hour*minutesPerHour + m, width: hlen + 3})
			}
			// Dangling colon with no minute digits: consume it anyway so
			// "9:-18" still reads as 9:00.
			out = append(out, clockReading{minutes: hour * minutesPerHour, width: hlen + 1})
		}
		if m, ok := twoDigits(rs, pos); ok && !withColon {
			out = append(out, clockReading{minutes: hour*minutesPerHour + m, width: hlen + 2})
		}
		out = append(out, clockReading{minutes: hour * minutesPerHour, width: hlen})
	}
	return out
}

func twoDigits(rs []rune, i int) (int, bool) {
	if i+2 > len(rs) || !allDigits(rs[i:i+2]) {
		return 0, false
	}
	return digitsValue(rs[i : i+2]), true
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !isDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}

func digitsValue(rs []rune) int {
	v := 0
	for _, r := range rs {
		v = v*10 + int(r-'0')
	}
	return v
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func skipSpaces(rs []rune, i int) int {
	for i < len(rs) && (rs[i] == ' ' || rs[i] == '\t' || rs[i] == '　') {
		i++
	}
	return i
}
