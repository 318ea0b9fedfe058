package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/fujiwaratoshiki1106-tech/smoking-area-v2/internal/hours"
)

// Smoking policy display labels. Raw values outside the known enumeration
// (including unset) render as the placeholder.
const (
	smokingAllSeats = "全席喫煙可"
	smokingSeparate = "分煙"
	smokingBooth    = "喫煙ブースあり"

	labelPaperOK   = "紙OK"
	labelSeparated = "分煙"
	labelBooth     = "喫煙室"
	labelNone      = "-"
)

// emptyMessage is shown when no store matches the active criteria.
const emptyMessage = "該当するお店が見つかりませんでした。"

// amenityYes is the case-insensitive cell value that lights an amenity badge.
const amenityYes = "yes"

// Criteria are the three independent filter inputs. An empty value means
// "any" for that dimension.
type Criteria struct {
	Category string
	Smoking  string
	Keyword  string
}

// StoreView is the render model for one visible store.
type StoreView struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Smoking      string   `json:"smoking"`
	SmokingLabel string   `json:"smokingLabel"`
	Address      string   `json:"address"`
	MapURL       string   `json:"mapUrl"`
	Badges       []string `json:"badges"`
	OpenNow      bool     `json:"openNow"`
}

// FilterResult is the full response of one filter pass.
type FilterResult struct {
	Stores       []StoreView `json:"stores"`
	VisibleCount int         `json:"visibleCount"`
	TotalCount   int         `json:"totalCount"`
	Status       string      `json:"status"`
	EmptyMessage string      `json:"emptyMessage,omitempty"`
}

// Filter applies the criteria to the catalog, preserving order, and builds
// the view model for each visible store. at is the reference instant for
// open-now evaluation.
func Filter(c Catalog, crit Criteria, at time.Time) FilterResult {
	keyword := strings.ToLower(strings.TrimSpace(crit.Keyword))

	views := make([]StoreView, 0, len(c))
	for _, rec := range c {
		if !matches(rec, crit, keyword) {
			continue
		}
		views = append(views, buildView(rec, at))
	}

	res := FilterResult{
		Stores:       views,
		VisibleCount: len(views),
		TotalCount:   len(c),
		Status:       fmt.Sprintf("%d / %d 件表示", len(views), len(c)),
	}
	if len(views) == 0 {
		res.EmptyMessage = emptyMessage
	}
	return res
}

func matches(rec StoreRecord, crit Criteria, keyword string) bool {
	if crit.Category != "" && rec[FieldCategory] != crit.Category {
		return false
	}
	if crit.Smoking != "" && rec[FieldSmoking] != crit.Smoking {
		return false
	}
	if keyword != "" {
		haystack := strings.ToLower(rec[FieldName] + rec[FieldAddress])
		if !strings.Contains(haystack, keyword) {
			return false
		}
	}
	return true
}

func buildView(rec StoreRecord, at time.Time) StoreView {
	openNow := hours.OpenNow(rec[FieldOpenHours], at)

	var badges []string
	if v := rec[FieldPriceRange]; v != "" {
		badges = append(badges, v)
	}
	if v := rec[FieldSeats]; v != "" {
		badges = append(badges, "席:"+v)
	}
	if strings.EqualFold(rec[FieldPowerOutlets], amenityYes) {
		badges = append(badges, "🔌電源")
	}
	if strings.EqualFold(rec[FieldWifi], amenityYes) {
		badges = append(badges, "📶Wi‑Fi")
	}
	if openNow {
		badges = append(badges, "● 営業中")
	}

	return StoreView{
		Name:         rec[FieldName],
		Category:     rec[FieldCategory],
		Smoking:      rec[FieldSmoking],
		SmokingLabel: SmokingLabel(rec[FieldSmoking]),
		Address:      rec[FieldAddress],
		MapURL:       rec[FieldMapURL],
		Badges:       badges,
		OpenNow:      openNow,
	}
}

// SmokingLabel maps a raw smoking policy value to its display label.
func SmokingLabel(raw string) string {
	switch raw {
	case smokingAllSeats:
		return labelPaperOK
	case smokingSeparate:
		return labelSeparated
	case smokingBooth:
		return labelBooth
	default:
		return labelNone
	}
}
