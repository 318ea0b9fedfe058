// Package catalog loads, models and filters the store catalog backing the
// smoking-area map. The catalog originates from a community-maintained CSV
// file, so every layer here is tolerant of missing or unknown columns.
package catalog

// Column names the rest of the service reads from a StoreRecord. The data
// file may carry additional columns; they are kept but unused.
const (
	FieldName         = "name"
	FieldCategory     = "category"
	FieldSmoking      = "smoking"
	FieldAddress      = "address"
	FieldMapURL       = "mapUrl"
	FieldPriceRange   = "priceRange"
	FieldSeats        = "seats"
	FieldPowerOutlets = "powerOutlets"
	FieldWifi         = "wifi"
	FieldOpenHours    = "openHours"
)

// StoreRecord maps column names to cell values for one store. Every record
// built from the same file shares the key set of the header row.
type StoreRecord map[string]string

// Catalog is an ordered list of store records, in source row order. A
// Catalog is immutable after build: reloads produce a fresh value rather
// than mutating in place.
type Catalog []StoreRecord

// BuildRecords zips the header row (row 0, cells trimmed by the parser)
// with each data row. Rows shorter than the header pad with empty strings;
// cells beyond the header length are ignored.
func BuildRecords(rows [][]string) Catalog {
	if len(rows) == 0 {
		return nil
	}
	headers := rows[0]
	out := make(Catalog, 0, len(rows)-1)
	for _, r := range rows[1:] {
		rec := make(StoreRecord, len(headers))
		for i, h := range headers {
			if i < len(r) {
				rec[h] = r[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// FallbackRecord returns the single built-in store shown when every data
// source fails, so the UI is never empty in degraded mode.
func FallbackRecord() StoreRecord {
	return StoreRecord{
		FieldName:         "Cafe バンカム",
		FieldCategory:     "喫茶店",
		FieldSmoking:      "全席喫煙可",
		FieldAddress:      "福岡市博多区博多駅中央街2-1",
		FieldMapURL:       "https://www.google.com/maps/search/?api=1&query=福岡市博多区博多駅中央街2-1",
		FieldPriceRange:   "¥",
		FieldOpenHours:    "7:00-20:00",
		FieldSeats:        "24",
		FieldPowerOutlets: "yes",
		FieldWifi:         "no",
	}
}

// FallbackCatalog wraps FallbackRecord in a single-entry catalog.
func FallbackCatalog() Catalog {
	return Catalog{FallbackRecord()}
}
