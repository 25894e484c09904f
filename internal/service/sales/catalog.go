package sales

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

var (
	isoDatePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	brDatePrefix  = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})`)
)

// FilterSellable keeps active medicines whose expiry is today or later.
// Dates are compared by calendar day in today's location. Medicines without
// an expiry are sellable; expiries that cannot be parsed are not.
func FilterSellable(medicines []models.Medicine, today time.Time) []models.Medicine {
	day := truncateDay(today)
	out := make([]models.Medicine, 0, len(medicines))
	for _, m := range medicines {
		if Sellable(m, day) {
			out = append(out, m)
		}
	}
	return out
}

// Sellable reports whether a single medicine may be offered for sale.
func Sellable(m models.Medicine, today time.Time) bool {
	if !m.Active {
		return false
	}
	raw := strings.TrimSpace(m.Expiry)
	if raw == "" {
		return true
	}
	expiry, ok := ParseExpiry(raw, today.Location())
	if !ok {
		return false
	}
	return !expiry.Before(truncateDay(today))
}

// ParseExpiry reads YYYY-MM-DD (optionally followed by a time), DD/MM/YYYY or
// RFC 3339 and returns midnight of that calendar day in loc.
func ParseExpiry(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if m := isoDatePrefix.FindStringSubmatch(raw); m != nil {
		return dateIn(m[1], m[2], m[3], loc)
	}
	if m := brDatePrefix.FindStringSubmatch(raw); m != nil {
		return dateIn(m[3], m[2], m[1], loc)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return truncateDay(t.In(loc)), true
	}
	return time.Time{}, false
}

func dateIn(year, month, day string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", year+"-"+month+"-"+day, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MatchesTerm reports whether the medicine name or category name contains
// term, ignoring case.
func MatchesTerm(m models.Medicine, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), term) ||
		strings.Contains(strings.ToLower(m.CategoryName()), term)
}

// SortByName orders medicines by name for pt-BR readers, ignoring case and
// accents.
func SortByName(medicines []models.Medicine) {
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(medicines, func(i, j int) bool {
		return c.CompareString(medicines[i].Name, medicines[j].Name) < 0
	})
}
