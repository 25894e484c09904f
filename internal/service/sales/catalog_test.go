package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

func TestFilterSellable(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	today := time.Date(2025, 6, 15, 23, 30, 0, 0, loc)

	meds := []models.Medicine{
		{ID: "no-expiry", Active: true},
		{ID: "inactive", Active: false},
		{ID: "expires-today-iso", Active: true, Expiry: "2025-06-15"},
		{ID: "expires-today-br", Active: true, Expiry: "15/06/2025"},
		{ID: "expired-yesterday", Active: true, Expiry: "2025-06-14"},
		{ID: "expired-br", Active: true, Expiry: "14/06/2025"},
		{ID: "future-datetime", Active: true, Expiry: "2026-01-01T00:00:00"},
		{ID: "rfc3339", Active: true, Expiry: "2025-06-16T10:00:00Z"},
		{ID: "garbage", Active: true, Expiry: "amanhã"},
		{ID: "blank", Active: true, Expiry: "   "},
		{ID: "inactive-future", Active: false, Expiry: "2030-01-01"},
	}

	got := FilterSellable(meds, today)

	var ids []string
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{
		"no-expiry",
		"expires-today-iso",
		"expires-today-br",
		"future-datetime",
		"rfc3339",
		"blank",
	}, ids)

	assert.Equal(t, got, FilterSellable(got, today), "filtering twice must be idempotent")
}

func TestParseExpiryRejectsImpossibleDates(t *testing.T) {
	_, ok := ParseExpiry("2025-02-30", time.UTC)
	assert.False(t, ok)
	_, ok = ParseExpiry("31/04/2025", time.UTC)
	assert.False(t, ok)
}

func TestMatchesTerm(t *testing.T) {
	m := models.Medicine{Name: "Dipirona Sódica", Category: &models.Category{Name: "Analgésicos"}}

	assert.True(t, MatchesTerm(m, "dipi"))
	assert.True(t, MatchesTerm(m, "ANALG"))
	assert.False(t, MatchesTerm(m, "ibupro"))
	assert.False(t, MatchesTerm(models.Medicine{Name: "Soro"}, "analg"))
}

func TestSortByNameIgnoresCaseAndAccents(t *testing.T) {
	meds := []models.Medicine{
		{Name: "ibuprofeno"},
		{Name: "Água Oxigenada"},
		{Name: "Éter"},
		{Name: "amoxicilina"},
	}

	SortByName(meds)

	var names []string
	for _, m := range meds {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Água Oxigenada", "amoxicilina", "Éter", "ibuprofeno"}, names)
}
