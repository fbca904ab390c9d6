package query

import (
	"testing"
	"time"

	"github.com/postmasterly/dmarcview/internal/models"
)

func TestResolveBeginEndFixed(t *testing.T) {
	begin := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	v := models.DateRangeValue{Type: models.DateRangeFixed, Begin: &begin, End: &end}

	gotBegin, gotEnd, err := ResolveBeginEnd(v, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotBegin.Equal(begin) || !gotEnd.Equal(end) {
		t.Errorf("fixed range not returned verbatim: got %v - %v", gotBegin, gotEnd)
	}
}

func TestResolveBeginEndVariable(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		unit     models.TimeUnit
		quantity int
		want     time.Time
	}{
		{"one day", models.UnitDay, 1, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"two weeks", models.UnitWeek, 2, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		// Calendar-aware: one month before Mar 15 is Feb 15, not 30 days.
		{"one month", models.UnitMonth, 1, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"one year", models.UnitYear, 1, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		unit := tc.unit
		quantity := tc.quantity
		v := models.DateRangeValue{Type: models.DateRangeVariable, Unit: &unit, Quantity: &quantity}

		begin, end, err := ResolveBeginEnd(v, now)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if !begin.Equal(tc.want) {
			t.Errorf("%s: begin = %v, want %v", tc.name, begin, tc.want)
		}
		if !end.Equal(now) {
			t.Errorf("%s: end = %v, want now (%v)", tc.name, end, now)
		}
	}
}

func TestResolveBeginEndConfigurationErrors(t *testing.T) {
	now := time.Now()
	unit := models.UnitDay
	badUnit := models.TimeUnit(99)
	quantity := 1

	testCases := []struct {
		name string
		v    models.DateRangeValue
	}{
		{"unknown type", models.DateRangeValue{Type: models.DateRangeType(7)}},
		{"unknown unit", models.DateRangeValue{Type: models.DateRangeVariable, Unit: &badUnit, Quantity: &quantity}},
		{"variable without unit", models.DateRangeValue{Type: models.DateRangeVariable, Quantity: &quantity}},
		{"variable without quantity", models.DateRangeValue{Type: models.DateRangeVariable, Unit: &unit}},
		{"fixed without bounds", models.DateRangeValue{Type: models.DateRangeFixed}},
	}

	for _, tc := range testCases {
		_, _, err := ResolveBeginEnd(tc.v, now)
		if err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
			continue
		}
		if !IsConfiguration(err) {
			t.Errorf("%s: expected ConfigurationError, got %T: %v", tc.name, err, err)
		}
	}
}
