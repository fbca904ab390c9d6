package query

import (
	"time"

	"github.com/postmasterly/dmarcview/internal/models"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// ResolveBeginEnd resolves a date-range payload into concrete bounds.
//
// Fixed ranges return their stored begin/end verbatim. Variable ranges end
// now and begin quantity*unit earlier, using calendar-aware subtraction so
// "1 month" respects actual month lengths.
func ResolveBeginEnd(v models.DateRangeValue, now time.Time) (time.Time, time.Time, error) {
	switch v.Type {
	case models.DateRangeFixed:
		if v.Begin == nil || v.End == nil {
			return time.Time{}, time.Time{}, configErrorf("fixed date range is missing begin or end")
		}
		return *v.Begin, *v.End, nil
	case models.DateRangeVariable:
		if v.Unit == nil || v.Quantity == nil {
			return time.Time{}, time.Time{}, configErrorf("variable date range is missing unit or quantity")
		}
		begin, err := subtract(now, *v.Unit, *v.Quantity)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return begin, now, nil
	default:
		return time.Time{}, time.Time{}, configErrorf("unknown date range type %d", v.Type)
	}
}

func subtract(t time.Time, unit models.TimeUnit, quantity int) (time.Time, error) {
	switch unit {
	case models.UnitDay:
		return t.AddDate(0, 0, -quantity), nil
	case models.UnitWeek:
		return t.AddDate(0, 0, -7*quantity), nil
	case models.UnitMonth:
		return t.AddDate(0, -quantity, 0), nil
	case models.UnitYear:
		return t.AddDate(-quantity, 0, 0), nil
	default:
		return time.Time{}, configErrorf("unknown time unit %d", unit)
	}
}
