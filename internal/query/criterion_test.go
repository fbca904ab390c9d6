package query

import (
	"strings"
	"testing"
	"time"

	"github.com/postmasterly/dmarcview/internal/models"
)

func TestCriterionExpressionSQL(t *testing.T) {
	testCases := []struct {
		name string
		c    models.FilterCriterion
		want string
	}{
		{
			name: "report type",
			c: models.FilterCriterion{
				Kind:  models.KindReportType,
				Value: models.MustJSON(models.EnumValue{Value: int(models.DirectionOutgoing)}),
			},
			want: "reports.report_type = 1",
		},
		{
			name: "report sender",
			c: models.FilterCriterion{
				Kind:  models.KindReportSender,
				Value: models.MustJSON(models.StringValue{Value: "noreply-dmarc-support@google.com"}),
			},
			want: "reporters.email = 'noreply-dmarc-support@google.com'",
		},
		{
			name: "report receiver domain",
			c: models.FilterCriterion{
				Kind:  models.KindReportReceiverDomain,
				Value: models.MustJSON(models.StringValue{Value: "example.org"}),
			},
			want: "reports.domain = 'example.org'",
		},
		{
			name: "source ip",
			c: models.FilterCriterion{
				Kind:  models.KindSourceIP,
				Value: models.MustJSON(models.StringValue{Value: "192.0.2.1"}),
			},
			want: "records.source_ip = '192.0.2.1'",
		},
		{
			name: "raw dkim domain",
			c: models.FilterCriterion{
				Kind:  models.KindRawDKIMDomain,
				Value: models.MustJSON(models.StringValue{Value: "example.org"}),
			},
			want: "EXISTS (SELECT 1 FROM auth_results_dkim ard WHERE ard.record_id = records.id AND ard.domain = 'example.org')",
		},
		{
			name: "raw dkim result",
			c: models.FilterCriterion{
				Kind:  models.KindRawDKIMResult,
				Value: models.MustJSON(models.EnumValue{Value: int(models.DKIMPass)}),
			},
			want: "EXISTS (SELECT 1 FROM auth_results_dkim ard WHERE ard.record_id = records.id AND ard.result = 1)",
		},
		{
			name: "raw spf domain",
			c: models.FilterCriterion{
				Kind:  models.KindRawSPFDomain,
				Value: models.MustJSON(models.StringValue{Value: "example.org"}),
			},
			want: "EXISTS (SELECT 1 FROM auth_results_spf ars WHERE ars.record_id = records.id AND ars.domain = 'example.org')",
		},
		{
			name: "raw spf result",
			c: models.FilterCriterion{
				Kind:  models.KindRawSPFResult,
				Value: models.MustJSON(models.EnumValue{Value: int(models.SPFSoftFail)}),
			},
			want: "EXISTS (SELECT 1 FROM auth_results_spf ars WHERE ars.record_id = records.id AND ars.result = 4)",
		},
		{
			name: "aligned dkim result",
			c: models.FilterCriterion{
				Kind:  models.KindAlignedDKIMResult,
				Value: models.MustJSON(models.EnumValue{Value: int(models.DMARCFail)}),
			},
			want: "records.dkim = 1",
		},
		{
			name: "aligned spf result",
			c: models.FilterCriterion{
				Kind:  models.KindAlignedSPFResult,
				Value: models.MustJSON(models.EnumValue{Value: int(models.DMARCPass)}),
			},
			want: "records.spf = 0",
		},
		{
			name: "disposition",
			c: models.FilterCriterion{
				Kind:  models.KindDisposition,
				Value: models.MustJSON(models.EnumValue{Value: int(models.DispositionReject)}),
			},
			want: "records.disposition = 2",
		},
	}

	for _, tc := range testCases {
		expr, err := CriterionExpression(tc.c)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if sql := renderSQL(t, expr); !strings.Contains(sql, tc.want) {
			t.Errorf("%s: generated SQL %q does not contain %q", tc.name, sql, tc.want)
		}
	}
}

// The multiple-DKIM criterion activates on presence alone: its stored flag
// is never consulted, so true and false yield the identical predicate.
func TestMultipleDKIMIgnoresStoredFlag(t *testing.T) {
	for _, flag := range []bool{true, false} {
		c := models.FilterCriterion{
			Kind:  models.KindMultipleDKIM,
			Value: models.MustJSON(models.FlagValue{Value: flag}),
		}
		expr, err := CriterionExpression(c)
		if err != nil {
			t.Fatalf("flag=%v: unexpected error: %v", flag, err)
		}
		if sql := renderSQL(t, expr); !strings.Contains(sql, "records.auth_result_dkim_count > 1") {
			t.Errorf("flag=%v: generated SQL %q lacks fixed count predicate", flag, sql)
		}
	}
}

func TestDateRangeCriterionResolvesAgainstClock(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	unit := models.UnitMonth
	quantity := 1
	c := models.FilterCriterion{
		Kind: models.KindDateRange,
		Value: models.MustJSON(models.DateRangeValue{
			Type:     models.DateRangeVariable,
			Unit:     &unit,
			Quantity: &quantity,
		}),
	}

	expr, err := CriterionExpression(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sql := renderSQL(t, expr)
	if !strings.Contains(sql, "reports.date_range_begin BETWEEN") {
		t.Errorf("date range predicate missing BETWEEN: %s", sql)
	}
	if !strings.Contains(sql, "2024-02-15") || !strings.Contains(sql, "2024-03-15") {
		t.Errorf("date range bounds not resolved against the fixed clock: %s", sql)
	}
}

func TestCriterionExpressionErrors(t *testing.T) {
	testCases := []struct {
		name string
		c    models.FilterCriterion
	}{
		{"unknown kind", models.FilterCriterion{Kind: models.CriterionKind("bogus")}},
		{"empty payload", models.FilterCriterion{Kind: models.KindSourceIP}},
		{"malformed payload", models.FilterCriterion{Kind: models.KindDisposition, Value: []byte("{")}},
	}

	for _, tc := range testCases {
		if _, err := CriterionExpression(tc.c); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}
