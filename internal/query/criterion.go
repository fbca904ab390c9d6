package query

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postmasterly/dmarcview/internal/models"
)

// CriterionExpression translates one persisted criterion into a predicate
// over the joined records/reports/reporters row set. Child relations
// (raw DKIM/SPF auth results) are reached through EXISTS subqueries.
func CriterionExpression(c models.FilterCriterion) (clause.Expression, error) {
	switch c.Kind {
	case models.KindReportType:
		v, err := c.DecodeEnum()
		if err != nil {
			return nil, err
		}
		return gorm.Expr("reports.report_type = ?", v.Value), nil

	case models.KindDateRange:
		v, err := c.DecodeDateRange()
		if err != nil {
			return nil, err
		}
		begin, end, err := ResolveBeginEnd(v, timeNow())
		if err != nil {
			return nil, err
		}
		// Inclusive on both ends.
		return gorm.Expr("reports.date_range_begin BETWEEN ? AND ?", begin, end), nil

	case models.KindReportSender:
		v, err := c.DecodeString()
		if err != nil {
			return nil, err
		}
		return gorm.Expr("reporters.email = ?", v.Value), nil

	case models.KindReportReceiverDomain:
		v, err := c.DecodeString()
		if err != nil {
			return nil, err
		}
		return gorm.Expr("reports.domain = ?", v.Value), nil

	case models.KindSourceIP:
		v, err := c.DecodeString()
		if err != nil {
			return nil, err
		}
		return gorm.Expr("records.source_ip = ?", v.Value), nil

	case models.KindRawDKIMDomain:
		v, err := c.DecodeString()
		if err != nil {
			return nil, err
		}
		return gorm.Expr(
			"EXISTS (SELECT 1 FROM auth_results_dkim ard WHERE ard.record_id = records.id AND ard.domain = ?)",
			v.Value), nil

	case models.KindRawDKIMResult:
		v, err := c.DecodeEnum()
		if err != nil {
			return nil, err
		}
		return gorm.Expr(
			"EXISTS (SELECT 1 FROM auth_results_dkim ard WHERE ard.record_id = records.id AND ard.result = ?)",
			v.Value), nil

	case models.KindMultipleDKIM:
		// The stored flag is deliberately not consulted: the criterion's
		// presence alone switches on the fixed count > 1 predicate.
		if _, err := c.DecodeFlag(); err != nil {
			return nil, err
		}
		return gorm.Expr("records.auth_result_dkim_count > ?", 1), nil

	case models.KindRawSPFDomain:
		v, err := c.DecodeString()
		if err != nil {
			return nil, err
		}
		return gorm.Expr(
			"EXISTS (SELECT 1 FROM auth_results_spf ars WHERE ars.record_id = records.id AND ars.domain = ?)",
			v.Value), nil

	case models.KindRawSPFResult:
		v, err := c.DecodeEnum()
		if err != nil {
			return nil, err
		}
		return gorm.Expr(
			"EXISTS (SELECT 1 FROM auth_results_spf ars WHERE ars.record_id = records.id AND ars.result = ?)",
			v.Value), nil

	case models.KindAlignedDKIMResult:
		v, err := c.DecodeEnum()
		if err != nil {
			return nil, err
		}
		return gorm.Expr("records.dkim = ?", v.Value), nil

	case models.KindAlignedSPFResult:
		v, err := c.DecodeEnum()
		if err != nil {
			return nil, err
		}
		return gorm.Expr("records.spf = ?", v.Value), nil

	case models.KindDisposition:
		v, err := c.DecodeEnum()
		if err != nil {
			return nil, err
		}
		return gorm.Expr("records.disposition = ?", v.Value), nil

	default:
		return nil, configErrorf("unknown criterion kind %q", c.Kind)
	}
}
