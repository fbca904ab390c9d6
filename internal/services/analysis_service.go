package services

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm/clause"

	"github.com/postmasterly/dmarcview/internal/models"
	"github.com/postmasterly/dmarcview/internal/query"
	"github.com/postmasterly/dmarcview/internal/store"
)

// RecordSource is the slice of the record store the analysis service
// consumes.
type RecordSource interface {
	Records(pred clause.Expression) ([]models.Record, error)
	TableRecords(pred clause.Expression, limit, offset int) ([]models.Record, error)
	CountTableRecords(pred clause.Expression) (int64, error)
	MessageCountPerDay(pred clause.Expression) ([]store.DayCount, error)
	MessageCountPerCountry(pred clause.Expression) ([]store.CountryCount, error)
	MessageCountPerPoint(pred clause.Expression) ([]store.PointCount, error)
}

// LineDataSet is one filter set's per-day series.
type LineDataSet struct {
	Label string           `json:"label"`
	Color string           `json:"color"`
	Data  []store.DayCount `json:"data"`
}

// LineData is the line-chart payload of a view.
type LineData struct {
	Begin    string        `json:"begin"`
	End      string        `json:"end"`
	DataSets []LineDataSet `json:"data_sets"`
}

// MapDataSet is one filter set's per-country and bucketed-point series.
type MapDataSet struct {
	Label  string               `json:"label"`
	Color  string               `json:"color"`
	Data   []store.CountryCount `json:"data"`
	Points []store.PointCount   `json:"points"`
}

// TablePage is one page of table rows plus the counts the pagination
// wire format needs.
type TablePage struct {
	Total    int64
	Filtered int64
	Rows     [][]string
}

// CSVHeader names the table projection's columns.
var CSVHeader = []string{
	"reporter", "domain", "ip", "country",
	"date_range_begin", "date_range_end",
	"count", "dkim_domains", "dkim_results", "aligned_dkim",
	"spf_domains", "spf_results", "aligned_spf",
	"disposition", "report_id",
}

// AnalysisService evaluates views against the record store.
type AnalysisService struct {
	source RecordSource
}

func NewAnalysisService(source RecordSource) *AnalysisService {
	return &AnalysisService{source: source}
}

// FilterSetPredicate composes one filter set's criteria with its view's
// shared criteria. A nil predicate matches every record.
func (s *AnalysisService) FilterSetPredicate(fs models.FilterSet, view *models.View) (clause.Expression, error) {
	return query.Compose(fs.Criteria, view.Criteria)
}

// viewPredicate unions all filter set predicates of a view. ok=false
// means the view has no filter sets and matches nothing.
func (s *AnalysisService) viewPredicate(view *models.View) (clause.Expression, bool, error) {
	preds := make([]clause.Expression, 0, len(view.FilterSets))
	for _, fs := range view.FilterSets {
		pred, err := s.FilterSetPredicate(fs, view)
		if err != nil {
			return nil, false, err
		}
		preds = append(preds, pred)
	}
	pred, ok := query.Union(preds)
	return pred, ok, nil
}

// TableRecords returns the distinct records matched by any of the view's
// filter sets, ordered by the report's date_range_begin. Because the
// predicates are merged before querying, a record cannot be attributed to
// the filter set that matched it here; only line and map data keep the
// per-set split.
func (s *AnalysisService) TableRecords(view *models.View) ([]models.Record, error) {
	pred, ok, err := s.viewPredicate(view)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.source.TableRecords(pred, 0, 0)
}

// TablePage returns one page of projected table rows for the view.
func (s *AnalysisService) TablePage(view *models.View, start, length int) (*TablePage, error) {
	pred, ok, err := s.viewPredicate(view)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &TablePage{Rows: [][]string{}}, nil
	}

	total, err := s.source.CountTableRecords(pred)
	if err != nil {
		return nil, err
	}
	records, err := s.source.TableRecords(pred, length, start)
	if err != nil {
		return nil, err
	}
	return &TablePage{
		Total:    total,
		Filtered: total,
		Rows:     TableRows(records),
	}, nil
}

// TableRows projects records into the fixed table/CSV columns. Callers
// may pass an externally paged record slice.
func TableRows(records []models.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, []string{
			r.Report.Reporter.OrgName,
			r.Report.Domain,
			stringOrEmpty(r.SourceIP),
			r.CountryISOCode,
			r.Report.DateRangeBegin.Format("20060102"),
			r.Report.DateRangeEnd.Format("20060102"),
			strconv.Itoa(r.Count),
			r.DKIMDomains(),
			r.DKIMResults(),
			r.DKIM.String(),
			r.SPFDomains(),
			r.SPFResults(),
			r.SPF.String(),
			r.Disposition.String(),
			r.Report.ReportID,
		})
	}
	return rows
}

// CSVData returns the header row followed by all table rows of the view.
func (s *AnalysisService) CSVData(view *models.View) ([][]string, error) {
	records, err := s.TableRecords(view)
	if err != nil {
		return nil, err
	}
	return append([][]string{CSVHeader}, TableRows(records)...), nil
}

// LineData resolves the view-level date range and collects each filter
// set's per-day aggregation. A view without a view-level date-range
// criterion cannot produce line data.
func (s *AnalysisService) LineData(view *models.View) (*LineData, error) {
	var rangeCriterion *models.FilterCriterion
	for i := range view.Criteria {
		if view.Criteria[i].Kind == models.KindDateRange {
			rangeCriterion = &view.Criteria[i]
			break
		}
	}
	if rangeCriterion == nil {
		return nil, query.ErrNoDateRange
	}
	rangeValue, err := rangeCriterion.DecodeDateRange()
	if err != nil {
		return nil, err
	}
	begin, end, err := query.ResolveBeginEnd(rangeValue, time.Now())
	if err != nil {
		return nil, err
	}

	data := &LineData{
		Begin:    begin.Format("20060102"),
		End:      end.Format("20060102"),
		DataSets: make([]LineDataSet, 0, len(view.FilterSets)),
	}
	for _, fs := range view.FilterSets {
		pred, err := s.FilterSetPredicate(fs, view)
		if err != nil {
			return nil, err
		}
		perDay, err := s.source.MessageCountPerDay(pred)
		if err != nil {
			return nil, fmt.Errorf("aggregating %q per day: %w", fs.Label, err)
		}
		data.DataSets = append(data.DataSets, LineDataSet{
			Label: fs.Label,
			Color: fs.Color,
			Data:  perDay,
		})
	}
	return data, nil
}

// MapData collects each filter set's per-country aggregation plus the
// bucketed geo points.
func (s *AnalysisService) MapData(view *models.View) ([]MapDataSet, error) {
	sets := make([]MapDataSet, 0, len(view.FilterSets))
	for _, fs := range view.FilterSets {
		pred, err := s.FilterSetPredicate(fs, view)
		if err != nil {
			return nil, err
		}
		perCountry, err := s.source.MessageCountPerCountry(pred)
		if err != nil {
			return nil, fmt.Errorf("aggregating %q per country: %w", fs.Label, err)
		}
		points, err := s.source.MessageCountPerPoint(pred)
		if err != nil {
			return nil, fmt.Errorf("aggregating %q map points: %w", fs.Label, err)
		}
		sets = append(sets, MapDataSet{
			Label:  fs.Label,
			Color:  fs.Color,
			Data:   perCountry,
			Points: points,
		})
	}
	return sets, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
