// Package store queries DMARC report records with composed predicates and
// derives the aggregations the analysis views are built from.
package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postmasterly/dmarcview/internal/models"
)

// DayCount is one (YYYYMMDD, summed message count) pair.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// CountryCount is one (ISO country code, summed message count) pair.
type CountryCount struct {
	Country string `gorm:"column:country" json:"country"`
	Count   int64  `gorm:"column:count" json:"count"`
}

// EnumCount is one (enum value, summed message count) pair, used by the
// overview breakdowns.
type EnumCount struct {
	Value int   `gorm:"column:value" json:"value"`
	Count int64 `gorm:"column:count" json:"count"`
}

// Store runs structured queries against the relational record store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// recordQuery is the base row set every predicate is evaluated against:
// records joined with their report and its reporter, so criteria can
// reach report and reporter fields directly.
func (s *Store) recordQuery() *gorm.DB {
	return s.db.Model(&models.Record{}).
		Joins("JOIN reports ON reports.id = records.report_id").
		Joins("JOIN reporters ON reporters.id = reports.reporter_id")
}

func applyPredicate(q *gorm.DB, pred clause.Expression) *gorm.DB {
	if pred == nil {
		return q
	}
	return q.Where(pred)
}

// Records returns the records matching pred, without distinct or ordering.
func (s *Store) Records(pred clause.Expression) ([]models.Record, error) {
	var records []models.Record
	err := applyPredicate(s.recordQuery(), pred).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	return records, nil
}

// TableRecords returns distinct matching records ordered ascending by the
// owning report's date_range_begin, with report, reporter and raw auth
// results preloaded for projection. limit <= 0 disables pagination.
func (s *Store) TableRecords(pred clause.Expression, limit, offset int) ([]models.Record, error) {
	var records []models.Record
	q := applyPredicate(s.recordQuery(), pred).
		Preload("Report.Reporter").
		Preload("AuthResultDKIMs").
		Preload("AuthResultSPFs").
		Distinct("records.*", "reports.date_range_begin").
		Order("reports.date_range_begin ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("querying table records: %w", err)
	}
	return records, nil
}

// CountTableRecords counts the distinct records matching pred.
func (s *Store) CountTableRecords(pred clause.Expression) (int64, error) {
	var total int64
	err := applyPredicate(s.recordQuery(), pred).
		Distinct("records.id").
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("counting table records: %w", err)
	}
	return total, nil
}

type beginCount struct {
	Begin time.Time `gorm:"column:begin"`
	Count int64     `gorm:"column:count"`
}

// MessageCountPerDay groups matching records by the calendar date of the
// report's date_range_begin and sums their message counts, ascending by
// date. The date key is computed here rather than in SQL so the store
// needs no dialect-specific date formatting.
func (s *Store) MessageCountPerDay(pred clause.Expression) ([]DayCount, error) {
	var rows []beginCount
	err := applyPredicate(s.recordQuery(), pred).
		Select("reports.date_range_begin AS begin, records.count AS count").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying per-day counts: %w", err)
	}
	return dayBuckets(rows), nil
}

func dayBuckets(rows []beginCount) []DayCount {
	sums := make(map[string]int64, len(rows))
	for _, row := range rows {
		sums[row.Begin.Format("20060102")] += row.Count
	}
	out := make([]DayCount, 0, len(sums))
	for date, count := range sums {
		out = append(out, DayCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// MessageCountPerCountry groups matching records by country code and sums
// their message counts. Order is unspecified.
func (s *Store) MessageCountPerCountry(pred clause.Expression) ([]CountryCount, error) {
	var rows []CountryCount
	err := applyPredicate(s.recordQuery(), pred).
		Select("records.country_iso_code AS country, SUM(records.count) AS count").
		Group("records.country_iso_code").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying per-country counts: %w", err)
	}
	return rows, nil
}

// OldestReportDate returns the begin of the oldest report in the given
// direction, or nil when no reports exist.
func (s *Store) OldestReportDate(direction models.ReportDirection) (*time.Time, error) {
	var report models.Report
	err := s.db.Where("report_type = ?", direction).
		Order("date_range_begin ASC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying oldest report date: %w", err)
	}
	return &report.DateRangeBegin, nil
}

// DomainCount counts the distinct policy domains reported on in the given
// direction.
func (s *Store) DomainCount(direction models.ReportDirection) (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).
		Where("report_type = ?", direction).
		Distinct("domain").
		Count(&n).Error
	return n, err
}

// ReportCount counts the reports in the given direction.
func (s *Store) ReportCount(direction models.ReportDirection) (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).
		Where("report_type = ?", direction).
		Count(&n).Error
	return n, err
}

// MessageCount sums the message counts of all records in the given
// direction.
func (s *Store) MessageCount(direction models.ReportDirection) (int64, error) {
	var n *int64
	err := s.db.Model(&models.Record{}).
		Joins("JOIN reports ON reports.id = records.report_id").
		Where("reports.report_type = ?", direction).
		Select("SUM(records.count)").
		Scan(&n).Error
	if err != nil || n == nil {
		return 0, err
	}
	return *n, nil
}

// MessageCountPerColumn sums message counts grouped by one evaluated
// record column (dkim, spf or disposition) for the overview breakdowns.
// The column name is fixed by the callers, never user input.
func (s *Store) MessageCountPerColumn(direction models.ReportDirection, column string) ([]EnumCount, error) {
	var rows []EnumCount
	err := s.db.Model(&models.Record{}).
		Joins("JOIN reports ON reports.id = records.report_id").
		Where("reports.report_type = ?", direction).
		Select(fmt.Sprintf("records.%s AS value, SUM(records.count) AS count", column)).
		Group(fmt.Sprintf("records.%s", column)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying per-%s counts: %w", column, err)
	}
	return rows, nil
}
