package services

import (
	"fmt"
	"time"

	"github.com/postmasterly/dmarcview/internal/models"
	"github.com/postmasterly/dmarcview/internal/store"
)

// OverviewSource is the slice of the record store the overview needs.
type OverviewSource interface {
	OldestReportDate(direction models.ReportDirection) (*time.Time, error)
	DomainCount(direction models.ReportDirection) (int64, error)
	ReportCount(direction models.ReportDirection) (int64, error)
	MessageCount(direction models.ReportDirection) (int64, error)
	MessageCountPerColumn(direction models.ReportDirection, column string) ([]store.EnumCount, error)
}

// LabelCount is one labelled slice of an overview breakdown.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// DirectionSummary is the overview of one report direction.
type DirectionSummary struct {
	OldestDate   *time.Time   `json:"oldest_date"`
	DomainCount  int64        `json:"domain_cnt"`
	ReportCount  int64        `json:"report_cnt"`
	MessageCount int64        `json:"message_cnt"`
	DKIM         []LabelCount `json:"dkim"`
	SPF          []LabelCount `json:"spf"`
	Disposition  []LabelCount `json:"disposition"`
}

// Overview pairs the incoming and outgoing summaries.
type Overview struct {
	Incoming DirectionSummary `json:"incoming"`
	Outgoing DirectionSummary `json:"outgoing"`
}

// OverviewService derives the dashboard summary numbers.
type OverviewService struct {
	source OverviewSource
}

func NewOverviewService(source OverviewSource) *OverviewService {
	return &OverviewService{source: source}
}

func (s *OverviewService) Overview() (*Overview, error) {
	incoming, err := s.directionSummary(models.DirectionIncoming)
	if err != nil {
		return nil, err
	}
	outgoing, err := s.directionSummary(models.DirectionOutgoing)
	if err != nil {
		return nil, err
	}
	return &Overview{Incoming: *incoming, Outgoing: *outgoing}, nil
}

func (s *OverviewService) directionSummary(d models.ReportDirection) (*DirectionSummary, error) {
	summary := &DirectionSummary{}

	var err error
	if summary.OldestDate, err = s.source.OldestReportDate(d); err != nil {
		return nil, fmt.Errorf("overview %s: %w", d, err)
	}
	if summary.DomainCount, err = s.source.DomainCount(d); err != nil {
		return nil, fmt.Errorf("overview %s: %w", d, err)
	}
	if summary.ReportCount, err = s.source.ReportCount(d); err != nil {
		return nil, fmt.Errorf("overview %s: %w", d, err)
	}
	if summary.MessageCount, err = s.source.MessageCount(d); err != nil {
		return nil, fmt.Errorf("overview %s: %w", d, err)
	}

	dkim, err := s.source.MessageCountPerColumn(d, "dkim")
	if err != nil {
		return nil, fmt.Errorf("overview %s: %w", d, err)
	}
	summary.DKIM = labelDMARC(dkim)

	spf, err := s.source.MessageCountPerColumn(d, "spf")
	if err != nil {
		return nil, fmt.Errorf("overview %s: %w", d, err)
	}
	summary.SPF = labelDMARC(spf)

	disposition, err := s.source.MessageCountPerColumn(d, "disposition")
	if err != nil {
		return nil, fmt.Errorf("overview %s: %w", d, err)
	}
	summary.Disposition = labelDisposition(disposition)

	return summary, nil
}

func labelDMARC(rows []store.EnumCount) []LabelCount {
	out := make([]LabelCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, LabelCount{Label: models.DMARCResult(row.Value).String(), Count: row.Count})
	}
	return out
}

func labelDisposition(rows []store.EnumCount) []LabelCount {
	out := make([]LabelCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, LabelCount{Label: models.Disposition(row.Value).String(), Count: row.Count})
	}
	return out
}
