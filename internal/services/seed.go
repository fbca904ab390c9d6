package services

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/postmasterly/dmarcview/internal/models"
)

// SeedDemoData loads a small report corpus and one example view so a
// fresh instance has something to analyze. It is a no-op when reports
// already exist.
func SeedDemoData(db *gorm.DB) error {
	var reportCount int64
	if err := db.Model(&models.Report{}).Count(&reportCount).Error; err != nil {
		return fmt.Errorf("checking for existing reports: %w", err)
	}
	if reportCount > 0 {
		return nil
	}

	reporters := []models.Reporter{
		{OrgName: "google.com", Email: "noreply-dmarc-support@google.com"},
		{OrgName: "Yahoo", Email: "dmarchelp@yahoo.com"},
	}
	if err := db.Create(&reporters).Error; err != nil {
		return fmt.Errorf("seeding reporters: %w", err)
	}

	base := time.Now().AddDate(0, 0, -14).Truncate(24 * time.Hour)
	pass := models.DMARCPass
	fail := models.DMARCFail

	type sourceFixture struct {
		ip      string
		country string
		lat     float64
		lon     float64
		count   int
		dkim    models.DMARCResult
		spf     models.DMARCResult
		disp    models.Disposition
	}
	sources := []sourceFixture{
		{"203.0.113.7", "US", 37.751, -97.822, 42, pass, pass, models.DispositionNone},
		{"198.51.100.23", "DE", 51.165, 10.455, 17, pass, fail, models.DispositionNone},
		{"192.0.2.44", "CN", 35.861, 104.195, 9, fail, fail, models.DispositionReject},
		{"203.0.113.99", "BR", -14.235, -51.925, 5, fail, pass, models.DispositionQuarantine},
	}

	for day := 0; day < 14; day++ {
		reporter := reporters[day%len(reporters)]
		begin := base.AddDate(0, 0, day)
		report := models.Report{
			Direction:      models.DirectionIncoming,
			ReportID:       fmt.Sprintf("demo-%s-%d", reporter.OrgName, begin.Unix()),
			DateRangeBegin: begin,
			DateRangeEnd:   begin.AddDate(0, 0, 1),
			ReporterID:     reporter.ID,
			Domain:         "example.org",
			P:              models.DispositionQuarantine,
		}
		for i, src := range sources {
			ip := src.ip
			lat, lon := src.lat, src.lon
			headerFrom := "example.org"
			record := models.Record{
				SourceIP:       &ip,
				CountryISOCode: src.country,
				Latitude:       &lat,
				Longitude:      &lon,
				Count:          src.count + day + i,
				Disposition:    src.disp,
				DKIM:           src.dkim,
				SPF:            src.spf,
				HeaderFrom:     &headerFrom,
			}
			record.AuthResultDKIMs = []models.AuthResultDKIM{
				{Domain: "example.org", Result: rawDKIM(src.dkim)},
			}
			record.AuthResultSPFs = []models.AuthResultSPF{
				{Domain: "example.org", Result: rawSPF(src.spf)},
			}
			record.AuthResultDKIMCount = len(record.AuthResultDKIMs)
			report.Records = append(report.Records, record)
		}
		if err := db.Create(&report).Error; err != nil {
			return fmt.Errorf("seeding report for day %d: %w", day, err)
		}
	}

	if err := seedDemoView(db); err != nil {
		return err
	}

	slog.Info("demo data seeded", "reports", 14)
	return nil
}

func seedDemoView(db *gorm.DB) error {
	unit := models.UnitMonth
	quantity := 1
	view := models.View{
		Title:     "Authentication results",
		Enabled:   true,
		TypeMap:   true,
		TypeTable: true,
		TypeLine:  true,
		Criteria: []models.FilterCriterion{
			{
				Kind: models.KindDateRange,
				Value: models.MustJSON(models.DateRangeValue{
					Type:     models.DateRangeVariable,
					Unit:     &unit,
					Quantity: &quantity,
				}),
			},
			{
				Kind:  models.KindReportType,
				Value: models.MustJSON(models.EnumValue{Value: int(models.DirectionIncoming)}),
			},
		},
		FilterSets: []models.FilterSet{
			{
				Label: "DKIM pass",
				Color: "#2ca02c",
				Criteria: []models.FilterCriterion{
					{Kind: models.KindAlignedDKIMResult, Value: models.MustJSON(models.EnumValue{Value: int(models.DMARCPass)})},
				},
			},
			{
				Label: "DKIM fail",
				Color: "#d62728",
				Criteria: []models.FilterCriterion{
					{Kind: models.KindAlignedDKIMResult, Value: models.MustJSON(models.EnumValue{Value: int(models.DMARCFail)})},
				},
			},
		},
	}
	if err := db.Create(&view).Error; err != nil {
		return fmt.Errorf("seeding demo view: %w", err)
	}
	return nil
}

func rawDKIM(aligned models.DMARCResult) models.DKIMResult {
	if aligned == models.DMARCPass {
		return models.DKIMPass
	}
	return models.DKIMFail
}

func rawSPF(aligned models.DMARCResult) models.SPFResult {
	if aligned == models.DMARCPass {
		return models.SPFPass
	}
	return models.SPFFail
}
