package models

import (
	"time"

	"github.com/google/uuid"
)

// Reporter is the organization that generated aggregate reports.
type Reporter struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrgName          string    `gorm:"size:100;not null" json:"org_name"`
	Email            string    `gorm:"size:100;not null" json:"email"`
	ExtraContactInfo *string   `gorm:"size:200" json:"extra_contact_info,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	Reports []Report `gorm:"foreignKey:ReporterID" json:"-"`
}

// Report is one DMARC aggregate feedback document. The schema calls this
// element "feedback".
type Report struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Direction   ReportDirection `gorm:"column:report_type;not null;index" json:"direction"`
	DateCreated time.Time       `gorm:"autoCreateTime" json:"date_created"`

	ReportID       string    `gorm:"size:200;not null;uniqueIndex" json:"report_id"`
	DateRangeBegin time.Time `gorm:"not null;index" json:"date_range_begin"`
	DateRangeEnd   time.Time `gorm:"not null" json:"date_range_end"`
	Version        *float64  `gorm:"type:decimal(4,2)" json:"version,omitempty"`

	ReporterID uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reporter   Reporter  `gorm:"foreignKey:ReporterID" json:"-"`

	// Policy published by the domain owner at reporting time.
	Domain string         `gorm:"size:100;not null;index" json:"domain"`
	ADKIM  *AlignmentMode `gorm:"column:adkim" json:"adkim,omitempty"`
	ASPF   *AlignmentMode `gorm:"column:aspf" json:"aspf,omitempty"`
	P      Disposition    `gorm:"not null" json:"p"`
	SP     *Disposition   `gorm:"column:sp" json:"sp,omitempty"`
	Pct    *int           `json:"pct,omitempty"`
	FO     *string        `gorm:"column:fo;size:8" json:"fo,omitempty"`

	Records []Record      `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	Errors  []ReportError `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}

// ReportError is one parse or validation error attached to a report.
type ReportError struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Error    string    `gorm:"size:200;not null" json:"error"`
}
