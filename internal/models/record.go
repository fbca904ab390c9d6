package models

import (
	"github.com/google/uuid"
)

// Record is one row of a report: the aggregate authentication outcome for
// a single sending source IP.
type Record struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	Report   Report    `gorm:"foreignKey:ReportID" json:"-"`

	SourceIP       *string  `gorm:"size:45;index" json:"source_ip,omitempty"`
	CountryISOCode string   `gorm:"column:country_iso_code;size:2" json:"country_iso_code"`
	Latitude       *float64 `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude      *float64 `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`

	Count int `gorm:"not null;check:count >= 0" json:"count"`

	// Policy evaluated.
	Disposition Disposition `gorm:"not null" json:"disposition"`
	DKIM        DMARCResult `gorm:"column:dkim;not null" json:"dkim"`
	SPF         DMARCResult `gorm:"column:spf;not null" json:"spf"`

	// Identifiers.
	EnvelopeTo   *string `gorm:"size:100" json:"envelope_to,omitempty"`
	EnvelopeFrom *string `gorm:"size:100" json:"envelope_from,omitempty"`
	HeaderFrom   *string `gorm:"size:100" json:"header_from,omitempty"`

	// Denormalized count of DKIM auth-result rows, maintained at ingest
	// time so the multiple-DKIM filter needs no join.
	AuthResultDKIMCount int `gorm:"column:auth_result_dkim_count;default:0" json:"auth_result_dkim_count"`

	AuthResultDKIMs []AuthResultDKIM       `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"-"`
	AuthResultSPFs  []AuthResultSPF        `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"-"`
	OverrideReasons []PolicyOverrideReason `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"-"`
}

// AuthResultDKIM is one raw DKIM evaluation reported for a record.
type AuthResultDKIM struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecordID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"record_id"`
	Domain      string     `gorm:"size:100;not null" json:"domain"`
	Result      DKIMResult `gorm:"not null" json:"result"`
	HumanResult *string    `gorm:"size:200" json:"human_result,omitempty"`
}

func (AuthResultDKIM) TableName() string {
	return "auth_results_dkim"
}

// AuthResultSPF is one raw SPF evaluation reported for a record.
type AuthResultSPF struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"record_id"`
	Domain   string    `gorm:"size:100;not null" json:"domain"`
	Scope    *SPFScope `json:"scope,omitempty"`
	Result   SPFResult `gorm:"not null" json:"result"`
}

func (AuthResultSPF) TableName() string {
	return "auth_results_spf"
}

// PolicyOverrideReason is one justification a receiver gave for applying a
// disposition other than the published policy.
type PolicyOverrideReason struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecordID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"record_id"`
	ReasonType    *OverrideType `json:"reason_type,omitempty"`
	ReasonComment *string       `gorm:"size:200" json:"reason_comment,omitempty"`
}

// DKIMDomains joins the record's raw DKIM domains with spaces, the shape
// the table and CSV exports use.
func (r *Record) DKIMDomains() string {
	return joinAuthResults(len(r.AuthResultDKIMs), func(i int) string { return r.AuthResultDKIMs[i].Domain })
}

// DKIMResults joins the record's raw DKIM result labels with spaces.
func (r *Record) DKIMResults() string {
	return joinAuthResults(len(r.AuthResultDKIMs), func(i int) string { return r.AuthResultDKIMs[i].Result.String() })
}

// SPFDomains joins the record's raw SPF domains with spaces.
func (r *Record) SPFDomains() string {
	return joinAuthResults(len(r.AuthResultSPFs), func(i int) string { return r.AuthResultSPFs[i].Domain })
}

// SPFResults joins the record's raw SPF result labels with spaces.
func (r *Record) SPFResults() string {
	return joinAuthResults(len(r.AuthResultSPFs), func(i int) string { return r.AuthResultSPFs[i].Result.String() })
}

func joinAuthResults(n int, part func(int) string) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += " "
		}
		out += part(i)
	}
	return out
}
