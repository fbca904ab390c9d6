package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// CriterionKind tags a filter-criterion variant.
type CriterionKind string

const (
	KindReportType           CriterionKind = "report_type"
	KindDateRange            CriterionKind = "date_range"
	KindReportSender         CriterionKind = "report_sender"
	KindReportReceiverDomain CriterionKind = "report_receiver_domain"
	KindSourceIP             CriterionKind = "source_ip"
	KindRawDKIMDomain        CriterionKind = "raw_dkim_domain"
	KindRawDKIMResult        CriterionKind = "raw_dkim_result"
	KindMultipleDKIM         CriterionKind = "multiple_dkim"
	KindRawSPFDomain         CriterionKind = "raw_spf_domain"
	KindRawSPFResult         CriterionKind = "raw_spf_result"
	KindAlignedDKIMResult    CriterionKind = "aligned_dkim_result"
	KindAlignedSPFResult     CriterionKind = "aligned_spf_result"
	KindDisposition          CriterionKind = "disposition"
)

// AllCriterionKinds lists every variant of the closed criterion family.
var AllCriterionKinds = []CriterionKind{
	KindReportType, KindDateRange, KindReportSender, KindReportReceiverDomain,
	KindSourceIP, KindRawDKIMDomain, KindRawDKIMResult, KindMultipleDKIM,
	KindRawSPFDomain, KindRawSPFResult, KindAlignedDKIMResult,
	KindAlignedSPFResult, KindDisposition,
}

// KnownKind reports whether k is part of the criterion family.
func KnownKind(k CriterionKind) bool {
	for _, known := range AllCriterionKinds {
		if known == k {
			return true
		}
	}
	return false
}

// StringValue is the payload of criteria that match one string field
// (sender email, domains, source IP).
type StringValue struct {
	Value string `json:"value" validate:"required"`
}

// EnumValue is the payload of criteria that match one enumerated field
// (results, disposition, report direction).
type EnumValue struct {
	Value int `json:"value" validate:"gte=0"`
}

// FlagValue is the payload of the multiple-DKIM criterion. The stored
// flag is currently never consulted when building the predicate.
type FlagValue struct {
	Value bool `json:"value"`
}

// DateRangeValue is the payload of a date-range criterion, either a fixed
// [Begin, End] window or a rolling "last Quantity Units" window.
type DateRangeValue struct {
	Type     DateRangeType `json:"type"`
	Begin    *time.Time    `json:"begin,omitempty"`
	End      *time.Time    `json:"end,omitempty"`
	Unit     *TimeUnit     `json:"unit,omitempty"`
	Quantity *int          `json:"quantity,omitempty"`
}

// DecodeString decodes the criterion payload as a StringValue.
func (c *FilterCriterion) DecodeString() (StringValue, error) {
	var v StringValue
	err := decodeValue(c.Value, &v)
	return v, err
}

// DecodeEnum decodes the criterion payload as an EnumValue.
func (c *FilterCriterion) DecodeEnum() (EnumValue, error) {
	var v EnumValue
	err := decodeValue(c.Value, &v)
	return v, err
}

// DecodeFlag decodes the criterion payload as a FlagValue.
func (c *FilterCriterion) DecodeFlag() (FlagValue, error) {
	var v FlagValue
	err := decodeValue(c.Value, &v)
	return v, err
}

// DecodeDateRange decodes the criterion payload as a DateRangeValue.
func (c *FilterCriterion) DecodeDateRange() (DateRangeValue, error) {
	var v DateRangeValue
	err := decodeValue(c.Value, &v)
	return v, err
}

func decodeValue(raw datatypes.JSON, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty criterion payload")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode criterion payload: %w", err)
	}
	return nil
}

// MustJSON marshals a criterion payload, panicking on failure. Intended
// for fixtures and tests where the payload is a literal.
func MustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(b)
}
