package models

import (
	"testing"
	"time"
)

func TestKnownKind(t *testing.T) {
	for _, kind := range AllCriterionKinds {
		if !KnownKind(kind) {
			t.Errorf("%s not recognized", kind)
		}
	}
	if KnownKind(CriterionKind("bogus")) {
		t.Error("unknown kind recognized")
	}
}

func TestDecodePayloads(t *testing.T) {
	c := FilterCriterion{Value: MustJSON(StringValue{Value: "example.org"})}
	if v, err := c.DecodeString(); err != nil || v.Value != "example.org" {
		t.Errorf("DecodeString = %+v, %v", v, err)
	}

	c = FilterCriterion{Value: MustJSON(EnumValue{Value: 2})}
	if v, err := c.DecodeEnum(); err != nil || v.Value != 2 {
		t.Errorf("DecodeEnum = %+v, %v", v, err)
	}

	c = FilterCriterion{Value: MustJSON(FlagValue{Value: true})}
	if v, err := c.DecodeFlag(); err != nil || !v.Value {
		t.Errorf("DecodeFlag = %+v, %v", v, err)
	}

	unit := UnitMonth
	quantity := 3
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c = FilterCriterion{Value: MustJSON(DateRangeValue{
		Type: DateRangeVariable, Unit: &unit, Quantity: &quantity, Begin: &begin,
	})}
	v, err := c.DecodeDateRange()
	if err != nil {
		t.Fatalf("DecodeDateRange: %v", err)
	}
	if v.Type != DateRangeVariable || v.Unit == nil || *v.Unit != UnitMonth || *v.Quantity != 3 {
		t.Errorf("DecodeDateRange = %+v", v)
	}
}

func TestDecodeRejectsEmptyAndMalformedPayloads(t *testing.T) {
	c := FilterCriterion{}
	if _, err := c.DecodeString(); err == nil {
		t.Error("empty payload accepted")
	}
	c = FilterCriterion{Value: []byte(`{"value"`)}
	if _, err := c.DecodeEnum(); err == nil {
		t.Error("malformed payload accepted")
	}
}

func TestRecordAuthResultJoins(t *testing.T) {
	r := Record{
		AuthResultDKIMs: []AuthResultDKIM{
			{Domain: "example.org", Result: DKIMPass},
			{Domain: "mailer.example.org", Result: DKIMTempError},
		},
		AuthResultSPFs: []AuthResultSPF{{Domain: "example.org", Result: SPFSoftFail}},
	}

	if got := r.DKIMDomains(); got != "example.org mailer.example.org" {
		t.Errorf("DKIMDomains = %q", got)
	}
	if got := r.DKIMResults(); got != "pass temperror" {
		t.Errorf("DKIMResults = %q", got)
	}
	if got := r.SPFDomains(); got != "example.org" {
		t.Errorf("SPFDomains = %q", got)
	}
	if got := r.SPFResults(); got != "softfail" {
		t.Errorf("SPFResults = %q", got)
	}

	empty := Record{}
	if got := empty.DKIMDomains(); got != "" {
		t.Errorf("empty DKIMDomains = %q", got)
	}
}
