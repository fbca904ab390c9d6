package models

// ReportDirection tells incoming (reports about our domains) apart from
// outgoing (reports we generated about foreign senders). It is not a
// network direction.
type ReportDirection int

const (
	DirectionIncoming ReportDirection = 0
	DirectionOutgoing ReportDirection = 1
)

func (d ReportDirection) String() string {
	switch d {
	case DirectionIncoming:
		return "incoming"
	case DirectionOutgoing:
		return "outgoing"
	}
	return "unknown"
}

// Disposition is the policy action a receiver applied (RFC 7489 disposition).
type Disposition int

const (
	DispositionNone       Disposition = 0
	DispositionQuarantine Disposition = 1
	DispositionReject     Disposition = 2
)

func (d Disposition) String() string {
	switch d {
	case DispositionNone:
		return "none"
	case DispositionQuarantine:
		return "quarantine"
	case DispositionReject:
		return "reject"
	}
	return "unknown"
}

// DMARCResult is the aligned (policy-evaluated) DKIM/SPF outcome.
type DMARCResult int

const (
	DMARCPass DMARCResult = 0
	DMARCFail DMARCResult = 1
)

func (r DMARCResult) String() string {
	switch r {
	case DMARCPass:
		return "pass"
	case DMARCFail:
		return "fail"
	}
	return "unknown"
}

// DKIMResult is the raw DKIM verification outcome (RFC 7489 DKIMResultType).
type DKIMResult int

const (
	DKIMNone      DKIMResult = 0
	DKIMPass      DKIMResult = 1
	DKIMFail      DKIMResult = 2
	DKIMPolicy    DKIMResult = 3
	DKIMNeutral   DKIMResult = 4
	DKIMTempError DKIMResult = 5
	DKIMPermError DKIMResult = 6
)

func (r DKIMResult) String() string {
	switch r {
	case DKIMNone:
		return "none"
	case DKIMPass:
		return "pass"
	case DKIMFail:
		return "fail"
	case DKIMPolicy:
		return "policy"
	case DKIMNeutral:
		return "neutral"
	case DKIMTempError:
		return "temperror"
	case DKIMPermError:
		return "permerror"
	}
	return "unknown"
}

// SPFResult is the raw SPF check outcome (RFC 7489 SPFResultType).
type SPFResult int

const (
	SPFNone      SPFResult = 0
	SPFNeutral   SPFResult = 1
	SPFPass      SPFResult = 2
	SPFFail      SPFResult = 3
	SPFSoftFail  SPFResult = 4
	SPFTempError SPFResult = 5
	SPFPermError SPFResult = 6
)

func (r SPFResult) String() string {
	switch r {
	case SPFNone:
		return "none"
	case SPFNeutral:
		return "neutral"
	case SPFPass:
		return "pass"
	case SPFFail:
		return "fail"
	case SPFSoftFail:
		return "softfail"
	case SPFTempError:
		return "temperror"
	case SPFPermError:
		return "permerror"
	}
	return "unknown"
}

// SPFScope is the identity the SPF check was performed against.
type SPFScope int

const (
	SPFScopeHelo  SPFScope = 0
	SPFScopeMFrom SPFScope = 1
)

func (s SPFScope) String() string {
	switch s {
	case SPFScopeHelo:
		return "helo"
	case SPFScopeMFrom:
		return "mfrom"
	}
	return "unknown"
}

// AlignmentMode is the published adkim/aspf alignment strictness.
type AlignmentMode int

const (
	AlignmentRelaxed AlignmentMode = 0
	AlignmentStrict  AlignmentMode = 1
)

func (m AlignmentMode) String() string {
	switch m {
	case AlignmentRelaxed:
		return "relaxed"
	case AlignmentStrict:
		return "strict"
	}
	return "unknown"
}

// OverrideType is the reason a receiver overrode the published policy.
type OverrideType int

const (
	OverrideForwarded        OverrideType = 0
	OverrideSampledOut       OverrideType = 1
	OverrideTrustedForwarder OverrideType = 2
	OverrideMailingList      OverrideType = 3
	OverrideLocalPolicy      OverrideType = 4
	OverrideOther            OverrideType = 5
)

func (t OverrideType) String() string {
	switch t {
	case OverrideForwarded:
		return "forwarded"
	case OverrideSampledOut:
		return "sampled_out"
	case OverrideTrustedForwarder:
		return "trusted_forwarder"
	case OverrideMailingList:
		return "mailing_list"
	case OverrideLocalPolicy:
		return "local_policy"
	case OverrideOther:
		return "other"
	}
	return "unknown"
}

// DateRangeType selects between a fixed begin/end window and a rolling
// "last N units" window resolved at query time.
type DateRangeType int

const (
	DateRangeFixed    DateRangeType = 0
	DateRangeVariable DateRangeType = 1
)

// TimeUnit is the unit of a variable date range.
type TimeUnit int

const (
	UnitDay   TimeUnit = 0
	UnitWeek  TimeUnit = 1
	UnitMonth TimeUnit = 2
	UnitYear  TimeUnit = 3
)

func (u TimeUnit) String() string {
	switch u {
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	}
	return "unknown"
}
