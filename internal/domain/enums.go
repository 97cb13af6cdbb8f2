package domain

// TableType classifies the business meaning of a discovered table.
type TableType string

const (
	TableTypeMobilePlans         TableType = "mobile_plans"
	TableTypeTransfers           TableType = "transfers"
	TableTypeWithdrawals         TableType = "withdrawals"
	TableTypeTraditionalServices TableType = "traditional_services"
	TableTypeUnknown             TableType = "unknown"
)

// MultiPlanTableTypes are the table types whose rows carry one rate per plan.
var MultiPlanTableTypes = map[TableType]bool{
	TableTypeMobilePlans: true,
	TableTypeTransfers:   true,
	TableTypeWithdrawals: true,
}

// RateType tags the variants of a Rate.
type RateType string

const (
	RateTypeFixed         RateType = "fixed"
	RateTypePercentage    RateType = "percentage"
	RateTypeConditional   RateType = "conditional"
	RateTypeUnlimited     RateType = "unlimited"
	RateTypeNotApplicable RateType = "not_applicable"
	RateTypeText          RateType = "text"
)

// Frequency values recognized after normalization. Unrecognized source
// values are passed through lower-cased so validation can flag them.
const (
	FrequencyMonthly        = "monthly"
	FrequencyPerTransaction = "per_transaction"
	FrequencyOneTime        = "one_time"
	FrequencyOnDemand       = "on_demand"
	FrequencyYearly         = "yearly"
	FrequencyUnknown        = "unknown"
)

// AllowedFrequencies is the closed set accepted by validation.
var AllowedFrequencies = map[string]bool{
	FrequencyMonthly:        true,
	FrequencyPerTransaction: true,
	FrequencyOneTime:        true,
	FrequencyOnDemand:       true,
	FrequencyYearly:         true,
	FrequencyUnknown:        true,
}

// ValidationLevel is the severity of a validation issue.
type ValidationLevel string

const (
	ValidationLevelError   ValidationLevel = "error"
	ValidationLevelWarning ValidationLevel = "warning"
	ValidationLevelInfo    ValidationLevel = "info"
)

// ReportStatus is the overall outcome of a validation pass.
type ReportStatus string

const (
	ReportStatusPassed   ReportStatus = "passed"
	ReportStatusWarnings ReportStatus = "passed_with_warnings"
	ReportStatusFailed   ReportStatus = "failed"
)
