package extract

import "tarifario/internal/domain"

// AccountsRules returns the extraction rules for the accounts business
// line: mobile-account rate/fee workbooks with plan-tier tables, transfer
// and withdrawal fee tables and a traditional-services table.
func AccountsRules() BusinessRules {
	return BusinessRules{
		BusinessLine: "accounts",

		SheetIndicators:    []string{"cuenta", "tarifa", "limite", "servicio", "account", "fee"},
		FilenameIndicators: []string{"cuenta", "tarifa", "account", "fee"},
		SkipSheetPatterns:  []string{"legal", "nota", "cambio", "indice", "índice"},

		Detector: DefaultDetectorConfig(),

		DescriptionHeaderPatterns: []string{"descripci", "concepto", "servicio", "detalle"},

		PlanColumns: map[string]string{
			"g-zero":    "g_zero",
			"g - zero":  "g_zero",
			"plan plus": "puls",
			"plan puls": "puls",
			"premier":   "premier",
		},
		RequiredPlanKeys:       []string{"g_zero", "puls", "premier"},
		StandaloneValueHeaders: []string{"valor (sin iva)"},
		ValueHeaderPatterns:    []string{"valor"},

		TaxHeaderPatterns:        []string{"aplica_iva", "iva"},
		FrequencyHeaderPatterns:  []string{"frecuencia"},
		DisclaimerHeaderPatterns: []string{"disclaimer"},

		TableTypeRules: []TableTypeRule{
			{
				Type:     domain.TableTypeMobilePlans,
				Patterns: []string{"planes", "app", "movil", "móvil"},
			},
			{
				Type:     domain.TableTypeTransfers,
				Patterns: []string{"enviar", "transferencia", "ach", "transfiya", "llaves"},
				Keywords: []string{"dinero", "cuentas", "bancos"},
			},
			{
				Type:     domain.TableTypeWithdrawals,
				Patterns: []string{"retiro", "cajero", "oficina", "corresponsal"},
				Keywords: []string{"debito", "débito", "tarjeta", "medio"},
			},
			{
				Type:     domain.TableTypeTraditionalServices,
				Patterns: []string{"tradicional", "certificacion", "certificación", "extracto", "consulta"},
			},
		},

		ServiceIDRules: []ServiceIDRule{
			{Pattern: "app", ID: "app_opening"},
			{Pattern: "debito digital", ID: "digital_debit_card"},
			{Pattern: "retiro", ID: "withdrawal"},
			{Pattern: "talonario", ID: "checkbook"},
			{Pattern: "cheque", ID: "cashier_check"},
			{Pattern: "transferencia", ID: "transfer"},
			{Pattern: "ach", ID: "ach_transfer"},
			{Pattern: "transfiya", ID: "transfiya_transfer"},
			{Pattern: "llaves", ID: "keys_transfer"},
			{Pattern: "cajero", ID: "atm"},
			{Pattern: "corresponsal", ID: "correspondent"},
			{Pattern: "oficina", ID: "branch"},
		},
	}
}

type accountsStrategy struct {
	baseStrategy
}

// NewAccountsStrategy creates the accounts extraction strategy. The
// generic table pipeline covers accounts fully; no behavior is overridden.
func NewAccountsStrategy() Strategy {
	return NewAccountsStrategyWith(AccountsRules())
}

// NewAccountsStrategyWith creates the accounts strategy over tuned rules.
func NewAccountsStrategyWith(rules BusinessRules) Strategy {
	return &accountsStrategy{baseStrategy: newBaseStrategy(rules)}
}
