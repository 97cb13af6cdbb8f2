package rates_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarifario/internal/domain"
	"tarifario/internal/validator/rates"
)

func serviceWithRate(id string, rate domain.Rate) domain.FinancialService {
	svc := domain.FinancialService{
		ServiceID:    id,
		Description:  "Servicio " + id,
		BusinessLine: "accounts",
		TableType:    domain.TableTypeMobilePlans,
		Frequency:    domain.FrequencyMonthly,
	}
	svc.AddRate("g_zero", rate)
	return svc
}

func docWith(services ...domain.FinancialService) *domain.Document {
	doc := domain.NewDocument("doc-1", "accounts", "tarifas.xlsx")
	for _, svc := range services {
		doc.AddService(svc)
	}
	return doc
}

func TestNegativeRateRule(t *testing.T) {
	rule := rates.NewNegativeRateRule()

	fixed, _ := domain.FixedRate(decimal.NewFromInt(100), "")
	assert.Empty(t, rule.Validate(docWith(serviceWithRate("ok", fixed))))

	negative := domain.Rate{Type: domain.RateTypeFixed, Value: decimal.NewFromInt(-100)}
	issues := rule.Validate(docWith(serviceWithRate("negativo", negative)))
	require.Len(t, issues, 1)
	assert.Equal(t, domain.ValidationLevelError, issues[0].Level)
	assert.Equal(t, "negativo", issues[0].ServiceID)

	badConditional := domain.Rate{
		Type:           domain.RateTypeConditional,
		IncludedFree:   3,
		AdditionalCost: decimal.NewFromInt(-500),
	}
	issues = rule.Validate(docWith(serviceWithRate("condicional", badConditional)))
	assert.Len(t, issues, 1)
}

func TestConditionalRateRule(t *testing.T) {
	rule := rates.NewConditionalRateRule()

	complete, err := domain.ConditionalRate(3, decimal.NewFromInt(7510), "")
	require.NoError(t, err)
	assert.Empty(t, rule.Validate(docWith(serviceWithRate("completo", complete))))

	incomplete := domain.Rate{Type: domain.RateTypeConditional, IncludedFree: 3}
	issues := rule.Validate(docWith(serviceWithRate("incompleto", incomplete)))
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "missing")
}

func TestPercentageSanityRule(t *testing.T) {
	rule := rates.NewPercentageSanityRule(decimal.NewFromInt(100))

	sane, _ := domain.PercentageRate(decimal.NewFromInt(35))
	assert.Empty(t, rule.Validate(docWith(serviceWithRate("sano", sane))))

	absurd, _ := domain.PercentageRate(decimal.NewFromInt(250))
	issues := rule.Validate(docWith(serviceWithRate("absurdo", absurd)))
	require.Len(t, issues, 1)
	assert.Equal(t, domain.ValidationLevelWarning, issues[0].Level)

	// A stricter threshold catches lower values.
	strict := rates.NewPercentageSanityRule(decimal.NewFromInt(50))
	high, _ := domain.PercentageRate(decimal.NewFromInt(62))
	assert.Len(t, strict.Validate(docWith(serviceWithRate("alto", high))), 1)
}

func TestDuplicateDescriptionRule(t *testing.T) {
	rule := rates.NewDuplicateDescriptionRule()
	fixed, _ := domain.FixedRate(decimal.NewFromInt(100), "")

	a := serviceWithRate("a", fixed)
	a.Description = "Cuota de manejo"
	b := serviceWithRate("b", fixed)
	b.Description = "  cuota de MANEJO "
	c := serviceWithRate("c", fixed)
	c.Description = "Cuota de manejo"
	c.TableType = domain.TableTypeWithdrawals

	issues := rule.Validate(docWith(a, b, c))
	require.Len(t, issues, 1, "case and whitespace variants collide; other table types do not")
	assert.Equal(t, "b", issues[0].ServiceID)
}

func TestBusinessLineConsistencyRule(t *testing.T) {
	rule := rates.NewBusinessLineConsistencyRule()
	fixed, _ := domain.FixedRate(decimal.NewFromInt(100), "")

	a := serviceWithRate("a", fixed)
	b := serviceWithRate("b", fixed)
	b.BusinessLine = "loans"
	c := serviceWithRate("c", fixed)
	c.BusinessLine = "loans"

	issues := rule.Validate(docWith(a, b, c))
	require.Len(t, issues, 1, "a mixed table type is flagged once")
	assert.Contains(t, issues[0].Message, "accounts")
	assert.Contains(t, issues[0].Message, "loans")
}

func TestTableSizeRule(t *testing.T) {
	rule := rates.NewTableSizeRule(3)
	fixed, _ := domain.FixedRate(decimal.NewFromInt(100), "")

	var services []domain.FinancialService
	for i := 0; i < 4; i++ {
		svc := serviceWithRate("svc", fixed)
		svc.Description = strings.Repeat("x", i+1)
		services = append(services, svc)
	}

	issues := rule.Validate(docWith(services...))
	require.Len(t, issues, 1)
	assert.Equal(t, domain.TableTypeMobilePlans, issues[0].TableType)
}

func TestDescriptionLengthRule(t *testing.T) {
	rule := rates.NewDescriptionLengthRule(10)
	fixed, _ := domain.FixedRate(decimal.NewFromInt(100), "")

	ok := serviceWithRate("ok", fixed)
	ok.Description = "corto"
	long := serviceWithRate("largo", fixed)
	long.Description = strings.Repeat("á", 11)

	issues := rule.Validate(docWith(ok, long))
	require.Len(t, issues, 1)
	assert.Equal(t, "largo", issues[0].ServiceID)
	assert.Contains(t, issues[0].Message, "11")
}

func TestFrequencyRule(t *testing.T) {
	rule := rates.NewFrequencyRule(domain.AllowedFrequencies)
	fixed, _ := domain.FixedRate(decimal.NewFromInt(100), "")

	ok := serviceWithRate("ok", fixed)
	bad := serviceWithRate("malo", fixed)
	bad.Frequency = "quincenal"
	empty := serviceWithRate("vacio", fixed)
	empty.Frequency = ""

	issues := rule.Validate(docWith(ok, bad, empty))
	require.Len(t, issues, 1, "empty frequency is the required-fields rule's concern")
	assert.Equal(t, "malo", issues[0].ServiceID)
}
