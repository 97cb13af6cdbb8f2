// Package rates holds the built-in validation rules for rate/fee
// documents.
package rates

import (
	"sort"

	"tarifario/internal/domain"
)

// namedRate pairs a rate with the key it is stored under, so issue
// messages can point at the offending column.
type namedRate struct {
	Name string
	Rate domain.Rate
}

// serviceRates returns every rate a service carries in deterministic
// order: plan rates sorted by key, then the standalone rate.
func serviceRates(svc *domain.FinancialService) []namedRate {
	keys := make([]string, 0, len(svc.Rates))
	for k := range svc.Rates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]namedRate, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, namedRate{Name: k, Rate: svc.Rates[k]})
	}
	if svc.Rate != nil {
		out = append(out, namedRate{Name: "rate", Rate: *svc.Rate})
	}
	return out
}
