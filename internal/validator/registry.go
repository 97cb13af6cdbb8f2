package validator

// Registry holds the rule set in registration order. Order matters: the
// report's issue sequence follows it, and tests rely on it being
// deterministic.
type Registry struct {
	rules []Rule
	byKey map[string]Rule
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Rule)}
}

// Register appends a rule. A rule with a duplicate key replaces the
// earlier registration in place, keeping its position.
func (r *Registry) Register(rule Rule) {
	if _, exists := r.byKey[rule.RuleKey()]; exists {
		for i, existing := range r.rules {
			if existing.RuleKey() == rule.RuleKey() {
				r.rules[i] = rule
				break
			}
		}
	} else {
		r.rules = append(r.rules, rule)
	}
	r.byKey[rule.RuleKey()] = rule
}

// Get returns the rule for a given key, or nil if not registered.
func (r *Registry) Get(key string) Rule {
	return r.byKey[key]
}

// All returns the rules in registration order.
func (r *Registry) All() []Rule {
	return r.rules
}
