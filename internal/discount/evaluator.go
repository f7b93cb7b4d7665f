package discount

// Evaluate computes the discount amount a single rule contributes given the
// line metrics. testValue is the metric the rule condition is checked
// against; callers pass lineTotal for value rules, the quantity for quantity
// rules and the unit price for unit price rules.
//
// The result is clamped to [0, lineTotal] so a discount can never invert a
// line's sign or exceed its value. Evaluate is pure and never mutates the
// rule.
func Evaluate(rc *RuleConfig, qty int64, lineTotal Money, testValue Money) Money {
	if rc == nil || !rc.Enabled {
		return 0
	}
	min := Money(0)
	if rc.ConditionMin != nil {
		min = *rc.ConditionMin
	}
	if testValue < min {
		return 0
	}
	if rc.ConditionMax != nil && testValue > *rc.ConditionMax {
		return 0
	}

	var amount Money
	switch rc.Type {
	case RuleTypeFixed:
		if rc.ApplyFixedOnce {
			amount = rc.Value
		} else {
			amount = rc.Value * Money(qty)
		}
	case RuleTypePercentage:
		// Percentages always apply to the whole line value, regardless of
		// ApplyFixedOnce. A per-unit percentage degenerates to the same total.
		amount = lineTotal * rc.Value / 100
	default:
		return 0
	}

	if amount > lineTotal {
		amount = lineTotal
	}
	if amount < 0 {
		return 0
	}
	return amount
}
