package discount

// customItemRule honours a manual override entered on the line itself. It has
// the highest priority and always wins over campaign rules.
type customItemRule struct {
	campaign string
}

func (r customItemRule) ID() string       { return "custom" }
func (r customItemRule) Repeatable() bool { return false }

func (r customItemRule) Apply(_ *Context, line LineItemData, res *Result) bool {
	if line.CustomDiscountValue <= 0 {
		return false
	}
	lr := res.Line(line.LineID)
	if lr == nil {
		return false
	}
	lineTotal := line.LineTotal()

	var amount Money
	kind := line.CustomDiscountType
	switch kind {
	case RuleTypePercentage:
		amount = lineTotal * line.CustomDiscountValue / 100
	default:
		kind = RuleTypeFixed
		if line.CustomApplyFixedOnce {
			amount = line.CustomDiscountValue
		} else {
			amount = line.CustomDiscountValue * Money(line.Quantity)
		}
	}
	if amount > lineTotal {
		amount = lineTotal
	}
	if amount <= 0 {
		return false
	}
	return lr.record(AppliedRuleInfo{
		CampaignName: r.campaign,
		RuleName:     "Manual line discount",
		RuleType:     RuleTagCustomItem,
		Amount:       amount,
		ProductID:    line.ProductID,
		BatchID:      line.BatchID,
		Qty:          line.Quantity,
		DiscountKind: kind,
	})
}
