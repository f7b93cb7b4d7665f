package discount

import "fmt"

// buyGetItemRule distributes a buy-X-get-Y entitlement across lines of the
// "get" product in cart iteration order. Units already granted are tracked on
// the Result, keyed by the rule identity, so the instance itself stays
// stateless between Process calls.
type buyGetItemRule struct {
	campaign string
	cfg      BuyGetRule
	names    NameResolver
	oneTime  bool
}

func (r buyGetItemRule) ID() string {
	return "buyget:" + r.cfg.BuyProductID + ":" + r.cfg.GetProductID
}

func (r buyGetItemRule) Repeatable() bool { return true }

func (r buyGetItemRule) Apply(dc *Context, line LineItemData, res *Result) bool {
	if !r.cfg.Enabled || line.ProductID != r.cfg.GetProductID || line.Quantity <= 0 {
		return false
	}
	lr := res.Line(line.LineID)
	if lr == nil {
		return false
	}

	var totalBuy int64
	for _, l := range dc.Lines {
		if l.ProductID == r.cfg.BuyProductID && l.Quantity > 0 {
			totalBuy += l.Quantity
		}
	}
	if totalBuy < r.cfg.BuyQty {
		return false
	}

	entitled := r.cfg.GetQty
	if r.cfg.Repeatable {
		entitled = (totalBuy / r.cfg.BuyQty) * r.cfg.GetQty
	}
	remaining := entitled - res.granted(r.ID())
	if remaining <= 0 {
		return false
	}
	units := line.Quantity
	if units > remaining {
		units = remaining
	}

	var perUnit Money
	switch r.cfg.DiscountType {
	case RuleTypeFixed:
		perUnit = r.cfg.DiscountValue
	default:
		perUnit = line.UnitPrice * r.cfg.DiscountValue / 100
	}
	amount := perUnit * Money(units)
	if lineTotal := line.LineTotal(); amount > lineTotal {
		amount = lineTotal
	}
	if amount <= 0 {
		return false
	}

	applied := lr.record(AppliedRuleInfo{
		CampaignName: r.campaign,
		RuleName:     r.ruleName(),
		RuleType:     RuleTagBuyGet,
		Amount:       amount,
		ProductID:    line.ProductID,
		BatchID:      line.BatchID,
		Qty:          units,
		OneTime:      r.oneTime,
		DiscountKind: r.cfg.DiscountType,
	})
	if applied {
		res.addGrant(r.ID(), units)
	}
	return applied
}

func (r buyGetItemRule) ruleName() string {
	if r.cfg.Name != "" {
		return r.cfg.Name
	}
	target := r.cfg.GetProductID
	if r.names != nil {
		if name := r.names.ProductName(r.cfg.GetProductID); name != "" {
			target = name
		}
	}
	return fmt.Sprintf("Buy %d get %d %s", r.cfg.BuyQty, r.cfg.GetQty, target)
}
