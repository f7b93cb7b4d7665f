package discount

// cartTotalRule runs once after the item phase against the subtotal net of
// item discounts and the total quantity across all lines. The price threshold
// slot is tried before the quantity threshold slot; a single cart-wide
// discount results.
type cartTotalRule struct {
	campaign  string
	priceRule *RuleConfig
	qtyRule   *RuleConfig
}

func (r cartTotalRule) Apply(dc *Context, res *Result) bool {
	subtotal := res.itemSubtotalAfterDiscounts()
	totalQty := dc.TotalQuantity()

	slots := []struct {
		rule *RuleConfig
		tag  string
		test Money
	}{
		{r.priceRule, RuleTagCartPriceThreshold, subtotal},
		{r.qtyRule, RuleTagCartQtyThreshold, Money(totalQty)},
	}
	for _, slot := range slots {
		amount := Evaluate(slot.rule, totalQty, subtotal, slot.test)
		if amount <= 0 {
			continue
		}
		return res.recordCart(AppliedRuleInfo{
			CampaignName: r.campaign,
			RuleName:     slot.rule.Name,
			RuleType:     slot.tag,
			Amount:       amount,
			Qty:          totalQty,
			DiscountKind: slot.rule.Type,
		})
	}
	return false
}
