package discount

// productRule matches lines by product id and tries the configured rule
// slots in fixed order: line value, line quantity, quantity threshold, unit
// price threshold.
type productRule struct {
	campaign string
	cfg      ProductDiscountConfig
	oneTime  bool
}

func (r productRule) ID() string       { return "product:" + r.cfg.ProductID }
func (r productRule) Repeatable() bool { return true }

func (r productRule) Apply(_ *Context, line LineItemData, res *Result) bool {
	if line.ProductID != r.cfg.ProductID {
		return false
	}
	lr := res.Line(line.LineID)
	if lr == nil {
		return false
	}
	lineTotal := line.LineTotal()

	slots := []struct {
		rule *RuleConfig
		tag  string
		test Money
	}{
		{r.cfg.LineValueRule, RuleTagProductLineValue, lineTotal},
		{r.cfg.LineQtyRule, RuleTagProductLineQty, Money(line.Quantity)},
		{r.cfg.QtyThresholdRule, RuleTagProductQtyThreshold, Money(line.Quantity)},
		{r.cfg.UnitPriceRule, RuleTagProductUnitPrice, line.UnitPrice},
	}
	for _, slot := range slots {
		amount := Evaluate(slot.rule, line.Quantity, lineTotal, slot.test)
		if amount <= 0 {
			continue
		}
		return lr.record(AppliedRuleInfo{
			CampaignName: r.campaign,
			RuleName:     slot.rule.Name,
			RuleType:     slot.tag,
			Amount:       amount,
			ProductID:    line.ProductID,
			BatchID:      line.BatchID,
			Qty:          line.Quantity,
			OneTime:      r.oneTime,
			DiscountKind: slot.rule.Type,
		})
	}
	return false
}
