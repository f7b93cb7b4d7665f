package discount

// defaultItemRule applies the campaign-wide default slots to any line that
// reached the bottom of the pipeline without a discount.
type defaultItemRule struct {
	campaign  string
	value     *RuleConfig
	qty       *RuleConfig
	qtyThresh *RuleConfig
	unitPrice *RuleConfig
}

func (r defaultItemRule) ID() string       { return "default" }
func (r defaultItemRule) Repeatable() bool { return false }

func (r defaultItemRule) Apply(_ *Context, line LineItemData, res *Result) bool {
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
		{r.value, RuleTagDefaultLineValue, lineTotal},
		{r.qty, RuleTagDefaultLineQty, Money(line.Quantity)},
		{r.qtyThresh, RuleTagDefaultQtyThreshold, Money(line.Quantity)},
		{r.unitPrice, RuleTagDefaultUnitPrice, line.UnitPrice},
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
			DiscountKind: slot.rule.Type,
		})
	}
	return false
}
