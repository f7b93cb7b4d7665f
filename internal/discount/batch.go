package discount

// batchRule matches lines by stock batch id. It predates product-level
// configuration but keeps priority over it; the pipeline order preserves
// that.
type batchRule struct {
	campaign string
	cfg      BatchDiscountConfig
	oneTime  bool
}

func (r batchRule) ID() string       { return "batch:" + r.cfg.BatchID }
func (r batchRule) Repeatable() bool { return true }

func (r batchRule) Apply(_ *Context, line LineItemData, res *Result) bool {
	if line.BatchID == "" || line.BatchID != r.cfg.BatchID {
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
		{r.cfg.LineValueRule, RuleTagBatchLineValue, lineTotal},
		{r.cfg.LineQtyRule, RuleTagBatchLineQty, Money(line.Quantity)},
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
