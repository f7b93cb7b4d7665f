package discount

import (
	"fmt"
)

// AppliedRuleInfo is an audit record created once per successful rule
// application. It is never mutated after creation.
type AppliedRuleInfo struct {
	CampaignName string   `json:"campaignName"`
	RuleName     string   `json:"ruleName"`
	RuleType     string   `json:"ruleType"`
	Amount       Money    `json:"amount"`
	ProductID    string   `json:"productId,omitempty"`
	BatchID      string   `json:"batchId,omitempty"`
	Qty          int64    `json:"qty,omitempty"`
	OneTime      bool     `json:"oneTime,omitempty"`
	DiscountKind RuleType `json:"discountKind,omitempty"`
}

// LineItemResult accumulates the discounts applied to one sale line. A line
// never holds more discount than its pre-discount value, and once
// TotalDiscount is positive no further item-level rule may touch it.
type LineItemResult struct {
	LineID        string            `json:"lineId"`
	OriginalTotal Money             `json:"originalTotal"`
	NetTotal      Money             `json:"netTotal"`
	TotalDiscount Money             `json:"totalDiscount"`
	AppliedRules  []AppliedRuleInfo `json:"appliedRules,omitempty"`
}

// record applies an audit entry to the line, clamping the amount so the
// accumulated discount never exceeds the line's original value. It reports
// whether anything was recorded.
func (r *LineItemResult) record(info AppliedRuleInfo) bool {
	remaining := r.OriginalTotal - r.TotalDiscount
	if remaining < 0 {
		remaining = 0
	}
	if info.Amount > remaining {
		info.Amount = remaining
	}
	if info.Amount <= 0 {
		return false
	}
	r.AppliedRules = append(r.AppliedRules, info)
	r.TotalDiscount += info.Amount
	r.NetTotal = r.OriginalTotal - r.TotalDiscount
	return true
}

// Result is the aggregate outcome of one Process call. Derived totals are
// only consistent after finalize has run.
type Result struct {
	OriginalSubtotal  Money             `json:"originalSubtotal"`
	TotalItemDiscount Money             `json:"totalItemDiscount"`
	TotalCartDiscount Money             `json:"totalCartDiscount"`
	TotalDiscount     Money             `json:"totalDiscount"`
	FinalTotal        Money             `json:"finalTotal"`
	CartRules         []AppliedRuleInfo `json:"cartRules,omitempty"`

	lineOrder []string
	lines     map[string]*LineItemResult
	grants    map[string]int64
	finalized bool
}

func newResult(dc *Context) (*Result, error) {
	res := &Result{
		lines:  make(map[string]*LineItemResult, len(dc.Lines)),
		grants: make(map[string]int64),
	}
	for i, line := range dc.Lines {
		if line.LineID == "" {
			return nil, fmt.Errorf("line %d: %w", i, ErrBlankLineID)
		}
		if _, exists := res.lines[line.LineID]; exists {
			return nil, fmt.Errorf("line %d (%s): %w", i, line.LineID, ErrDuplicateLineID)
		}
		total := line.LineTotal()
		if total < 0 {
			total = 0
		}
		res.lines[line.LineID] = &LineItemResult{
			LineID:        line.LineID,
			OriginalTotal: total,
			NetTotal:      total,
		}
		res.lineOrder = append(res.lineOrder, line.LineID)
	}
	return res, nil
}

// Line returns the result slot for the given line id, or nil when unknown.
func (r *Result) Line(lineID string) *LineItemResult {
	if r == nil {
		return nil
	}
	return r.lines[lineID]
}

// Lines returns the per-line results in cart iteration order.
func (r *Result) Lines() []*LineItemResult {
	out := make([]*LineItemResult, 0, len(r.lineOrder))
	for _, id := range r.lineOrder {
		out = append(out, r.lines[id])
	}
	return out
}

// AppliedRulesSummary flattens every applied rule record, item-level entries
// in cart iteration order followed by cart-level entries. This is the audit
// trail receipts and reports consume.
func (r *Result) AppliedRulesSummary() []AppliedRuleInfo {
	var out []AppliedRuleInfo
	for _, id := range r.lineOrder {
		out = append(out, r.lines[id].AppliedRules...)
	}
	out = append(out, r.CartRules...)
	return out
}

// granted returns the number of units a buy-get rule has already discounted
// in this Process call.
func (r *Result) granted(ruleID string) int64 {
	return r.grants[ruleID]
}

func (r *Result) addGrant(ruleID string, units int64) {
	r.grants[ruleID] += units
}

// itemSubtotalAfterDiscounts is the cart-level base: the sum of line values
// net of item-level discounts.
func (r *Result) itemSubtotalAfterDiscounts() Money {
	var total Money
	for _, lr := range r.lines {
		total += lr.NetTotal
	}
	return total
}

// recordCart applies a cart-wide audit entry, clamped to the post-item
// subtotal less any cart discount already granted.
func (r *Result) recordCart(info AppliedRuleInfo) bool {
	remaining := r.itemSubtotalAfterDiscounts() - r.cartDiscount()
	if remaining < 0 {
		remaining = 0
	}
	if info.Amount > remaining {
		info.Amount = remaining
	}
	if info.Amount <= 0 {
		return false
	}
	r.CartRules = append(r.CartRules, info)
	return true
}

func (r *Result) cartDiscount() Money {
	var total Money
	for _, info := range r.CartRules {
		total += info.Amount
	}
	return total
}

// finalize computes the aggregate totals. It runs exactly once per Process
// call; subsequent invocations are no-ops.
func (r *Result) finalize() {
	if r.finalized {
		return
	}
	r.finalized = true
	for _, id := range r.lineOrder {
		lr := r.lines[id]
		r.OriginalSubtotal += lr.OriginalTotal
		r.TotalItemDiscount += lr.TotalDiscount
	}
	r.TotalCartDiscount = r.cartDiscount()
	r.TotalDiscount = r.TotalItemDiscount + r.TotalCartDiscount
	r.FinalTotal = r.OriginalSubtotal - r.TotalDiscount
}
