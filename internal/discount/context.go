package discount

// LineItemData is one cart entry presented to the engine. Quantity and
// UnitPrice are immutable inputs for the duration of a Process call. The
// Custom* fields carry an optional manual override entered at the register;
// a positive CustomDiscountValue always wins over campaign rules.
type LineItemData struct {
	LineID    string `json:"lineId"`
	ProductID string `json:"productId"`
	BatchID   string `json:"batchId,omitempty"`
	UnitPrice Money  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`

	CustomDiscountValue  int64    `json:"customDiscountValue,omitempty"`
	CustomDiscountType   RuleType `json:"customDiscountType,omitempty"`
	CustomApplyFixedOnce bool     `json:"customApplyFixedOnce,omitempty"`
}

// LineTotal returns the pre-discount value of the line.
func (l LineItemData) LineTotal() Money {
	return l.UnitPrice * Money(l.Quantity)
}

// Context is the ordered set of sale lines a discount computation runs over.
type Context struct {
	Lines []LineItemData `json:"lines"`
}

// TotalQuantity sums quantities across all lines.
func (c *Context) TotalQuantity() int64 {
	if c == nil {
		return 0
	}
	var total int64
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// Subtotal sums pre-discount line values across all lines.
func (c *Context) Subtotal() Money {
	if c == nil {
		return 0
	}
	var total Money
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}
