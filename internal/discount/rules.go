package discount

// Rule type tags recorded on AppliedRuleInfo entries.
const (
	RuleTagCustomItem          = "custom_item"
	RuleTagBatchLineValue      = "batch_line_value"
	RuleTagBatchLineQty        = "batch_line_qty"
	RuleTagProductLineValue    = "product_line_value"
	RuleTagProductLineQty      = "product_line_qty"
	RuleTagProductQtyThreshold = "product_qty_threshold"
	RuleTagProductUnitPrice    = "product_unit_price"
	RuleTagBuyGet              = "buy_get"
	RuleTagDefaultLineValue    = "default_line_value"
	RuleTagDefaultLineQty      = "default_line_qty"
	RuleTagDefaultQtyThreshold = "default_qty_threshold"
	RuleTagDefaultUnitPrice    = "default_unit_price"
	RuleTagCartPriceThreshold  = "cart_price_threshold"
	RuleTagCartQtyThreshold    = "cart_qty_threshold"
)

// ItemRule is one step of the item-level pipeline. Implementations hold no
// per-call state: everything mutable lives in the Result so Process stays
// idempotent.
type ItemRule interface {
	// Apply attempts to discount the given line, recording an audit entry in
	// res on success. It reports whether a discount was applied.
	Apply(dc *Context, line LineItemData, res *Result) bool
	// ID is the stable identity used for one-time-deal tracking.
	ID() string
	// Repeatable reports whether the rule may match more than one line, which
	// subjects it to the campaign's one-time-per-transaction restriction.
	Repeatable() bool
}

// CartRule runs once after the item phase against aggregate cart metrics.
type CartRule interface {
	Apply(dc *Context, res *Result) bool
}

// NameResolver supplies display names for buy-get target products. A nil
// resolver is valid; rules fall back to product ids.
type NameResolver interface {
	ProductName(id string) string
}

// StaticNames is a NameResolver backed by a fixed map, typically built from
// the catalog at engine construction time.
type StaticNames map[string]string

// ProductName implements NameResolver.
func (n StaticNames) ProductName(id string) string {
	return n[id]
}
