package discount

import (
	"errors"

	"github.com/rs/zerolog"
)

var (
	// ErrNilCampaign is returned when an engine is constructed without a campaign.
	ErrNilCampaign = errors.New("discount: nil campaign")
	// ErrNilContext is returned when Process receives a nil cart context.
	ErrNilContext = errors.New("discount: nil context")
	// ErrBlankLineID marks a cart line without a stable identifier.
	ErrBlankLineID = errors.New("discount: blank line id")
	// ErrDuplicateLineID marks two cart lines sharing an identifier.
	ErrDuplicateLineID = errors.New("discount: duplicate line id")
)

// Engine evaluates one campaign against cart contexts. It holds no mutable
// per-call state, so a single instance is safe for concurrent Process calls.
type Engine struct {
	set       *DiscountSet
	itemRules []ItemRule
	cartRules []CartRule
	logger    zerolog.Logger
}

// NewEngine builds the ordered rule pipelines for a campaign. Malformed rule
// configurations are skipped with a logged warning and never block the rest
// of the campaign. The name resolver is only consulted by buy-get rules and
// may be nil.
func NewEngine(set *DiscountSet, names NameResolver, logger zerolog.Logger) (*Engine, error) {
	if set == nil {
		return nil, ErrNilCampaign
	}
	e := &Engine{set: set, logger: logger}
	oneTime := set.OneTimePerTransaction

	e.itemRules = append(e.itemRules, customItemRule{campaign: set.Name})

	for _, bc := range set.BatchConfigs {
		if bc.BatchID == "" {
			logger.Warn().Str("campaign", set.Name).Msg("skipping batch config without batch id")
			continue
		}
		cfg := BatchDiscountConfig{
			BatchID:       bc.BatchID,
			LineValueRule: e.usableRule(bc.LineValueRule, "batch "+bc.BatchID),
			LineQtyRule:   e.usableRule(bc.LineQtyRule, "batch "+bc.BatchID),
		}
		e.itemRules = append(e.itemRules, batchRule{campaign: set.Name, cfg: cfg, oneTime: oneTime})
	}

	for _, pc := range set.ProductConfigs {
		if pc.ProductID == "" {
			logger.Warn().Str("campaign", set.Name).Msg("skipping product config without product id")
			continue
		}
		scope := "product " + pc.ProductID
		cfg := ProductDiscountConfig{
			ProductID:        pc.ProductID,
			LineValueRule:    e.usableRule(pc.LineValueRule, scope),
			LineQtyRule:      e.usableRule(pc.LineQtyRule, scope),
			QtyThresholdRule: e.usableRule(pc.QtyThresholdRule, scope),
			UnitPriceRule:    e.usableRule(pc.UnitPriceRule, scope),
		}
		e.itemRules = append(e.itemRules, productRule{campaign: set.Name, cfg: cfg, oneTime: oneTime})
	}

	for _, bg := range set.BuyGetRules {
		if err := bg.Validate(); err != nil {
			logger.Warn().Err(err).Str("campaign", set.Name).Msg("skipping invalid buy-get rule")
			continue
		}
		e.itemRules = append(e.itemRules, buyGetItemRule{campaign: set.Name, cfg: bg, names: names, oneTime: oneTime})
	}

	e.itemRules = append(e.itemRules, defaultItemRule{
		campaign:  set.Name,
		value:     e.usableRule(set.DefaultLineValueRule, "campaign default"),
		qty:       e.usableRule(set.DefaultLineQtyRule, "campaign default"),
		qtyThresh: e.usableRule(set.DefaultQtyThresholdRule, "campaign default"),
		unitPrice: e.usableRule(set.DefaultUnitPriceRule, "campaign default"),
	})

	e.cartRules = append(e.cartRules, cartTotalRule{
		campaign:  set.Name,
		priceRule: e.usableRule(set.CartPriceRule, "cart"),
		qtyRule:   e.usableRule(set.CartQtyRule, "cart"),
	})
	return e, nil
}

// usableRule returns the rule when it passes validation, nil otherwise.
func (e *Engine) usableRule(rc *RuleConfig, scope string) *RuleConfig {
	if rc == nil {
		return nil
	}
	if err := rc.Validate(); err != nil {
		e.logger.Warn().Err(err).Str("campaign", e.set.Name).Str("scope", scope).Msg("skipping invalid rule")
		return nil
	}
	return rc
}

// Campaign returns the immutable campaign the engine was built from.
func (e *Engine) Campaign() *DiscountSet {
	return e.set
}

// Process runs the two-phase evaluation over the cart context and returns the
// finalized result. It is a synchronous pure computation: identical inputs
// yield identical results, and nothing persists on the engine between calls.
func (e *Engine) Process(dc *Context) (*Result, error) {
	if dc == nil {
		return nil, ErrNilContext
	}
	res, err := newResult(dc)
	if err != nil {
		return nil, err
	}

	// Item phase. First applicable rule wins per line; under the campaign's
	// one-time flag a repeatable rule identity applies at most once across
	// the whole transaction.
	oneTimeApplied := make(map[string]struct{})
	for _, line := range dc.Lines {
		lr := res.Line(line.LineID)
		for _, rule := range e.itemRules {
			if lr.TotalDiscount > 0 {
				break
			}
			if e.set.OneTimePerTransaction && rule.Repeatable() {
				if _, used := oneTimeApplied[rule.ID()]; used {
					continue
				}
			}
			if rule.Apply(dc, line, res) && rule.Repeatable() {
				oneTimeApplied[rule.ID()] = struct{}{}
			}
		}
	}

	// Cart phase.
	for _, rule := range e.cartRules {
		rule.Apply(dc, res)
	}

	res.finalize()
	return res, nil
}
