package discount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// RuleType determines how a rule value is interpreted.
type RuleType string

const (
	// RuleTypePercentage treats the rule value as a whole percentage of the line total.
	RuleTypePercentage RuleType = "percentage"
	// RuleTypeFixed treats the rule value as a fixed amount in minor units.
	RuleTypeFixed RuleType = "fixed"
)

// ErrInvalidRule is wrapped by every rule configuration validation failure.
var ErrInvalidRule = errors.New("invalid rule configuration")

// RuleConfig is a single conditional discount definition. ConditionMin and
// ConditionMax are inclusive bounds on the metric the owning slot tests
// (line value, line quantity or unit price).
type RuleConfig struct {
	Name           string   `json:"name"`
	Enabled        bool     `json:"enabled"`
	Type           RuleType `json:"type"`
	Value          int64    `json:"value"`
	ConditionMin   *int64   `json:"conditionMin,omitempty"`
	ConditionMax   *int64   `json:"conditionMax,omitempty"`
	ApplyFixedOnce bool     `json:"applyFixedOnce,omitempty"`
}

// Validate reports whether the configuration is structurally usable. Disabled
// rules are still validated so that broken configuration surfaces before a
// campaign goes live.
func (rc *RuleConfig) Validate() error {
	if rc == nil {
		return nil
	}
	if strings.TrimSpace(rc.Name) == "" {
		return fmt.Errorf("rule name is required: %w", ErrInvalidRule)
	}
	switch rc.Type {
	case RuleTypePercentage, RuleTypeFixed:
	default:
		return fmt.Errorf("rule %q has unknown type %q: %w", rc.Name, rc.Type, ErrInvalidRule)
	}
	if rc.Value < 0 {
		return fmt.Errorf("rule %q has negative value: %w", rc.Name, ErrInvalidRule)
	}
	if rc.Type == RuleTypePercentage && rc.Value > 100 {
		return fmt.Errorf("rule %q exceeds 100 percent: %w", rc.Name, ErrInvalidRule)
	}
	if rc.ConditionMin != nil && rc.ConditionMax != nil && *rc.ConditionMin > *rc.ConditionMax {
		return fmt.Errorf("rule %q has conditionMin above conditionMax: %w", rc.Name, ErrInvalidRule)
	}
	return nil
}

// ProductDiscountConfig bundles the rule slots evaluated for lines matching a
// product. Slots are tried in declaration order; the first one producing a
// positive amount wins.
type ProductDiscountConfig struct {
	ProductID        string      `json:"productId"`
	LineValueRule    *RuleConfig `json:"lineValueRule,omitempty"`
	LineQtyRule      *RuleConfig `json:"lineQtyRule,omitempty"`
	QtyThresholdRule *RuleConfig `json:"qtyThresholdRule,omitempty"`
	UnitPriceRule    *RuleConfig `json:"unitPriceRule,omitempty"`
}

// BatchDiscountConfig bundles the rule slots evaluated for lines matching a
// stock batch. Batch configuration predates product-level configuration and
// keeps priority over it.
type BatchDiscountConfig struct {
	BatchID       string      `json:"batchId"`
	LineValueRule *RuleConfig `json:"lineValueRule,omitempty"`
	LineQtyRule   *RuleConfig `json:"lineQtyRule,omitempty"`
}

// BuyGetRule grants a discount on GetProductID units contingent on the
// aggregate purchased quantity of BuyProductID. When Repeatable is set the
// entitlement scales with every full multiple of BuyQty bought.
type BuyGetRule struct {
	Name          string   `json:"name,omitempty"`
	Enabled       bool     `json:"enabled"`
	BuyProductID  string   `json:"buyProductId"`
	BuyQty        int64    `json:"buyQty"`
	GetProductID  string   `json:"getProductId"`
	GetQty        int64    `json:"getQty"`
	DiscountType  RuleType `json:"discountType"`
	DiscountValue int64    `json:"discountValue"`
	Repeatable    bool     `json:"repeatable"`
}

// Validate reports whether the buy-get rule is structurally usable.
func (r *BuyGetRule) Validate() error {
	if r == nil {
		return nil
	}
	if r.BuyProductID == "" || r.GetProductID == "" {
		return fmt.Errorf("buy-get rule requires both product ids: %w", ErrInvalidRule)
	}
	if r.BuyQty <= 0 || r.GetQty <= 0 {
		return fmt.Errorf("buy-get rule %q requires positive quantities: %w", r.Name, ErrInvalidRule)
	}
	switch r.DiscountType {
	case RuleTypePercentage:
		if r.DiscountValue < 0 || r.DiscountValue > 100 {
			return fmt.Errorf("buy-get rule %q percentage out of range: %w", r.Name, ErrInvalidRule)
		}
	case RuleTypeFixed:
		if r.DiscountValue < 0 {
			return fmt.Errorf("buy-get rule %q has negative value: %w", r.Name, ErrInvalidRule)
		}
	default:
		return fmt.Errorf("buy-get rule %q has unknown type %q: %w", r.Name, r.DiscountType, ErrInvalidRule)
	}
	return nil
}

// DiscountSet is the campaign configuration root. It is immutable for the
// lifetime of any engine constructed from it.
type DiscountSet struct {
	ID                    uuid.UUID               `json:"id"`
	Name                  string                  `json:"name"`
	Active                bool                    `json:"active"`
	Default               bool                    `json:"default"`
	OneTimePerTransaction bool                    `json:"oneTimePerTransaction"`
	ProductConfigs        []ProductDiscountConfig `json:"productConfigs,omitempty"`
	BatchConfigs          []BatchDiscountConfig   `json:"batchConfigs,omitempty"`
	BuyGetRules           []BuyGetRule            `json:"buyGetRules,omitempty"`

	DefaultLineValueRule    *RuleConfig `json:"defaultLineValueRule,omitempty"`
	DefaultLineQtyRule      *RuleConfig `json:"defaultLineQtyRule,omitempty"`
	DefaultQtyThresholdRule *RuleConfig `json:"defaultQtyThresholdRule,omitempty"`
	DefaultUnitPriceRule    *RuleConfig `json:"defaultUnitPriceRule,omitempty"`

	CartPriceRule *RuleConfig `json:"cartPriceRule,omitempty"`
	CartQtyRule   *RuleConfig `json:"cartQtyRule,omitempty"`
}
