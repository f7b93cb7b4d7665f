package campaign

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/walldriyan/banana-sub000/internal/common"
	"github.com/walldriyan/banana-sub000/internal/discount"
	"github.com/walldriyan/banana-sub000/internal/obs"
)

// ErrInvalidInput is returned when a campaign payload fails validation.
var ErrInvalidInput = errors.New("invalid campaign input")

// Input is the write payload for creating or updating a campaign.
type Input struct {
	Name                  string                           `json:"name" validate:"required,min=1,max=120"`
	Active                bool                             `json:"active"`
	Default               bool                             `json:"default"`
	OneTimePerTransaction bool                             `json:"oneTimePerTransaction"`
	ProductConfigs        []discount.ProductDiscountConfig `json:"productConfigs" validate:"omitempty,dive"`
	BatchConfigs          []discount.BatchDiscountConfig   `json:"batchConfigs" validate:"omitempty,dive"`
	BuyGetRules           []discount.BuyGetRule            `json:"buyGetRules" validate:"omitempty,dive"`

	DefaultLineValueRule    *discount.RuleConfig `json:"defaultLineValueRule,omitempty"`
	DefaultLineQtyRule      *discount.RuleConfig `json:"defaultLineQtyRule,omitempty"`
	DefaultQtyThresholdRule *discount.RuleConfig `json:"defaultQtyThresholdRule,omitempty"`
	DefaultUnitPriceRule    *discount.RuleConfig `json:"defaultUnitPriceRule,omitempty"`

	CartPriceRule *discount.RuleConfig `json:"cartPriceRule,omitempty"`
	CartQtyRule   *discount.RuleConfig `json:"cartQtyRule,omitempty"`
}

func (in Input) toSet(id uuid.UUID) discount.DiscountSet {
	return discount.DiscountSet{
		ID:                      id,
		Name:                    strings.TrimSpace(in.Name),
		Active:                  in.Active,
		Default:                 in.Default,
		OneTimePerTransaction:   in.OneTimePerTransaction,
		ProductConfigs:          in.ProductConfigs,
		BatchConfigs:            in.BatchConfigs,
		BuyGetRules:             in.BuyGetRules,
		DefaultLineValueRule:    in.DefaultLineValueRule,
		DefaultLineQtyRule:      in.DefaultLineQtyRule,
		DefaultQtyThresholdRule: in.DefaultQtyThresholdRule,
		DefaultUnitPriceRule:    in.DefaultUnitPriceRule,
		CartPriceRule:           in.CartPriceRule,
		CartQtyRule:             in.CartQtyRule,
	}
}

// Service orchestrates campaign persistence, caching and engine-cache
// invalidation.
type Service struct {
	Store    Store
	Cache    *Cache
	Validate *validator.Validate
	Logger   zerolog.Logger
	// OnChange is invoked after any successful write with the campaign id,
	// letting the host bust memoized engines.
	OnChange func(id string)
}

func countMutation(operation, result string) {
	if obs.CampaignMutationsTotal != nil {
		obs.CampaignMutationsTotal.WithLabelValues(operation, result).Inc()
	}
}

func (s *Service) notifyChange(id uuid.UUID) {
	if s.OnChange != nil {
		s.OnChange(id.String())
	}
}

// validateInput runs struct validation plus the rule-level checks the engine
// would otherwise only warn about.
func (s *Service) validateInput(in Input) error {
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), ErrInvalidInput)
		}
	}
	rules := []*discount.RuleConfig{
		in.DefaultLineValueRule, in.DefaultLineQtyRule,
		in.DefaultQtyThresholdRule, in.DefaultUnitPriceRule,
		in.CartPriceRule, in.CartQtyRule,
	}
	for _, pc := range in.ProductConfigs {
		if pc.ProductID == "" {
			return fmt.Errorf("product config requires a product id: %w", ErrInvalidInput)
		}
		rules = append(rules, pc.LineValueRule, pc.LineQtyRule, pc.QtyThresholdRule, pc.UnitPriceRule)
	}
	for _, bc := range in.BatchConfigs {
		if bc.BatchID == "" {
			return fmt.Errorf("batch config requires a batch id: %w", ErrInvalidInput)
		}
		rules = append(rules, bc.LineValueRule, bc.LineQtyRule)
	}
	for _, rc := range rules {
		if err := rc.Validate(); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), ErrInvalidInput)
		}
	}
	for _, bg := range in.BuyGetRules {
		if err := bg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), ErrInvalidInput)
		}
	}
	return nil
}

// Get loads a campaign, consulting the cache first.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("campaign service not configured")
	}
	var cached Record
	hit, err := s.Cache.Get(ctx, id.String(), &cached)
	if err != nil {
		s.Logger.Warn().Err(err).Str("campaign_id", id.String()).Msg("campaign cache read failed")
	}
	if hit {
		return cached, nil
	}
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if err := s.Cache.Set(ctx, id.String(), rec); err != nil {
		s.Logger.Warn().Err(err).Str("campaign_id", id.String()).Msg("campaign cache write failed")
	}
	return rec, nil
}

// Resolve returns the campaign for the given id, or the active default
// campaign when id is empty.
func (s *Service) Resolve(ctx context.Context, id string) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("campaign service not configured")
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		rec, err := s.Store.GetDefault(ctx)
		if errors.Is(err, ErrNotFound) {
			return Record{}, common.NewAppError("NO_DEFAULT_CAMPAIGN", "no default campaign configured", http.StatusNotFound, err)
		}
		return rec, err
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return Record{}, fmt.Errorf("parse campaign id: %w", ErrInvalidInput)
	}
	return s.Get(ctx, parsed)
}

// List returns campaigns with the total count.
func (s *Service) List(ctx context.Context, limit, offset int32) ([]Record, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("campaign service not configured")
	}
	return s.Store.List(ctx, limit, offset)
}

// Create validates and persists a new campaign.
func (s *Service) Create(ctx context.Context, in Input) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("campaign service not configured")
	}
	if err := s.validateInput(in); err != nil {
		countMutation("create", "invalid")
		return Record{}, err
	}
	rec, err := s.Store.Create(ctx, in.toSet(uuid.Nil))
	if err != nil {
		countMutation("create", "error")
		return Record{}, err
	}
	countMutation("create", "ok")
	s.notifyChange(rec.Set.ID)
	return rec, nil
}

// Update validates and replaces an existing campaign, busting caches.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("campaign service not configured")
	}
	if err := s.validateInput(in); err != nil {
		countMutation("update", "invalid")
		return Record{}, err
	}
	rec, err := s.Store.Update(ctx, in.toSet(id))
	if err != nil {
		countMutation("update", "error")
		return Record{}, err
	}
	countMutation("update", "ok")
	if err := s.Cache.Delete(ctx, id.String()); err != nil {
		s.Logger.Warn().Err(err).Str("campaign_id", id.String()).Msg("campaign cache delete failed")
	}
	s.notifyChange(id)
	return rec, nil
}

// SetActive toggles the active flag, busting caches.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("campaign service not configured")
	}
	rec, err := s.Store.SetActive(ctx, id, active)
	if err != nil {
		countMutation("activate", "error")
		return Record{}, err
	}
	countMutation("activate", "ok")
	if err := s.Cache.Delete(ctx, id.String()); err != nil {
		s.Logger.Warn().Err(err).Str("campaign_id", id.String()).Msg("campaign cache delete failed")
	}
	s.notifyChange(id)
	return rec, nil
}
