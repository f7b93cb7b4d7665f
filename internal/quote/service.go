package quote

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/walldriyan/banana-sub000/internal/campaign"
	"github.com/walldriyan/banana-sub000/internal/catalog"
	"github.com/walldriyan/banana-sub000/internal/discount"
	"github.com/walldriyan/banana-sub000/internal/obs"
)

// ErrCampaignInactive is returned when a quote targets a campaign that is
// not currently active.
var ErrCampaignInactive = errors.New("quote: campaign inactive")

// Service computes discount quotes for carts. Engines are built once per
// campaign and reused from the cache until a campaign mutation invalidates
// them.
type Service struct {
	Campaigns *campaign.Service
	Catalog   *catalog.Service
	Engines   *discount.EngineCache
	Logger    zerolog.Logger
}

// Quote resolves the campaign (the active default when campaignID is blank),
// obtains an engine for it and runs the cart through it. The resolved
// campaign id is returned alongside the result so callers can surface which
// campaign priced the cart.
func (s *Service) Quote(ctx context.Context, campaignID string, dc *discount.Context) (*discount.Result, string, error) {
	if s == nil || s.Campaigns == nil {
		return nil, "", errors.New("quote service not configured")
	}
	start := time.Now()

	rec, err := s.Campaigns.Resolve(ctx, campaignID)
	if err != nil {
		observeQuote("campaign_error", start)
		return nil, "", err
	}
	if !rec.Set.Active {
		observeQuote("inactive", start)
		return nil, rec.Set.ID.String(), ErrCampaignInactive
	}

	eng, err := s.engineFor(ctx, rec)
	if err != nil {
		observeQuote("engine_error", start)
		return nil, rec.Set.ID.String(), err
	}

	res, err := eng.Process(dc)
	if err != nil {
		observeQuote("invalid_cart", start)
		return nil, rec.Set.ID.String(), err
	}
	countRuleApplications(res)
	observeQuote("ok", start)
	return res, rec.Set.ID.String(), nil
}

func (s *Service) engineFor(ctx context.Context, rec campaign.Record) (*discount.Engine, error) {
	id := rec.Set.ID.String()
	if s.Engines != nil {
		if eng, ok := s.Engines.Get(id); ok {
			if obs.EngineCacheEvents != nil {
				obs.EngineCacheEvents.WithLabelValues("hit").Inc()
			}
			return eng, nil
		}
		if obs.EngineCacheEvents != nil {
			obs.EngineCacheEvents.WithLabelValues("miss").Inc()
		}
	}

	var names discount.NameResolver
	if s.Catalog != nil {
		names = s.Catalog.ResolverFor(ctx, &rec.Set)
	}
	eng, err := discount.NewEngine(&rec.Set, names, s.Logger)
	if err != nil {
		return nil, err
	}
	if s.Engines != nil {
		s.Engines.Put(id, eng)
	}
	return eng, nil
}

func observeQuote(result string, start time.Time) {
	if obs.QuoteTotal != nil {
		obs.QuoteTotal.WithLabelValues(result).Inc()
	}
	if obs.QuoteDuration != nil {
		obs.QuoteDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
}

func countRuleApplications(res *discount.Result) {
	if obs.RuleApplicationsTotal == nil || res == nil {
		return
	}
	for _, line := range res.Lines() {
		for _, info := range line.AppliedRules {
			obs.RuleApplicationsTotal.WithLabelValues(info.RuleType, "item").Inc()
		}
	}
	for _, info := range res.CartRules {
		obs.RuleApplicationsTotal.WithLabelValues(info.RuleType, "cart").Inc()
	}
}
