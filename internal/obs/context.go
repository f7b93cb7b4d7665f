package obs

import (
	"context"
	"sync"
)

// routePatternKey is the context key storing matched route pattern.
type routePatternKey struct{}

// WithRoutePattern stores the matched router pattern on the context.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext extracts the route pattern from context if present.
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(routePatternKey{}).(string); ok {
		return v
	}
	return ""
}

// campaignIDKey is the context key storing the per-request campaign annotation.
type campaignIDKey struct{}

type campaignIDHolder struct {
	mu sync.Mutex
	id string
}

// WithCampaignAnnotation installs a per-request slot so handlers deeper in
// the chain can record which campaign priced the request. Middleware that
// derived the context earlier can still read the value afterwards.
func WithCampaignAnnotation(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, campaignIDKey{}, &campaignIDHolder{})
}

// SetCampaignID records the campaign identifier on the request annotation,
// if one was installed.
func SetCampaignID(ctx context.Context, id string) {
	if ctx == nil {
		return
	}
	if h, ok := ctx.Value(campaignIDKey{}).(*campaignIDHolder); ok {
		h.mu.Lock()
		h.id = id
		h.mu.Unlock()
	}
}

// CampaignIDFromContext extracts the recorded campaign identifier, if any.
func CampaignIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if h, ok := ctx.Value(campaignIDKey{}).(*campaignIDHolder); ok {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.id
	}
	return ""
}
