package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/walldriyan/banana-sub000/internal/campaign"
	"github.com/walldriyan/banana-sub000/internal/common"
	"github.com/walldriyan/banana-sub000/internal/discount"
	"github.com/walldriyan/banana-sub000/internal/obs"
)

// Handler exposes the quote computation endpoint.
type Handler struct {
	Svc *Service
	// Currency is the ISO 4217 code echoed on every quote.
	Currency string
}

type quoteRequest struct {
	CampaignID string                  `json:"campaignId,omitempty"`
	Lines      []discount.LineItemData `json:"lines"`
}

type quoteResponse struct {
	Data quotePayload `json:"data"`
}

type quotePayload struct {
	CampaignID string           `json:"campaignId"`
	Currency   string           `json:"currency,omitempty"`
	Result     *discount.Result `json:"result"`
	Lines      []lineBreakdown  `json:"lines"`
}

type lineBreakdown struct {
	*discount.LineItemResult
	ProductID string `json:"productId"`
	BatchID   string `json:"batchId,omitempty"`
}

// Compute prices a cart against a campaign and returns the full discount
// breakdown. A blank campaignId selects the active default campaign.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if len(req.Lines) == 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "at least one line is required", nil)
		return
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "line quantity must be positive", nil)
			return
		}
		if line.UnitPrice < 0 {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "line unit price must not be negative", nil)
			return
		}
	}

	dc := &discount.Context{Lines: req.Lines}
	res, campaignID, err := h.Svc.Quote(r.Context(), req.CampaignID, dc)
	if campaignID != "" {
		obs.SetCampaignID(r.Context(), campaignID)
	}
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	payload := quotePayload{CampaignID: campaignID, Currency: h.Currency, Result: res}
	for i, lr := range res.Lines() {
		payload.Lines = append(payload.Lines, lineBreakdown{
			LineItemResult: lr,
			ProductID:      req.Lines[i].ProductID,
			BatchID:        req.Lines[i].BatchID,
		})
	}
	common.JSON(w, http.StatusOK, quoteResponse{Data: payload})
}

func writeQuoteError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, campaign.ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid campaign id", nil)
	case errors.Is(err, campaign.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found", nil)
	case errors.Is(err, ErrCampaignInactive):
		common.JSONError(w, http.StatusConflict, "CONFLICT", "campaign is not active", nil)
	case errors.Is(err, discount.ErrNilContext),
		errors.Is(err, discount.ErrBlankLineID),
		errors.Is(err, discount.ErrDuplicateLineID):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to compute quote", nil)
	}
}
