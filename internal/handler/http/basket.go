package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/abundance/internal/domain"
	"github.com/utafrali/abundance/internal/notify"
	"github.com/utafrali/abundance/internal/service"
	apperrors "github.com/utafrali/abundance/pkg/errors"
	"github.com/utafrali/abundance/pkg/httputil"
	"github.com/utafrali/abundance/pkg/validator"
)

// itemIDParam returns the decoded {id} path parameter. chi matches on the
// escaped path whenever one is set, so ids holding reserved characters such
// as "/" arrive still escaped.
func itemIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id, nil
	}
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", apperrors.InvalidInput("malformed item id")
	}
	return decoded, nil
}

// BannerSource reports the banner a session is currently showing.
type BannerSource interface {
	Current(sessionID string) (notify.Banner, bool)
}

// BasketHandler handles the JSON basket API.
type BasketHandler struct {
	baskets *service.Baskets
	banners BannerSource
	logger  *slog.Logger
}

// NewBasketHandler creates a new basket API handler.
func NewBasketHandler(baskets *service.Baskets, banners BannerSource, logger *slog.Logger) *BasketHandler {
	return &BasketHandler{
		baskets: baskets,
		banners: banners,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the basket.
// A missing or zero quantity adds one unit.
type AddItemRequest struct {
	ID       string          `json:"id" validate:"required,max=100"`
	Name     string          `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gte=0,lte=9999"`
}

// UpdateQuantityRequest is the JSON request body for setting a line's
// quantity. Values below 1 are stored as 1.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// --- Response DTOs ---

// BasketResponse is the API view of a basket.
type BasketResponse struct {
	SessionID    string            `json:"session_id"`
	Items        []domain.LineItem `json:"items"`
	ItemCount    int               `json:"item_count"`
	Total        string            `json:"total"`
	TotalDisplay string            `json:"total_display"`
}

// OrderResponse is returned by a successful checkout.
type OrderResponse struct {
	Order        *domain.Order `json:"order"`
	TotalDisplay string        `json:"total_display"`
}

func basketResponse(s *service.Store) BasketResponse {
	return BasketResponse{
		SessionID:    s.SessionID(),
		Items:        s.Items(),
		ItemCount:    s.ItemCount(),
		Total:        s.Total().StringFixed(2),
		TotalDisplay: domain.FormatMoney(s.Total()),
	}
}

// --- Handlers ---

// GetBasket handles GET /api/v1/basket
func (h *BasketHandler) GetBasket(w http.ResponseWriter, r *http.Request) {
	var resp BasketResponse
	err := h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		resp = basketResponse(s)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, resp)
}

// AddItem handles POST /api/v1/basket/items
func (h *BasketHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var resp BasketResponse
	err := h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		if err := s.AddItem(r.Context(), req.ID, req.Name, req.Price, req.Quantity); err != nil {
			return err
		}
		resp = basketResponse(s)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, resp)
}

// UpdateItemQuantity handles PUT /api/v1/basket/items/{id}
func (h *BasketHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, errors.New("invalid request body: "+err.Error()))
		return
	}

	var resp BasketResponse
	err = h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		if err := s.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
			return err
		}
		resp = basketResponse(s)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, resp)
}

// RemoveItem handles DELETE /api/v1/basket/items/{id}
func (h *BasketHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var resp BasketResponse
	err = h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		if err := s.RemoveItem(r.Context(), id); err != nil {
			return err
		}
		resp = basketResponse(s)
		return nil
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, resp)
}

// Checkout handles POST /api/v1/basket/checkout
func (h *BasketHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, errors.New("invalid request body: "+err.Error()))
		return
	}

	var order *domain.Order
	err := h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		var err error
		order, err = s.Checkout(r.Context(), req)
		return err
	})
	if err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, OrderResponse{
		Order:        order,
		TotalDisplay: domain.FormatMoney(order.Total),
	})
}

// GetNotification handles GET /api/v1/basket/notification. It answers 204
// when the session has no banner showing.
func (h *BasketHandler) GetNotification(w http.ResponseWriter, r *http.Request) {
	banner, ok := h.banners.Current(sessionFromContext(r.Context()))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	httputil.WriteData(w, http.StatusOK, banner)
}
