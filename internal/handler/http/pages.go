package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/abundance/internal/domain"
	"github.com/utafrali/abundance/internal/service"
	"github.com/utafrali/abundance/internal/view"
	apperrors "github.com/utafrali/abundance/pkg/errors"
	"github.com/utafrali/abundance/pkg/logger"
	"github.com/utafrali/abundance/pkg/validator"
)

const checkoutUnavailableMessage = "We couldn't place your pre-order right now. Please try again."

// PageHandler serves the HTML storefront pages and their form posts.
type PageHandler struct {
	baskets  *service.Baskets
	banners  BannerSource
	renderer *view.Renderer
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(baskets *service.Baskets, banners BannerSource, renderer *view.Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		baskets:  baskets,
		banners:  banners,
		renderer: renderer,
		logger:   logger,
	}
}

// BasketPage handles GET /basket
func (h *PageHandler) BasketPage(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, view.PageBasket)
}

// StorePage handles GET /store
func (h *PageHandler) StorePage(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, view.PageStore)
}

func (h *PageHandler) show(w http.ResponseWriter, r *http.Request, kind view.PageKind) {
	surface := view.NewSurface(kind)
	err := h.baskets.Do(r.Context(), sessionFromContext(r.Context()), surface, func(*service.Store) error {
		return nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, surface, view.CheckoutForm{})
}

// AddItem handles POST /basket/items. Product pages post id, name, price and
// an optional quantity, plus an optional local return path.
func (h *PageHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid form body"))
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.PostForm.Get("price")))
	if err != nil {
		h.writeError(w, r, apperrors.InvalidInput("price must be a number"))
		return
	}
	quantity := 0
	if raw := strings.TrimSpace(r.PostForm.Get("quantity")); raw != "" {
		quantity = service.ParseQuantity(raw)
	}

	err = h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		return s.AddItem(r.Context(), r.PostForm.Get("id"), r.PostForm.Get("name"), price, quantity)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, returnPath(r.PostForm.Get("return")), http.StatusSeeOther)
}

// UpdateQuantity handles POST /basket/items/{id}/quantity
func (h *PageHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid form body"))
		return
	}

	id, err := itemIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	quantity := service.ParseQuantity(r.PostForm.Get("quantity"))

	err = h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		return s.UpdateQuantity(r.Context(), id, quantity)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, "/basket", http.StatusSeeOther)
}

// RemoveItem handles POST /basket/items/{id}/remove
func (h *PageHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := itemIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	err = h.baskets.Do(r.Context(), sessionFromContext(r.Context()), nil, func(s *service.Store) error {
		return s.RemoveItem(r.Context(), id)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, "/basket", http.StatusSeeOther)
}

// Checkout handles POST /basket/checkout. The basket page is rendered in
// place: with the confirmation panel on success, or with the submitted values
// and errors when the pre-order is refused.
func (h *PageHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("invalid form body"))
		return
	}

	req := domain.CheckoutRequest{
		Name:  strings.TrimSpace(r.PostForm.Get("name")),
		Email: strings.TrimSpace(r.PostForm.Get("email")),
	}
	form := view.CheckoutForm{Name: req.Name, Email: req.Email}

	surface := view.NewSurface(view.PageBasket)
	err := h.baskets.Do(r.Context(), sessionFromContext(r.Context()), surface, func(s *service.Store) error {
		_, err := s.Checkout(r.Context(), req)
		return err
	})
	if err == nil {
		h.render(w, r, http.StatusOK, surface, form)
		return
	}

	status := apperrors.HTTPStatus(err)
	var valErr *validator.ValidationError
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusUnprocessableEntity
		form.Errors = valErr.Fields()
	case errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError:
		status = appErr.Status
		form.Error = appErr.Message
	case errors.Is(err, apperrors.ErrServiceUnavail):
		form.Error = checkoutUnavailableMessage
	default:
		h.writeError(w, r, err)
		return
	}
	h.render(w, r, status, surface, form)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, surface *view.Surface, form view.CheckoutForm) {
	if banner, ok := h.banners.Current(sessionFromContext(r.Context())); ok {
		surface.SetBanner(banner)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := h.renderer.Render(w, surface, form); err != nil {
		h.log(r).ErrorContext(r.Context(), "failed to render page",
			slog.String("page", string(surface.Kind())),
			slog.String("error", err.Error()),
		)
	}
}

// writeError answers a failed page request with a plain-text message.
// Client errors echo the message; everything else is logged and hidden.
func (h *PageHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		http.Error(w, appErr.Message, status)
		return
	}

	h.log(r).ErrorContext(r.Context(), "page request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	if status < http.StatusInternalServerError {
		status = http.StatusInternalServerError
	}
	http.Error(w, "Something went wrong. Please try again.", status)
}

func (h *PageHandler) log(r *http.Request) *slog.Logger {
	if l := logger.FromContext(r.Context()); l != slog.Default() {
		return l
	}
	return h.logger
}

// returnPath accepts only local absolute paths so form posts cannot redirect
// off-site.
func returnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/basket"
	}
	return raw
}
