package view

import (
	"github.com/utafrali/abundance/internal/domain"
	"github.com/utafrali/abundance/internal/notify"
)

// PageKind names which page a surface is rendering.
type PageKind string

const (
	PageStore  PageKind = "store"
	PageBasket PageKind = "basket"
)

// Surface collects everything the basket pushes at one page render: the
// header badge on every page, and the basket page and confirmation panel when
// the basket page is active. It is bound to a single request.
type Surface struct {
	kind         PageKind
	badge        int
	basket       *BasketPage
	confirmation *Confirmation
	banner       *notify.Banner
}

// NewSurface creates an empty surface for the given page.
func NewSurface(kind PageKind) *Surface {
	return &Surface{kind: kind}
}

// Kind returns the page being rendered.
func (s *Surface) Kind() PageKind {
	return s.kind
}

// ShowBadge sets the header badge count. A count of zero removes the badge.
func (s *Surface) ShowBadge(count int) {
	s.badge = count
}

// HasBasketPage reports whether the basket page container is present.
func (s *Surface) HasBasketPage() bool {
	return s.kind == PageBasket
}

// ShowBasketPage replaces the rendered basket page.
func (s *Surface) ShowBasketPage(page BasketPage) {
	if !s.HasBasketPage() {
		return
	}
	s.basket = &page
}

// ShowConfirmation replaces the checkout panel with an order confirmation.
func (s *Surface) ShowConfirmation(order *domain.Order) {
	c := BuildConfirmation(order)
	s.confirmation = &c
}

// SetBanner attaches the session's current notification banner.
func (s *Surface) SetBanner(b notify.Banner) {
	s.banner = &b
}

// Badge returns the count the header badge shows; zero means no badge.
func (s *Surface) Badge() int {
	return s.badge
}

// BasketPage returns the rendered basket page, if any.
func (s *Surface) BasketPage() (BasketPage, bool) {
	if s.basket == nil {
		return BasketPage{}, false
	}
	return *s.basket, true
}

// Confirmation returns the confirmation panel, if checkout just completed.
func (s *Surface) Confirmation() (Confirmation, bool) {
	if s.confirmation == nil {
		return Confirmation{}, false
	}
	return *s.confirmation, true
}
