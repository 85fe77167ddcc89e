// Package view projects basket state into the HTML pages the storefront serves.
package view

import (
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/utafrali/abundance/internal/domain"
)

// Row is one rendered basket line.
type Row struct {
	ID        string
	Name      string
	UnitPrice string
	Quantity  int
	Subtotal  string
	// Action is the escaped path prefix for the row's forms.
	Action string
}

// BasketPage is the rendered state of the basket page. It is a pure function
// of the basket contents, so building it twice from the same lines yields
// equal values.
type BasketPage struct {
	Empty           bool
	Rows            []Row
	Total           string
	ItemCount       int
	CheckoutVisible bool
}

// BuildBasketPage projects line items into the basket page.
func BuildBasketPage(items []domain.LineItem) BasketPage {
	if len(items) == 0 {
		return BasketPage{Empty: true, Total: domain.FormatMoney(decimal.Zero)}
	}

	basket := domain.Basket{Items: items}
	rows := make([]Row, len(items))
	for i, item := range items {
		rows[i] = Row{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: domain.FormatMoney(item.Price),
			Quantity:  item.Quantity,
			Subtotal:  domain.FormatMoney(item.Subtotal()),
			Action:    "/basket/items/" + url.PathEscape(item.ID),
		}
	}

	return BasketPage{
		Rows:            rows,
		Total:           domain.FormatMoney(basket.Total()),
		ItemCount:       basket.ItemCount(),
		CheckoutVisible: true,
	}
}

// Confirmation is the panel shown after a successful pre-order.
type Confirmation struct {
	OrderID string
	Name    string
	Email   string
	Total   string
	Summary string
}

// BuildConfirmation projects a placed order into the confirmation panel.
func BuildConfirmation(order *domain.Order) Confirmation {
	return Confirmation{
		OrderID: order.ID.String(),
		Name:    order.Name,
		Email:   order.Email,
		Total:   domain.FormatMoney(order.Total),
		Summary: order.Summary,
	}
}
