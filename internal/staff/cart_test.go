package staff

import (
	"errors"
	"testing"

	"github.com/inventorypro/inventorypro-web/internal/api"
)

func widget(stock int) api.Product {
	return api.Product{
		ProductID:    7,
		ProductName:  "Widget",
		ProductPrice: 10,
		Quantity:     stock,
	}
}

func TestCartAddNewLine(t *testing.T) {
	cart := &Cart{}
	if err := cart.Add(widget(3)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Lines))
	}
	line := cart.Lines[0]
	if line.Quantity != 1 || line.UnitPrice != 10 || line.Stock != 3 {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestCartAddOutOfStock(t *testing.T) {
	cart := &Cart{}
	if err := cart.Add(widget(0)); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("cart should stay empty")
	}
}

func TestCartAddIncrementsUpToStock(t *testing.T) {
	cart := &Cart{}
	p := widget(2)
	if err := cart.Add(p); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := cart.Add(p); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if err := cart.Add(p); !errors.Is(err, ErrExceedsStock) {
		t.Fatalf("expected ErrExceedsStock, got %v", err)
	}
	if cart.Lines[0].Quantity != 2 {
		t.Fatalf("quantity should stay at stock, got %d", cart.Lines[0].Quantity)
	}
}

func TestCartSetQuantity(t *testing.T) {
	cart := &Cart{}
	if err := cart.Add(widget(5)); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := cart.SetQuantity(7, 3); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Lines[0].Quantity)
	}

	// Above stock: rejected, quantity unchanged.
	if err := cart.SetQuantity(7, 6); !errors.Is(err, ErrExceedsStock) {
		t.Fatalf("expected ErrExceedsStock, got %v", err)
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("quantity changed on rejected update: %d", cart.Lines[0].Quantity)
	}

	// Zero removes the line.
	if err := cart.SetQuantity(7, 0); err != nil {
		t.Fatalf("set zero: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("line should be removed at quantity zero")
	}

	if err := cart.SetQuantity(7, 1); !errors.Is(err, ErrNotInCart) {
		t.Fatalf("expected ErrNotInCart, got %v", err)
	}
}

func TestCartTotalScenario(t *testing.T) {
	// Widget at 10.00 with stock 3: add twice, then set quantity to 3.
	cart := &Cart{}
	p := widget(3)
	if err := cart.Add(p); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cart.Add(p); err != nil {
		t.Fatalf("add again: %v", err)
	}
	if got := cart.Total(); got != 20 {
		t.Fatalf("expected total 20, got %.2f", got)
	}
	if err := cart.SetQuantity(7, 3); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if got := cart.Total(); got != 30 {
		t.Fatalf("expected total 30, got %.2f", got)
	}
	if err := cart.SetQuantity(7, 4); !errors.Is(err, ErrExceedsStock) {
		t.Fatalf("expected ErrExceedsStock, got %v", err)
	}
	if got := cart.Total(); got != 30 {
		t.Fatalf("total changed on rejected update: %.2f", got)
	}
}

func TestCartSaleItemsUseSnapshotPrices(t *testing.T) {
	cart := &Cart{}
	if err := cart.Add(widget(3)); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Price changes upstream; the cart keeps its snapshot.
	cart.Lines[0].Quantity = 2
	items := cart.SaleItems()
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].ProductID != 7 || items[0].Quantity != 2 || items[0].UnitPrice != 10 {
		t.Fatalf("unexpected sale item: %+v", items[0])
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := &Cart{}
	if err := cart.Add(widget(3)); err != nil {
		t.Fatalf("add: %v", err)
	}
	other := api.Product{ProductID: 8, ProductName: "Gadget", ProductPrice: 5, Quantity: 1}
	if err := cart.Add(other); err != nil {
		t.Fatalf("add other: %v", err)
	}

	cart.Remove(7)
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != 8 {
		t.Fatalf("unexpected lines after remove: %+v", cart.Lines)
	}

	cart.Clear()
	if !cart.IsEmpty() {
		t.Fatalf("cart should be empty after clear")
	}
	if cart.Total() != 0 {
		t.Fatalf("empty cart total should be zero")
	}
}
