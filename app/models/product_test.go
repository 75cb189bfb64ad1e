package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPurityRequired(t *testing.T) {
	for _, m := range []string{"gold", "silver", "platinum"} {
		if !PurityRequired(m) {
			t.Errorf("expected purity to be required for %s", m)
		}
	}
	for _, m := range []string{"pearl", "diamond", "titanium", "other"} {
		if PurityRequired(m) {
			t.Errorf("did not expect purity to be required for %s", m)
		}
	}
}

func TestInStock(t *testing.T) {
	p := Product{Stock: 3}
	if !p.InStock(3) {
		t.Error("expected 3 of 3 to be in stock")
	}
	if p.InStock(4) {
		t.Error("did not expect 4 of 3 to be in stock")
	}
}

func TestCartItemIndex(t *testing.T) {
	var c Cart
	if got := c.ItemIndex(primitive.NewObjectID()); got != -1 {
		t.Errorf("expected -1 on empty cart, got %d", got)
	}
}
