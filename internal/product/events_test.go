package product_test

import (
	"encoding/json"
	"testing"

	"productservice/internal/product"
)

func TestDecodeStockEvent(t *testing.T) {
	ev, err := product.DecodeStockEvent([]byte(`{"event":"REDUCE_PRODUCT_STOCK","data":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != product.EventReduceProductStock || len(ev.Consumption) != 0 {
		t.Fatalf("unexpected event %+v", ev)
	}

	ev, err = product.DecodeStockEvent([]byte(`{"event":"UPDATE_PRODUCT_STOCK","data":{"productId":"p9","quantityChange":-3}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Update.ProductID != "p9" || ev.Update.QuantityChange != -3 {
		t.Fatalf("unexpected update %+v", ev.Update)
	}

	// Unknown kinds never look at data.
	ev, err = product.DecodeStockEvent([]byte(`{"event":"SOMETHING_ELSE","data":"garbage"}`))
	if err != nil || ev.Kind != product.EventUnknown || ev.Name != "SOMETHING_ELSE" {
		t.Fatalf("unexpected result %+v %v", ev, err)
	}
}

func TestParseEventKind(t *testing.T) {
	cases := map[string]product.EventKind{
		"UPDATE_PRODUCT_STOCK": product.EventUpdateProductStock,
		"REDUCE_PRODUCT_STOCK": product.EventReduceProductStock,
		"update_product_stock": product.EventUnknown,
		"":                     product.EventUnknown,
	}
	for in, want := range cases {
		if got := product.ParseEventKind(in); got != want {
			t.Errorf("ParseEventKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCustomerEventJSON(t *testing.T) {
	ev := product.CustomerEvent{
		Event: product.EventAddToCart,
		Data: product.CustomerEventData{
			UserID:  "u1",
			Product: stocked("p1", 2, true),
			Amount:  3,
		},
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["event"] != "ADD_TO_CART" {
		t.Fatalf("unexpected event field: %v", decoded["event"])
	}
	data := decoded["data"].(map[string]any)
	if data["userId"] != "u1" || data["amount"] != float64(3) {
		t.Fatalf("unexpected data: %v", data)
	}
	if p := data["product"].(map[string]any); p["id"] != "p1" {
		t.Fatalf("unexpected product: %v", p)
	}
}
