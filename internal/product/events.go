package product

import (
	"encoding/json"
	"fmt"
)

// EventKind tags the stock events this service reacts to.
type EventKind string

const (
	EventUpdateProductStock EventKind = "UPDATE_PRODUCT_STOCK"
	EventReduceProductStock EventKind = "REDUCE_PRODUCT_STOCK"
	// EventUnknown is any other kind. It is logged and ignored.
	EventUnknown EventKind = "UNKNOWN"
)

// ParseEventKind maps the wire name to a known kind or EventUnknown.
func ParseEventKind(s string) EventKind {
	switch EventKind(s) {
	case EventUpdateProductStock, EventReduceProductStock:
		return EventKind(s)
	default:
		return EventUnknown
	}
}

// Envelope is the serialized {event, data} wrapper delivered on the products topic.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// StockUpdate is the UPDATE_PRODUCT_STOCK payload.
type StockUpdate struct {
	ProductID      string `json:"productId"`
	QuantityChange int    `json:"quantityChange"`
}

// StockConsumption is one entry of the REDUCE_PRODUCT_STOCK payload.
type StockConsumption struct {
	ProductID           string `json:"productId"`
	ProductAmountBought int    `json:"productAmountBought"`
}

// StockEvent is a decoded envelope. Exactly one of Update or Consumption is
// meaningful, depending on Kind.
type StockEvent struct {
	Kind        EventKind
	Name        string
	Update      StockUpdate
	Consumption []StockConsumption
}

// DecodeStockEvent parses raw into a StockEvent. Every decode failure wraps
// ErrMalformedEvent. Unknown kinds decode successfully without touching data.
func DecodeStockEvent(raw []byte) (StockEvent, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return StockEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	ev := StockEvent{Kind: ParseEventKind(env.Event), Name: env.Event}
	switch ev.Kind {
	case EventUpdateProductStock:
		if isNull(env.Data) {
			return StockEvent{}, fmt.Errorf("%w: %s without data", ErrMalformedEvent, env.Event)
		}
		if err := json.Unmarshal(env.Data, &ev.Update); err != nil {
			return StockEvent{}, fmt.Errorf("%w: %s data: %v", ErrMalformedEvent, env.Event, err)
		}
		if ev.Update.ProductID == "" {
			return StockEvent{}, fmt.Errorf("%w: %s without productId", ErrMalformedEvent, env.Event)
		}
	case EventReduceProductStock:
		if isNull(env.Data) {
			return StockEvent{}, fmt.Errorf("%w: %s without data", ErrMalformedEvent, env.Event)
		}
		if err := json.Unmarshal(env.Data, &ev.Consumption); err != nil {
			return StockEvent{}, fmt.Errorf("%w: %s data: %v", ErrMalformedEvent, env.Event, err)
		}
	}
	return ev, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// CustomerEventKind names the payloads this service sends to the customer and shopping services.
type CustomerEventKind string

const (
	EventAddToWishlist      CustomerEventKind = "ADD_TO_WISHLIST"
	EventRemoveFromWishlist CustomerEventKind = "REMOVE_FROM_WISHLIST"
	EventAddToCart          CustomerEventKind = "ADD_TO_CART"
	EventRemoveFromCart     CustomerEventKind = "REMOVE_FROM_CART"
)

// CustomerEvent is the outbound {event, data} envelope built from a product lookup.
type CustomerEvent struct {
	Event CustomerEventKind `json:"event"`
	Data  CustomerEventData `json:"data"`
}

type CustomerEventData struct {
	UserID  string  `json:"userId"`
	Product Product `json:"product"`
	Amount  int     `json:"amount"`
}
