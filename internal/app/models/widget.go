package models

import (
	"encoding/json"
	"fmt"
)

type WidgetType string

const (
	WidgetRestaurant WidgetType = "restaurant"
	WidgetAttraction WidgetType = "attraction"
	WidgetHotel      WidgetType = "hotel"
)

// WidgetPayload is the closed set of card lists a message can carry.
type WidgetPayload interface {
	WidgetType() WidgetType
	Items() []Entity
	isWidgetPayload()
}

type RestaurantWidget struct {
	Restaurants []Entity `json:"restaurants"`
}

type AttractionWidget struct {
	Attractions []Entity `json:"attractions"`
}

type HotelWidget struct {
	Amenities []Entity `json:"amenities"`
}

func (RestaurantWidget) WidgetType() WidgetType { return WidgetRestaurant }
func (AttractionWidget) WidgetType() WidgetType { return WidgetAttraction }
func (HotelWidget) WidgetType() WidgetType      { return WidgetHotel }

func (w RestaurantWidget) Items() []Entity { return w.Restaurants }
func (w AttractionWidget) Items() []Entity { return w.Attractions }
func (w HotelWidget) Items() []Entity      { return w.Amenities }

func (RestaurantWidget) isWidgetPayload() {}
func (AttractionWidget) isWidgetPayload() {}
func (HotelWidget) isWidgetPayload()      {}

// NewWidgetPayload builds the variant matching t.
func NewWidgetPayload(t WidgetType, items []Entity) (WidgetPayload, error) {
	switch t {
	case WidgetRestaurant:
		return RestaurantWidget{Restaurants: items}, nil
	case WidgetAttraction:
		return AttractionWidget{Attractions: items}, nil
	case WidgetHotel:
		return HotelWidget{Amenities: items}, nil
	}
	return nil, fmt.Errorf("unknown widget type %q", t)
}

// Widget wraps a payload as {"type": ..., "data": ...} on the wire.
type Widget struct {
	Payload WidgetPayload
}

func (w Widget) Type() WidgetType {
	if w.Payload == nil {
		return ""
	}
	return w.Payload.WidgetType()
}

type widgetEnvelope struct {
	Type WidgetType      `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (w Widget) MarshalJSON() ([]byte, error) {
	if w.Payload == nil {
		return nil, fmt.Errorf("widget has no payload")
	}
	data, err := json.Marshal(w.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(widgetEnvelope{Type: w.Payload.WidgetType(), Data: data})
}

func (w *Widget) UnmarshalJSON(b []byte) error {
	var env widgetEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	var payload WidgetPayload
	switch env.Type {
	case WidgetRestaurant:
		var p RestaurantWidget
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decoding restaurant widget: %w", err)
		}
		payload = p
	case WidgetAttraction:
		var p AttractionWidget
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decoding attraction widget: %w", err)
		}
		payload = p
	case WidgetHotel:
		var p HotelWidget
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decoding hotel widget: %w", err)
		}
		payload = p
	default:
		return fmt.Errorf("unknown widget type %q", env.Type)
	}

	w.Payload = payload
	return nil
}
