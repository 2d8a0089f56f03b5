package domain

import "time"

// EventType names a shipment lifecycle event.
type EventType string

const (
	EventShipmentCreated EventType = "shipment.created"
	EventShipmentUpdated EventType = "shipment.updated"
	EventShipmentDeleted EventType = "shipment.deleted"
)

// ShipmentEvent is published after a lifecycle operation commits.
type ShipmentEvent struct {
	Event         EventType      `json:"event"`
	ShipmentID    string         `json:"shipmentId"`
	WaybillNumber string         `json:"waybillNumber,omitempty"`
	Status        ShipmentStatus `json:"status,omitempty"`
	OccurredAt    time.Time      `json:"occurredAt"`
}

// NewShipmentEvent builds an event describing s.
func NewShipmentEvent(t EventType, s *Shipment, at time.Time) ShipmentEvent {
	return ShipmentEvent{
		Event:         t,
		ShipmentID:    s.ID,
		WaybillNumber: s.WaybillNumber,
		Status:        s.Status,
		OccurredAt:    at,
	}
}
