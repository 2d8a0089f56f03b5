package ports

import (
	"context"
	"time"

	"shipment-tracker/internal/features/shipments/domain"
)

// ShipmentService defines the primary port for the shipment lifecycle.
type ShipmentService interface {
	CreateShipment(ctx context.Context, input domain.CreateShipmentInput) (*domain.Shipment, error)
	UpdateShipment(ctx context.Context, id string, patch domain.ShipmentPatch) (*domain.Shipment, error)
	GetShipmentByID(ctx context.Context, id string) (*domain.Shipment, error)
	GetShipmentByWaybill(ctx context.Context, waybillNumber string) (*domain.Shipment, error)
	ListShipments(ctx context.Context, filter domain.ListFilter) ([]domain.Shipment, error)
	DeleteShipment(ctx context.Context, id string) error
}

// ShipmentRepository is the secondary port for shipment storage.
// Reads return shipments with rider and staff resolved; missing records yield domain.ErrNotFound.
type ShipmentRepository interface {
	// ValidID reports whether id is well formed for this store.
	ValidID(id string) bool
	// Create persists s and sets its ID.
	Create(ctx context.Context, s *domain.Shipment) error
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	FindByWaybill(ctx context.Context, waybillNumber string) (*domain.Shipment, error)
	// List returns shipments newest first.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Shipment, error)
	// Update atomically applies patch and returns the resulting shipment.
	Update(ctx context.Context, id string, patch domain.ShipmentPatch, updatedAt time.Time) (*domain.Shipment, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// WaybillGenerator allocates unique waybill numbers.
type WaybillGenerator interface {
	Generate(ctx context.Context, origin, destination, branch string) (string, error)
}

// Notifier delivers a text message to a phone number.
type Notifier interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// EventPublisher announces shipment lifecycle events to other systems.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ShipmentEvent) error
	Close() error
}
