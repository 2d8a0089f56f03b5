package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

const (
	defaultNotifyTimeout  = 5 * time.Second
	defaultPublishTimeout = 3 * time.Second
)

// ShipmentService manages the shipment lifecycle on top of a repository,
// a waybill allocator and an SMS notifier.
type ShipmentService struct {
	repo      ports.ShipmentRepository
	waybills  ports.WaybillGenerator
	notifier  ports.Notifier
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time

	notifyTimeout  time.Duration
	publishTimeout time.Duration
}

// Option configures a ShipmentService.
type Option func(*ShipmentService)

// WithLogger sets the logger used at operation boundaries.
func WithLogger(l *zap.Logger) Option {
	return func(s *ShipmentService) { s.logger = l }
}

// WithEventPublisher enables lifecycle events.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *ShipmentService) { s.publisher = p }
}

// WithNotifyTimeout bounds every single SMS send.
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *ShipmentService) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// WithPublishTimeout bounds every event publish.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *ShipmentService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *ShipmentService) { s.now = now }
}

// NewShipmentService creates a new ShipmentService.
func NewShipmentService(repo ports.ShipmentRepository, waybills ports.WaybillGenerator, notifier ports.Notifier, opts ...Option) *ShipmentService {
	s := &ShipmentService{
		repo:           repo,
		waybills:       waybills,
		notifier:       notifier,
		logger:         zap.NewNop(),
		now:            time.Now,
		notifyTimeout:  defaultNotifyTimeout,
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateShipment validates the input, allocates a waybill number, stores the shipment
// as Pending and texts the sender.
func (s *ShipmentService) CreateShipment(ctx context.Context, input domain.CreateShipmentInput) (*domain.Shipment, error) {
	log := s.logger.With(zap.String("op", "create_shipment"), zap.String("branch", input.BranchName))
	log.Debug("Creating shipment")

	if err := input.Validate(); err != nil {
		s.logValidation(log, err)
		return nil, err
	}
	if err := s.checkReferences(log, &input.RiderID, &input.StaffID); err != nil {
		return nil, err
	}

	waybill, err := s.waybills.Generate(ctx, input.OriginState, input.DestinationState, input.BranchName)
	if err != nil {
		return nil, s.dependencyFailure(log, "waybill", "generate waybill number", err)
	}

	shipment := domain.NewShipment(input, waybill, s.now().UTC())
	if err := s.repo.Create(ctx, shipment); err != nil {
		return nil, s.dependencyFailure(log, "store", "create shipment", err)
	}

	log.Info("Shipment created",
		zap.String("shipment_id", shipment.ID),
		zap.String("waybill", shipment.WaybillNumber),
	)

	s.notify(ctx, log, shipment.SenderPhoneNumber, domain.CreatedMessage(shipment))
	s.publish(ctx, log, domain.NewShipmentEvent(domain.EventShipmentCreated, shipment, shipment.CreatedAt))

	return shipment, nil
}

// UpdateShipment applies the present patch fields. A status change to InTransit, Delivered
// or Canceled texts both sender and receiver.
func (s *ShipmentService) UpdateShipment(ctx context.Context, id string, patch domain.ShipmentPatch) (*domain.Shipment, error) {
	log := s.logger.With(zap.String("op", "update_shipment"), zap.String("shipment_id", id))
	log.Debug("Updating shipment")

	if err := patch.Validate(); err != nil {
		s.logValidation(log, err)
		return nil, err
	}
	if err := s.checkID(log, id); err != nil {
		return nil, err
	}
	if err := s.checkReferences(log, patch.RiderID, patch.StaffID); err != nil {
		return nil, err
	}

	shipment, err := s.repo.Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewShipmentNotFound("ID", id)
		}
		return nil, s.dependencyFailure(log, "store", "update shipment", err)
	}

	if patch.Status != nil && patch.Status.Notifies() {
		senderMsg, receiverMsg, _ := domain.StatusMessages(shipment, *patch.Status)
		s.notify(ctx, log, shipment.SenderPhoneNumber, senderMsg)
		s.notify(ctx, log, shipment.ReceiverPhone, receiverMsg)
	}
	// An empty patch changes only updatedAt and is not announced.
	if !patch.IsEmpty() {
		s.publish(ctx, log, domain.NewShipmentEvent(domain.EventShipmentUpdated, shipment, shipment.UpdatedAt))
	}

	log.Info("Shipment updated", zap.String("status", string(shipment.Status)))
	return shipment, nil
}

// GetShipmentByID returns a shipment with its rider and staff resolved.
func (s *ShipmentService) GetShipmentByID(ctx context.Context, id string) (*domain.Shipment, error) {
	log := s.logger.With(zap.String("op", "get_shipment"), zap.String("shipment_id", id))

	if err := s.checkID(log, id); err != nil {
		return nil, err
	}

	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewShipmentNotFound("ID", id)
		}
		return nil, s.dependencyFailure(log, "store", "find shipment", err)
	}
	return shipment, nil
}

// GetShipmentByWaybill looks a shipment up by its waybill number, ignoring surrounding whitespace.
func (s *ShipmentService) GetShipmentByWaybill(ctx context.Context, waybillNumber string) (*domain.Shipment, error) {
	waybill := strings.TrimSpace(waybillNumber)
	log := s.logger.With(zap.String("op", "get_shipment_by_waybill"), zap.String("waybill", waybill))

	shipment, err := s.repo.FindByWaybill(ctx, waybill)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewShipmentNotFound("waybill number", waybill)
		}
		return nil, s.dependencyFailure(log, "store", "find shipment by waybill", err)
	}
	return shipment, nil
}

// ListShipments returns shipments newest first.
func (s *ShipmentService) ListShipments(ctx context.Context, filter domain.ListFilter) ([]domain.Shipment, error) {
	log := s.logger.With(zap.String("op", "list_shipments"))

	if err := filter.Validate(); err != nil {
		s.logValidation(log, err)
		return nil, err
	}

	shipments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.dependencyFailure(log, "store", "list shipments", err)
	}
	if shipments == nil {
		shipments = []domain.Shipment{}
	}
	return shipments, nil
}

// DeleteShipment permanently removes a shipment. No SMS is sent.
func (s *ShipmentService) DeleteShipment(ctx context.Context, id string) error {
	log := s.logger.With(zap.String("op", "delete_shipment"), zap.String("shipment_id", id))
	log.Debug("Deleting shipment")

	if err := s.checkID(log, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewShipmentNotFound("ID", id)
		}
		return s.dependencyFailure(log, "store", "delete shipment", err)
	}

	s.publish(ctx, log, domain.NewShipmentEvent(domain.EventShipmentDeleted, &domain.Shipment{ID: id}, s.now().UTC()))
	log.Info("Shipment deleted")
	return nil
}

func (s *ShipmentService) checkID(log *zap.Logger, id string) error {
	if !s.repo.ValidID(id) {
		err := domain.NewValidationError(domain.MsgInvalidID, "id")
		s.logValidation(log, err)
		return err
	}
	return nil
}

// checkReferences rejects malformed rider and staff ids. Existence is not checked.
func (s *ShipmentService) checkReferences(log *zap.Logger, riderID, staffID *string) error {
	var bad []string
	if riderID != nil && !s.repo.ValidID(*riderID) {
		bad = append(bad, "rider")
	}
	if staffID != nil && !s.repo.ValidID(*staffID) {
		bad = append(bad, "createdBy")
	}
	if len(bad) > 0 {
		err := domain.NewValidationError(domain.MsgInvalidID, bad...)
		s.logValidation(log, err)
		return err
	}
	return nil
}

// notify sends one SMS under its own deadline. Failures are logged and dropped.
func (s *ShipmentService) notify(ctx context.Context, log *zap.Logger, phone, message string) {
	if s.notifier == nil {
		return
	}

	// The caller's cancellation must not suppress the text once the write has committed.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, phone, message); err != nil {
		log.Warn("Failed to send notification", zap.String("phone", phone), zap.Error(err))
	}
}

func (s *ShipmentService) publish(ctx context.Context, log *zap.Logger, event domain.ShipmentEvent) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		log.Warn("Failed to publish shipment event", zap.String("event", string(event.Event)), zap.Error(err))
	}
}

func (s *ShipmentService) logValidation(log *zap.Logger, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		log.Info("Validation failed", zap.String("reason", vErr.Message), zap.Strings("fields", vErr.Violations))
	}
}

func (s *ShipmentService) dependencyFailure(log *zap.Logger, dependency, op string, err error) error {
	log.Error("Dependency failure", zap.String("dependency", dependency), zap.Error(err))
	return &domain.DependencyError{Dependency: dependency, Op: op, Err: err}
}
