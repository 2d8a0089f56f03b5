package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"shipment-tracker/internal/features/shipments/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository implements ports.ShipmentRepository in process memory.
// IDs are ObjectID hex strings so the same id rules apply as with MongoDB.
type MemoryRepository struct {
	mu        sync.RWMutex
	shipments map[string]domain.Shipment
	riders    map[string]domain.Rider
	staff     map[string]domain.Staff
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		shipments: make(map[string]domain.Shipment),
		riders:    make(map[string]domain.Rider),
		staff:     make(map[string]domain.Staff),
	}
}

// AddRider registers a rider that shipments may reference.
func (r *MemoryRepository) AddRider(rider domain.Rider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.riders[rider.ID] = rider
}

// AddStaff registers a staff member that shipments may reference.
func (r *MemoryRepository) AddStaff(staff domain.Staff) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staff[staff.ID] = staff
}

// ValidID reports whether id is an ObjectID hex string.
func (r *MemoryRepository) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Create stores the shipment under a new ID.
func (r *MemoryRepository) Create(ctx context.Context, s *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.shipments {
		if existing.WaybillNumber == s.WaybillNumber {
			return errDuplicateWaybill
		}
	}

	s.ID = primitive.NewObjectID().Hex()
	stored := *s
	stored.Rider, stored.CreatedBy = nil, nil
	r.shipments[s.ID] = stored
	return nil
}

// FindByID returns the shipment with the given ID.
func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shipments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.expand(s), nil
}

// FindByWaybill returns the shipment with the given waybill number.
func (r *MemoryRepository) FindByWaybill(ctx context.Context, waybillNumber string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.shipments {
		if s.WaybillNumber == waybillNumber {
			return r.expand(s), nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns shipments ordered by creation time, newest first.
func (r *MemoryRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Shipment, 0, len(r.shipments))
	for _, s := range r.shipments {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, *r.expand(s))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= int64(len(result)) {
			return []domain.Shipment{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < int64(len(result)) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Update applies the patch under the write lock.
func (r *MemoryRepository) Update(ctx context.Context, id string, patch domain.ShipmentPatch, updatedAt time.Time) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shipments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	patch.Apply(&s)
	s.UpdatedAt = updatedAt
	r.shipments[id] = s
	return r.expand(s), nil
}

// Delete removes the shipment.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shipments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.shipments, id)
	return nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// expand resolves rider and staff references. Callers hold at least the read lock.
func (r *MemoryRepository) expand(s domain.Shipment) *domain.Shipment {
	if rider, ok := r.riders[s.RiderID]; ok {
		s.Rider = &rider
	}
	if staff, ok := r.staff[s.CreatedByID]; ok {
		s.CreatedBy = &staff
	}
	return &s
}
