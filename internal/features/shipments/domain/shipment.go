package domain

import "time"

// ShipmentStatus represents the delivery state of a shipment.
type ShipmentStatus string

const (
	// ShipmentStatusPending indicates the shipment is awaiting payment confirmation.
	ShipmentStatusPending ShipmentStatus = "Pending"
	// ShipmentStatusInTransit indicates the shipment is on its way to the receiver.
	ShipmentStatusInTransit ShipmentStatus = "InTransit"
	// ShipmentStatusDelivered indicates the shipment reached the receiver.
	ShipmentStatusDelivered ShipmentStatus = "Delivered"
	// ShipmentStatusCanceled indicates the shipment was canceled.
	ShipmentStatusCanceled ShipmentStatus = "Canceled"
)

// Valid reports whether s is one of the known statuses.
func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusInTransit, ShipmentStatusDelivered, ShipmentStatusCanceled:
		return true
	}
	return false
}

// Notifies reports whether moving a shipment into s sends SMS to sender and receiver.
func (s ShipmentStatus) Notifies() bool {
	return s == ShipmentStatusInTransit || s == ShipmentStatusDelivered || s == ShipmentStatusCanceled
}

// ItemCondition describes the physical state of the shipped goods.
type ItemCondition string

const (
	ItemConditionDamaged          ItemCondition = "Damaged"
	ItemConditionPartiallyDamaged ItemCondition = "PartiallyDamaged"
	ItemConditionNotDamagedOrGood ItemCondition = "NotDamagedOrGood"
)

// Valid reports whether c is one of the known item conditions.
func (c ItemCondition) Valid() bool {
	switch c {
	case ItemConditionDamaged, ItemConditionPartiallyDamaged, ItemConditionNotDamagedOrGood:
		return true
	}
	return false
}

// Rider is the courier assigned to deliver a shipment.
type Rider struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

// Staff is the employee who created or last reassigned a shipment.
type Staff struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Shipment is a parcel moving from a sender to a receiver.
type Shipment struct {
	ID string `json:"id"`

	SenderName        string `json:"senderName"`
	SenderPhoneNumber string `json:"senderPhoneNumber"`
	ReceiverName      string `json:"receiverName"`
	ReceiverAddress   string `json:"receiverAddress"`
	ReceiverPhone     string `json:"receiverPhone"`

	Name             string `json:"name"`
	Description      string `json:"description"`
	DeliveryType     string `json:"deliveryType"`
	OriginState      string `json:"originState"`
	DestinationState string `json:"destinationState"`
	BranchName       string `json:"branchName"`

	// WaybillNumber is assigned once at creation and never changes.
	WaybillNumber string         `json:"waybillNumber"`
	Status        ShipmentStatus `json:"status"`

	TotalPrice    float64       `json:"totalPrice"`
	AmountPaid    float64       `json:"amountPaid"`
	PaymentMethod string        `json:"paymentMethod"`
	Insurance     float64       `json:"insurance"`
	ItemCondition ItemCondition `json:"itemCondition"`

	RiderID     string `json:"riderId"`
	CreatedByID string `json:"createdById"`
	// Rider and CreatedBy are filled in on read when the referenced records exist.
	Rider     *Rider `json:"rider,omitempty"`
	CreatedBy *Staff `json:"createdBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShipmentPatch holds the mutable fields of a shipment. A nil field is left untouched.
type ShipmentPatch struct {
	Status        *ShipmentStatus `json:"status,omitempty"`
	Insurance     *float64        `json:"insurance,omitempty"`
	ItemCondition *ItemCondition  `json:"itemCondition,omitempty"`
	RiderID       *string         `json:"riderId,omitempty"`
	StaffID       *string         `json:"staffId,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ShipmentPatch) IsEmpty() bool {
	return p.Status == nil && p.Insurance == nil && p.ItemCondition == nil && p.RiderID == nil && p.StaffID == nil
}

// Validate checks enum membership of the present fields.
func (p ShipmentPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return NewValidationError(MsgInvalidStatus, "status")
	}
	if p.ItemCondition != nil && !p.ItemCondition.Valid() {
		return NewValidationError(MsgInvalidItemCondition, "itemCondition")
	}
	return nil
}

// Apply copies the present fields of p onto s.
func (p ShipmentPatch) Apply(s *Shipment) {
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Insurance != nil {
		s.Insurance = *p.Insurance
	}
	if p.ItemCondition != nil {
		s.ItemCondition = *p.ItemCondition
	}
	if p.RiderID != nil && *p.RiderID != s.RiderID {
		s.RiderID = *p.RiderID
		s.Rider = nil
	}
	if p.StaffID != nil && *p.StaffID != s.CreatedByID {
		s.CreatedByID = *p.StaffID
		s.CreatedBy = nil
	}
}

// ListFilter narrows and pages the shipment listing. The zero value lists everything.
type ListFilter struct {
	Status ShipmentStatus
	Limit  int64
	Offset int64
}

// Validate checks the optional status filter and paging bounds.
func (f ListFilter) Validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return NewValidationError(MsgInvalidStatus, "status")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return NewValidationError("Invalid pagination", "limit", "offset")
	}
	return nil
}
