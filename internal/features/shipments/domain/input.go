package domain

import (
	"strings"
	"time"
)

// CreateShipmentInput carries everything needed to book a shipment.
// Required numbers are pointers so that an explicit 0 is distinguishable from a missing value.
type CreateShipmentInput struct {
	SenderName        string `json:"senderName"`
	SenderPhoneNumber string `json:"senderPhoneNumber"`
	ReceiverName      string `json:"receiverName"`
	ReceiverAddress   string `json:"receiverAddress"`
	ReceiverPhone     string `json:"receiverPhone"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	DeliveryType      string `json:"deliveryType"`
	OriginState       string `json:"originState"`
	DestinationState  string `json:"destinationState"`
	BranchName        string `json:"branchName"`
	PaymentMethod     string `json:"paymentMethod"`

	TotalPrice *float64 `json:"totalPrice"`
	AmountPaid *float64 `json:"amountPaid"`

	// Insurance defaults to 0 and ItemCondition to NotDamagedOrGood.
	Insurance     *float64      `json:"insurance,omitempty"`
	ItemCondition ItemCondition `json:"itemCondition,omitempty"`

	RiderID string `json:"rider"`
	StaffID string `json:"createdBy"`
}

// Validate reports every missing required field in a single ValidationError.
func (in CreateShipmentInput) Validate() error {
	var missing []string

	required := []struct {
		field string
		value string
	}{
		{"senderName", in.SenderName},
		{"senderPhoneNumber", in.SenderPhoneNumber},
		{"receiverName", in.ReceiverName},
		{"receiverAddress", in.ReceiverAddress},
		{"receiverPhone", in.ReceiverPhone},
		{"name", in.Name},
		{"description", in.Description},
		{"deliveryType", in.DeliveryType},
		{"originState", in.OriginState},
		{"destinationState", in.DestinationState},
		{"branchName", in.BranchName},
		{"paymentMethod", in.PaymentMethod},
		{"rider", in.RiderID},
		{"createdBy", in.StaffID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if in.TotalPrice == nil {
		missing = append(missing, "totalPrice")
	}
	if in.AmountPaid == nil {
		missing = append(missing, "amountPaid")
	}

	if len(missing) > 0 {
		return NewValidationError(MsgFieldsRequired, missing...)
	}

	if in.ItemCondition != "" && !in.ItemCondition.Valid() {
		return NewValidationError(MsgInvalidItemCondition, "itemCondition")
	}

	return nil
}

// NewShipment builds a Pending shipment from validated input.
func NewShipment(in CreateShipmentInput, waybillNumber string, now time.Time) *Shipment {
	condition := in.ItemCondition
	if condition == "" {
		condition = ItemConditionNotDamagedOrGood
	}

	var insurance float64
	if in.Insurance != nil {
		insurance = *in.Insurance
	}

	return &Shipment{
		SenderName:        in.SenderName,
		SenderPhoneNumber: in.SenderPhoneNumber,
		ReceiverName:      in.ReceiverName,
		ReceiverAddress:   in.ReceiverAddress,
		ReceiverPhone:     in.ReceiverPhone,
		Name:              in.Name,
		Description:       in.Description,
		DeliveryType:      in.DeliveryType,
		OriginState:       in.OriginState,
		DestinationState:  in.DestinationState,
		BranchName:        in.BranchName,
		WaybillNumber:     waybillNumber,
		Status:            ShipmentStatusPending,
		TotalPrice:        *in.TotalPrice,
		AmountPaid:        *in.AmountPaid,
		PaymentMethod:     in.PaymentMethod,
		Insurance:         insurance,
		ItemCondition:     condition,
		RiderID:           in.RiderID,
		CreatedByID:       in.StaffID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
