package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func validInput() CreateShipmentInput {
	return CreateShipmentInput{
		SenderName:        "Ada",
		SenderPhoneNumber: "+2348000000001",
		ReceiverName:      "Bayo",
		ReceiverAddress:   "12 Allen Avenue, Ikeja",
		ReceiverPhone:     "+2348000000002",
		Name:              "Laptop",
		Description:       "14 inch laptop in original box",
		DeliveryType:      "Express",
		OriginState:       "Lagos",
		DestinationState:  "Abuja",
		BranchName:        "Ikeja",
		PaymentMethod:     "Cash",
		TotalPrice:        floatPtr(700),
		AmountPaid:        floatPtr(500),
		RiderID:           "65a000000000000000000001",
		StaffID:           "65a000000000000000000002",
	}
}

func TestCreateShipmentInput_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(in *CreateShipmentInput)
		expectedMsg string
		violations  []string
	}{
		{
			name:   "Valid",
			mutate: func(in *CreateShipmentInput) {},
		},
		{
			name: "Zero amounts are accepted",
			mutate: func(in *CreateShipmentInput) {
				in.TotalPrice = floatPtr(0)
				in.AmountPaid = floatPtr(0)
			},
		},
		{
			name:        "Missing sender name",
			mutate:      func(in *CreateShipmentInput) { in.SenderName = "" },
			expectedMsg: MsgFieldsRequired,
			violations:  []string{"senderName"},
		},
		{
			name:        "Whitespace counts as missing",
			mutate:      func(in *CreateShipmentInput) { in.BranchName = "   " },
			expectedMsg: MsgFieldsRequired,
			violations:  []string{"branchName"},
		},
		{
			name: "Missing amounts and rider",
			mutate: func(in *CreateShipmentInput) {
				in.TotalPrice = nil
				in.AmountPaid = nil
				in.RiderID = ""
			},
			expectedMsg: MsgFieldsRequired,
			violations:  []string{"rider", "totalPrice", "amountPaid"},
		},
		{
			name:        "Unknown item condition",
			mutate:      func(in *CreateShipmentInput) { in.ItemCondition = "Soaked" },
			expectedMsg: MsgInvalidItemCondition,
			violations:  []string{"itemCondition"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.expectedMsg == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.expectedMsg, vErr.Message)
			assert.Equal(t, tt.violations, vErr.Violations)
		})
	}
}

func TestNewShipment_Defaults(t *testing.T) {
	now := time.Date(2024, 10, 16, 9, 0, 0, 0, time.UTC)

	s := NewShipment(validInput(), "LAGABU-IKE-2410160001", now)

	assert.Equal(t, ShipmentStatusPending, s.Status)
	assert.Equal(t, ItemConditionNotDamagedOrGood, s.ItemCondition)
	assert.Equal(t, float64(0), s.Insurance)
	assert.Equal(t, "LAGABU-IKE-2410160001", s.WaybillNumber)
	assert.Equal(t, float64(500), s.AmountPaid)
	assert.Equal(t, now, s.CreatedAt)
}

func TestNewShipment_ExplicitOptionals(t *testing.T) {
	in := validInput()
	in.Insurance = floatPtr(50)
	in.ItemCondition = ItemConditionDamaged

	s := NewShipment(in, "WB1", time.Now())

	assert.Equal(t, float64(50), s.Insurance)
	assert.Equal(t, ItemConditionDamaged, s.ItemCondition)
}

func TestShipmentPatch_Validate(t *testing.T) {
	bad := ShipmentStatus("Lost")
	good := ShipmentStatusDelivered
	badCondition := ItemCondition("Wet")

	assert.NoError(t, ShipmentPatch{}.Validate())
	assert.NoError(t, ShipmentPatch{Status: &good}.Validate())

	err := ShipmentPatch{Status: &bad}.Validate()
	assert.EqualError(t, err, MsgInvalidStatus)

	err = ShipmentPatch{ItemCondition: &badCondition}.Validate()
	assert.EqualError(t, err, MsgInvalidItemCondition)
}

func TestShipmentPatch_ApplyOnlyPresentFields(t *testing.T) {
	s := &Shipment{
		Status:        ShipmentStatusInTransit,
		Insurance:     20,
		ItemCondition: ItemConditionDamaged,
		RiderID:       "r1",
		CreatedByID:   "s1",
		Rider:         &Rider{ID: "r1"},
	}

	ShipmentPatch{Insurance: floatPtr(0)}.Apply(s)

	assert.Equal(t, float64(0), s.Insurance)
	assert.Equal(t, ShipmentStatusInTransit, s.Status)
	assert.Equal(t, ItemConditionDamaged, s.ItemCondition)
	assert.Equal(t, "r1", s.RiderID)
	assert.NotNil(t, s.Rider)

	rider := "r2"
	ShipmentPatch{RiderID: &rider}.Apply(s)
	assert.Equal(t, "r2", s.RiderID)
	assert.Nil(t, s.Rider)
}

func TestShipmentStatus_Notifies(t *testing.T) {
	assert.False(t, ShipmentStatusPending.Notifies())
	assert.True(t, ShipmentStatusInTransit.Notifies())
	assert.True(t, ShipmentStatusDelivered.Notifies())
	assert.True(t, ShipmentStatusCanceled.Notifies())
}

func TestNotFoundError(t *testing.T) {
	err := NewShipmentNotFound("ID", "65a000000000000000000009")

	assert.EqualError(t, err, "Shipment with ID 65a000000000000000000009 not found")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDependencyError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &DependencyError{Dependency: "store", Op: "create shipment", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
