package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"shipment-tracker/internal/features/shipments/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const shipmentID = "65e9a1f0c2a4b3d1e0f1a2b3"

// mockShipmentService is a testify mock of ports.ShipmentService.
type mockShipmentService struct {
	mock.Mock
}

func (m *mockShipmentService) CreateShipment(ctx context.Context, in domain.CreateShipmentInput) (*domain.Shipment, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*domain.Shipment)
	return s, args.Error(1)
}

func (m *mockShipmentService) UpdateShipment(ctx context.Context, id string, p domain.ShipmentPatch) (*domain.Shipment, error) {
	args := m.Called(ctx, id, p)
	s, _ := args.Get(0).(*domain.Shipment)
	return s, args.Error(1)
}

func (m *mockShipmentService) GetShipmentByID(ctx context.Context, id string) (*domain.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Shipment)
	return s, args.Error(1)
}

func (m *mockShipmentService) GetShipmentByWaybill(ctx context.Context, waybill string) (*domain.Shipment, error) {
	args := m.Called(ctx, waybill)
	s, _ := args.Get(0).(*domain.Shipment)
	return s, args.Error(1)
}

func (m *mockShipmentService) ListShipments(ctx context.Context, f domain.ListFilter) ([]domain.Shipment, error) {
	args := m.Called(ctx, f)
	s, _ := args.Get(0).([]domain.Shipment)
	return s, args.Error(1)
}

func (m *mockShipmentService) DeleteShipment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestApp(svc *mockShipmentService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	NewShipmentHandler(svc).RegisterRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeError(t *testing.T, raw []byte) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e
}

func TestShipmentHandler_Create(t *testing.T) {
	svc := new(mockShipmentService)
	created := &domain.Shipment{ID: shipmentID, WaybillNumber: "LAGABU-IKE-2403070001", Status: domain.ShipmentStatusPending}
	svc.On("CreateShipment", mock.Anything, mock.MatchedBy(func(in domain.CreateShipmentInput) bool {
		return in.SenderName == "Ada" && in.TotalPrice != nil && *in.TotalPrice == 0 && in.RiderID == "r1" && in.StaffID == "s1"
	})).Return(created, nil)

	status, raw := doRequest(t, newTestApp(svc), "POST", "/shipments",
		`{"senderName":"Ada","totalPrice":0,"rider":"r1","createdBy":"s1"}`)

	assert.Equal(t, fiber.StatusCreated, status)
	var got domain.Shipment
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "LAGABU-IKE-2403070001", got.WaybillNumber)
	assert.Equal(t, domain.ShipmentStatusPending, got.Status)
	svc.AssertExpectations(t)
}

func TestShipmentHandler_CreateValidationError(t *testing.T) {
	svc := new(mockShipmentService)
	svc.On("CreateShipment", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError(domain.MsgFieldsRequired, "senderName", "amountPaid"))

	status, raw := doRequest(t, newTestApp(svc), "POST", "/shipments", `{}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	e := decodeError(t, raw)
	assert.Equal(t, "All fields are required", e.Message)
	assert.Equal(t, []string{"senderName", "amountPaid"}, e.Violations)
	assert.Empty(t, e.Error)
	assert.Equal(t, "test-ray-id", e.RayID)
}

func TestShipmentHandler_CreateMalformedBody(t *testing.T) {
	svc := new(mockShipmentService)

	status, raw := doRequest(t, newTestApp(svc), "POST", "/shipments", `{"senderName":`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgInvalidBody, decodeError(t, raw).Message)
	svc.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
}

func TestShipmentHandler_List(t *testing.T) {
	svc := new(mockShipmentService)
	svc.On("ListShipments", mock.Anything, domain.ListFilter{Status: domain.ShipmentStatusDelivered, Limit: 10, Offset: 20}).
		Return([]domain.Shipment{{ID: "a"}, {ID: "b"}}, nil)

	status, raw := doRequest(t, newTestApp(svc), "GET", "/shipments?status=Delivered&limit=10&offset=20", "")

	assert.Equal(t, fiber.StatusOK, status)
	var got []domain.Shipment
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got, 2)
	svc.AssertExpectations(t)
}

func TestShipmentHandler_ListEmptyIsArray(t *testing.T) {
	svc := new(mockShipmentService)
	svc.On("ListShipments", mock.Anything, domain.ListFilter{}).Return([]domain.Shipment{}, nil)

	status, raw := doRequest(t, newTestApp(svc), "GET", "/shipments", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestShipmentHandler_ListBadPagination(t *testing.T) {
	svc := new(mockShipmentService)

	status, raw := doRequest(t, newTestApp(svc), "GET", "/shipments?limit=ten", "")

	assert.Equal(t, fiber.StatusBadRequest, status)
	e := decodeError(t, raw)
	assert.Equal(t, msgInvalidPagination, e.Message)
	assert.Equal(t, []string{"limit"}, e.Violations)
	svc.AssertNotCalled(t, "ListShipments", mock.Anything, mock.Anything)
}

func TestShipmentHandler_GetByID(t *testing.T) {
	svc := new(mockShipmentService)
	svc.On("GetShipmentByID", mock.Anything, shipmentID).Return(&domain.Shipment{
		ID:    shipmentID,
		Rider: &domain.Rider{ID: "r1", Name: "Chidi"},
	}, nil)

	status, raw := doRequest(t, newTestApp(svc), "GET", "/shipments/"+shipmentID, "")

	assert.Equal(t, fiber.StatusOK, status)
	var got domain.Shipment
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NotNil(t, got.Rider)
	assert.Equal(t, "Chidi", got.Rider.Name)
}

func TestShipmentHandler_GetByWaybill(t *testing.T) {
	svc := new(mockShipmentService)
	svc.On("GetShipmentByWaybill", mock.Anything, "LAGABU-IKE-2403070001").
		Return(&domain.Shipment{ID: shipmentID, WaybillNumber: "LAGABU-IKE-2403070001"}, nil)

	status, _ := doRequest(t, newTestApp(svc), "GET", "/shipments/waybill/LAGABU-IKE-2403070001", "")

	assert.Equal(t, fiber.StatusOK, status)
	svc.AssertExpectations(t)
}

func TestShipmentHandler_GetByWaybillDecodesPath(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"padded with encoded spaces", "/shipments/waybill/%20WB123%20", "WB123"},
		{"encoded tab", "/shipments/waybill/%09WB123", "WB123"},
		{"plain", "/shipments/waybill/WB123", "WB123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockShipmentService)
			svc.On("GetShipmentByWaybill", mock.Anything, tt.want).
				Return(&domain.Shipment{ID: shipmentID, WaybillNumber: tt.want}, nil)

			status, _ := doRequest(t, newTestApp(svc), "GET", tt.target, "")

			assert.Equal(t, fiber.StatusOK, status)
			svc.AssertExpectations(t)
		})
	}
}

func TestShipmentHandler_UpdatePatchAndPut(t *testing.T) {
	for _, method := range []string{"PATCH", "PUT"} {
		t.Run(method, func(t *testing.T) {
			svc := new(mockShipmentService)
			svc.On("UpdateShipment", mock.Anything, shipmentID, mock.MatchedBy(func(p domain.ShipmentPatch) bool {
				return p.Status != nil && *p.Status == domain.ShipmentStatusInTransit &&
					p.Insurance == nil && p.ItemCondition == nil && p.RiderID == nil && p.StaffID == nil
			})).Return(&domain.Shipment{ID: shipmentID, Status: domain.ShipmentStatusInTransit}, nil)

			status, raw := doRequest(t, newTestApp(svc), method, "/shipments/"+shipmentID, `{"status":"InTransit"}`)

			assert.Equal(t, fiber.StatusOK, status)
			var got domain.Shipment
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, domain.ShipmentStatusInTransit, got.Status)
			svc.AssertExpectations(t)
		})
	}
}

func TestShipmentHandler_Delete(t *testing.T) {
	svc := new(mockShipmentService)
	svc.On("DeleteShipment", mock.Anything, shipmentID).Return(nil)

	status, raw := doRequest(t, newTestApp(svc), "DELETE", "/shipments/"+shipmentID, "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"message":"Shipment deleted successfully"}`, string(raw))
}

func TestShipmentHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantCause   string
	}{
		{
			name:        "invalid id",
			err:         domain.NewValidationError(domain.MsgInvalidID, "id"),
			wantStatus:  fiber.StatusBadRequest,
			wantMessage: "Invalid ID format",
		},
		{
			name:        "not found",
			err:         domain.NewShipmentNotFound("ID", shipmentID),
			wantStatus:  fiber.StatusNotFound,
			wantMessage: "Shipment with ID " + shipmentID + " not found",
		},
		{
			name:        "store failure",
			err:         &domain.DependencyError{Dependency: "store", Op: "find shipment", Err: errors.New("connection reset")},
			wantStatus:  fiber.StatusInternalServerError,
			wantMessage: msgServerError,
			wantCause:   "store: find shipment: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockShipmentService)
			svc.On("GetShipmentByID", mock.Anything, shipmentID).Return(nil, tt.err)

			status, raw := doRequest(t, newTestApp(svc), "GET", "/shipments/"+shipmentID, "")

			assert.Equal(t, tt.wantStatus, status)
			e := decodeError(t, raw)
			assert.Equal(t, tt.wantMessage, e.Message)
			assert.Equal(t, tt.wantCause, e.Error)
			assert.Equal(t, "test-ray-id", e.RayID)
		})
	}
}
