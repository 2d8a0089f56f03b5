package handler

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidBody       = "Invalid request body"
	msgInvalidPagination = "Invalid pagination"
	msgInvalidWaybill    = "Invalid waybill number"
	msgServerError       = "Server error"
	msgShipmentDeleted   = "Shipment deleted successfully"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	shipmentService ports.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipmentService ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// Error carries the underlying cause for server errors only.
	Error string `json:"error,omitempty"`
	// Violations names the offending input fields.
	Violations []string `json:"violations,omitempty"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// MessageResponse is returned by operations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRoutes mounts the shipment endpoints on r.
func (h *ShipmentHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/shipments")
	g.Post("/", h.CreateShipment)
	g.Get("/", h.ListShipments)
	g.Get("/waybill/:waybillNumber", h.GetShipmentByWaybill)
	g.Get("/:id", h.GetShipment)
	g.Patch("/:id", h.UpdateShipment)
	g.Put("/:id", h.UpdateShipment)
	g.Delete("/:id", h.DeleteShipment)
}

// CreateShipment godoc
// @Summary Create a shipment
// @Description Books a shipment as Pending, assigns a waybill number and texts the sender
// @Tags shipments
// @Accept json
// @Produce json
// @Param shipment body domain.CreateShipmentInput true "Shipment"
// @Success 201 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments [post]
func (h *ShipmentHandler) CreateShipment(c *fiber.Ctx) error {
	var input domain.CreateShipmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: msgInvalidBody,
			RayID:   rayID(c),
		})
	}

	shipment, err := h.shipmentService.CreateShipment(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(shipment)
}

// ListShipments godoc
// @Summary List shipments
// @Description Returns shipments newest first with rider and staff resolved
// @Tags shipments
// @Produce json
// @Param status query string false "Filter by status" Enums(Pending, InTransit, Delivered, Canceled)
// @Param limit query int false "Page size"
// @Param offset query int false "Number of shipments to skip"
// @Success 200 {array} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments [get]
func (h *ShipmentHandler) ListShipments(c *fiber.Ctx) error {
	filter := domain.ListFilter{Status: domain.ShipmentStatus(c.Query("status"))}

	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return h.badPagination(c, "limit")
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return h.badPagination(c, "offset")
	}

	shipments, err := h.shipmentService.ListShipments(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(shipments)
}

// GetShipment godoc
// @Summary Get a shipment by id
// @Tags shipments
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) GetShipment(c *fiber.Ctx) error {
	shipment, err := h.shipmentService.GetShipmentByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(shipment)
}

// GetShipmentByWaybill godoc
// @Summary Track a shipment by waybill number
// @Tags shipments
// @Produce json
// @Param waybillNumber path string true "Waybill Number"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/waybill/{waybillNumber} [get]
func (h *ShipmentHandler) GetShipmentByWaybill(c *fiber.Ctx) error {
	// Fiber hands route params over still percent-encoded.
	waybill, err := url.PathUnescape(c.Params("waybillNumber"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: msgInvalidWaybill,
			RayID:   rayID(c),
		})
	}

	shipment, err := h.shipmentService.GetShipmentByWaybill(c.UserContext(), strings.TrimSpace(waybill))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(shipment)
}

// UpdateShipment godoc
// @Summary Update a shipment
// @Description Applies the fields present in the body. Moving to InTransit, Delivered or Canceled texts sender and receiver.
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param patch body domain.ShipmentPatch true "Fields to change"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{id} [patch]
// @Router /shipments/{id} [put]
func (h *ShipmentHandler) UpdateShipment(c *fiber.Ctx) error {
	var patch domain.ShipmentPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: msgInvalidBody,
			RayID:   rayID(c),
		})
	}

	shipment, err := h.shipmentService.UpdateShipment(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(shipment)
}

// DeleteShipment godoc
// @Summary Delete a shipment
// @Tags shipments
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /shipments/{id} [delete]
func (h *ShipmentHandler) DeleteShipment(c *fiber.Ctx) error {
	if err := h.shipmentService.DeleteShipment(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: msgShipmentDeleted})
}

// fail maps service errors to status codes.
func (h *ShipmentHandler) fail(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message:    vErr.Message,
			Violations: vErr.Violations,
			RayID:      rayID(c),
		})
	}

	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: msgServerError,
		Error:   err.Error(),
		RayID:   rayID(c),
	})
}

func (h *ShipmentHandler) badPagination(c *fiber.Ctx, field string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message:    msgInvalidPagination,
		Violations: []string{field},
		RayID:      rayID(c),
	})
}

// queryInt parses an optional integer query parameter. Absent means 0.
func queryInt(c *fiber.Ctx, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
