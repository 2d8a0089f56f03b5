package domain

import (
	"fmt"
	"strconv"
)

const brandName = "First Line Logistics"

// CreatedMessage is sent to the sender once a shipment is booked.
func CreatedMessage(s *Shipment) string {
	return fmt.Sprintf("Hello %s, your shipment with waybill %s is pending confirmation of payment via %s. Amount: %s.",
		s.SenderName, s.WaybillNumber, s.PaymentMethod, FormatAmount(s.AmountPaid))
}

// StatusMessages returns the sender and receiver texts for a status change.
// ok is false for statuses that do not notify.
func StatusMessages(s *Shipment, status ShipmentStatus) (sender, receiver string, ok bool) {
	switch status {
	case ShipmentStatusInTransit:
		sender = fmt.Sprintf("Hello %s, your shipment with waybill number %s is now in transit to %s. Thank you for choosing %s.",
			s.SenderName, s.WaybillNumber, s.ReceiverName, brandName)
		receiver = fmt.Sprintf("Hello %s, the shipment from %s with waybill number %s is now in transit. Thank you for choosing %s.",
			s.ReceiverName, s.SenderName, s.WaybillNumber, brandName)
	case ShipmentStatusDelivered:
		sender = fmt.Sprintf("Hello %s, your shipment with waybill number %s has been delivered to %s. Thank you for choosing %s.",
			s.SenderName, s.WaybillNumber, s.ReceiverName, brandName)
		receiver = fmt.Sprintf("Hello %s, the shipment from %s with waybill number %s has been delivered. Thank you for choosing %s.",
			s.ReceiverName, s.SenderName, s.WaybillNumber, brandName)
	case ShipmentStatusCanceled:
		sender = fmt.Sprintf("Hello %s, your shipment with waybill number %s has been canceled. We apologize for the inconvenience.",
			s.SenderName, s.WaybillNumber)
		receiver = fmt.Sprintf("Hello %s, the shipment from %s with waybill number %s has been canceled. We apologize for the inconvenience.",
			s.ReceiverName, s.SenderName, s.WaybillNumber)
	default:
		return "", "", false
	}
	return sender, receiver, true
}

// FormatAmount renders a money value without trailing zeros (500, 500.5).
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
