package enums

import "strings"

// TransactionStatus is the lifecycle of a POS transaction.
type TransactionStatus string

const (
	TransactionStatusOpen TransactionStatus = "OPEN"
	TransactionStatusPaid TransactionStatus = "PAID"
	TransactionStatusVoid TransactionStatus = "VOID"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusOpen, TransactionStatusPaid, TransactionStatusVoid:
		return true
	}
	return false
}

// ParseTransactionStatus normalizes an operator-supplied status filter;
// unknown values come back invalid rather than erroring so list filters can
// ignore them.
func ParseTransactionStatus(value string) (TransactionStatus, bool) {
	status := TransactionStatus(strings.ToUpper(strings.TrimSpace(value)))
	return status, status.IsValid()
}

// PaymentMethod mirrors the methods the register accepts.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodQRIS PaymentMethod = "qris"
	PaymentMethodCard PaymentMethod = "card"
)

// NormalizePaymentMethod maps free-form operator input onto a supported
// method, defaulting to cash.
func NormalizePaymentMethod(value string) PaymentMethod {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "QRIS":
		return PaymentMethodQRIS
	case "CARD":
		return PaymentMethodCard
	default:
		return PaymentMethodCash
	}
}

// ShipmentStatus tracks an inbound restock shipment.
type ShipmentStatus string

const (
	ShipmentStatusCreated    ShipmentStatus = "CREATED"
	ShipmentStatusOnDelivery ShipmentStatus = "ON_DELIVERY"
	ShipmentStatusDelivered  ShipmentStatus = "DELIVERED"
	ShipmentStatusFailed     ShipmentStatus = "FAILED"
)

func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusCreated, ShipmentStatusOnDelivery, ShipmentStatusDelivered, ShipmentStatusFailed:
		return true
	}
	return false
}
