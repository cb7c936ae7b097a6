package enums

const (
	PaymentStatusPaid     = "PAID"
	PaymentStatusPending  = "PENDING"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)
