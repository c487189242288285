package models

type OrderStatus string

const (
	OrderStatusWaitingPayment OrderStatus = "waiting_payment"
	OrderStatusPaymentFailed  OrderStatus = "payment_failed"
	OrderStatusInQueue        OrderStatus = "in_queue"
	OrderStatusInProgress     OrderStatus = "in_progress"
	OrderStatusReadyToServe   OrderStatus = "ready_to_serve"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusWaitingPayment: "Waiting Payment",
	OrderStatusPaymentFailed:  "Payment Failed",
	OrderStatusInQueue:        "In Queue",
	OrderStatusInProgress:     "In Progress",
	OrderStatusReadyToServe:   "Ready to Serve",
	OrderStatusCompleted:      "Completed",
	OrderStatusCancelled:      "Cancelled",
}

// OrderStatuses lists every order status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusWaitingPayment,
		OrderStatusPaymentFailed,
		OrderStatusInQueue,
		OrderStatusInProgress,
		OrderStatusReadyToServe,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusAuthorize         PaymentStatus = "authorize"
	PaymentStatusCapture           PaymentStatus = "capture"
	PaymentStatusSettlement        PaymentStatus = "settlement"
	PaymentStatusDeny              PaymentStatus = "deny"
	PaymentStatusCancel            PaymentStatus = "cancel"
	PaymentStatusRefund            PaymentStatus = "refund"
	PaymentStatusPartialRefund     PaymentStatus = "partial_refund"
	PaymentStatusChargeback        PaymentStatus = "chargeback"
	PaymentStatusPartialChargeback PaymentStatus = "partial_chargeback"
	PaymentStatusExpire            PaymentStatus = "expire"
	PaymentStatusFailure           PaymentStatus = "failure"
)

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentStatusPending:           "Pending",
	PaymentStatusAuthorize:         "Authorized",
	PaymentStatusCapture:           "Captured",
	PaymentStatusSettlement:        "Settlement",
	PaymentStatusDeny:              "Denied",
	PaymentStatusCancel:            "Cancelled",
	PaymentStatusRefund:            "Refunded",
	PaymentStatusPartialRefund:     "Partial Refund",
	PaymentStatusChargeback:        "Chargeback",
	PaymentStatusPartialChargeback: "Partial Chargeback",
	PaymentStatusExpire:            "Expired",
	PaymentStatusFailure:           "Failed",
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusLabels[s]
	return ok
}

func (s PaymentStatus) Label() string {
	if label, ok := paymentStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeAway OrderType = "take_away"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeAway
}

func (t OrderType) Label() string {
	switch t {
	case OrderTypeDineIn:
		return "Dine In"
	case OrderTypeTakeAway:
		return "Take Away"
	}
	return string(t)
}
