package services

import "github.com/yeremiapane/ordermenu/models"

type statusSet map[models.OrderStatus]struct{}

func setOf(statuses ...models.OrderStatus) statusSet {
	s := make(statusSet, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}
	return s
}

func (s statusSet) has(st models.OrderStatus) bool {
	_, ok := s[st]
	return ok
}

// orderTransitions is the complete lifecycle graph. completed and cancelled
// have no outgoing edges.
var orderTransitions = map[models.OrderStatus]statusSet{
	models.OrderStatusWaitingPayment: setOf(models.OrderStatusInQueue, models.OrderStatusPaymentFailed),
	models.OrderStatusPaymentFailed:  setOf(),
	models.OrderStatusInQueue:        setOf(models.OrderStatusInProgress, models.OrderStatusCancelled),
	models.OrderStatusInProgress:     setOf(models.OrderStatusReadyToServe, models.OrderStatusCancelled),
	models.OrderStatusReadyToServe:   setOf(models.OrderStatusCompleted, models.OrderStatusCancelled),
	models.OrderStatusCompleted:      setOf(),
	models.OrderStatusCancelled:      setOf(),
}

// kitchenTransitions are the edges kitchen staff may drive. Completion is
// reserved for the cashier.
var kitchenTransitions = map[models.OrderStatus]statusSet{
	models.OrderStatusInQueue:      setOf(models.OrderStatusInProgress, models.OrderStatusCancelled),
	models.OrderStatusInProgress:   setOf(models.OrderStatusReadyToServe, models.OrderStatusCancelled),
	models.OrderStatusReadyToServe: setOf(models.OrderStatusCancelled),
	models.OrderStatusCompleted:    setOf(),
	models.OrderStatusCancelled:    setOf(),
}

var kitchenFlow = setOf(
	models.OrderStatusInQueue,
	models.OrderStatusInProgress,
	models.OrderStatusReadyToServe,
)

// KitchenFlowStatuses returns the statuses shown on the kitchen board.
func KitchenFlowStatuses() []models.OrderStatus {
	return []models.OrderStatus{
		models.OrderStatusInQueue,
		models.OrderStatusInProgress,
		models.OrderStatusReadyToServe,
	}
}

func IsKitchenFlow(s models.OrderStatus) bool {
	return kitchenFlow.has(s)
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderStatusCompleted || s == models.OrderStatusCancelled
}

// CanTransition reports whether from -> to is an edge of the lifecycle graph.
func CanTransition(from, to models.OrderStatus) bool {
	return orderTransitions[from].has(to)
}

// CanKitchenTransition reports whether kitchen staff may move from -> to.
func CanKitchenTransition(from, to models.OrderStatus) bool {
	return kitchenTransitions[from].has(to)
}

// CanDelete reports whether an order in status s may be cancelled by deletion.
func CanDelete(s models.OrderStatus) bool {
	return s != models.OrderStatusCompleted && s != models.OrderStatusReadyToServe
}

// StatusAfterItemToggle derives the order status once an item toggle has been
// applied. Only in_progress and ready_to_serve react to item completion.
func StatusAfterItemToggle(current models.OrderStatus, allDone bool) models.OrderStatus {
	switch {
	case allDone && current == models.OrderStatusInProgress:
		return models.OrderStatusReadyToServe
	case !allDone && current == models.OrderStatusReadyToServe:
		return models.OrderStatusInProgress
	}
	return current
}

var (
	paidStatuses   = map[models.PaymentStatus]bool{models.PaymentStatusCapture: true, models.PaymentStatusSettlement: true}
	failedStatuses = map[models.PaymentStatus]bool{
		models.PaymentStatusDeny:    true,
		models.PaymentStatusCancel:  true,
		models.PaymentStatusExpire:  true,
		models.PaymentStatusFailure: true,
	}
)

// StatusAfterPayment derives the order status from a provider payment status.
// Only orders still waiting for payment move.
func StatusAfterPayment(current models.OrderStatus, payment models.PaymentStatus) models.OrderStatus {
	if current != models.OrderStatusWaitingPayment {
		return current
	}
	var next models.OrderStatus
	switch {
	case paidStatuses[payment]:
		next = models.OrderStatusInQueue
	case failedStatuses[payment]:
		next = models.OrderStatusPaymentFailed
	default:
		return current
	}
	if !CanTransition(current, next) {
		return current
	}
	return next
}
