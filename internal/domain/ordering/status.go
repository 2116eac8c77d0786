package ordering

// Status represents the lifecycle status of an order. The set is closed:
// the platform core never emits a value outside of it, and the back office
// offers exactly this set in its "change status" action.
type Status string

const (
	StatusPending            Status = "pending"
	StatusProcessing         Status = "processing"
	StatusPaid               Status = "paid"
	StatusShipped            Status = "shipped"
	StatusOnDelivery         Status = "on_delivery"
	StatusInTransit          Status = "in_transit"
	StatusInCustoms          Status = "in_customs"
	StatusCompleted          Status = "completed"
	StatusCancelled          Status = "cancelled"
	StatusPendingPayment     Status = "pending_payment"
	StatusOrderCancelRequest Status = "order_cancel_request"
)

// AllStatuses lists every order status, in the order the back office
// presents them.
var AllStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusPaid,
	StatusShipped,
	StatusOnDelivery,
	StatusInTransit,
	StatusInCustoms,
	StatusCompleted,
	StatusCancelled,
	StatusPendingPayment,
	StatusOrderCancelRequest,
}

// IsValid checks if the status belongs to the closed set
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusPaid, StatusShipped,
		StatusOnDelivery, StatusInTransit, StatusInCustoms, StatusCompleted,
		StatusCancelled, StatusPendingPayment, StatusOrderCancelRequest:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for statuses in which the admin cancel action is
// no longer offered. Any other admin status change remains allowed; whether
// a given transition makes sense is decided by the platform core, not here.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanCancel reports whether the admin cancel action may be offered for an
// order currently in this status.
func (s Status) CanCancel() bool {
	return !s.IsTerminal()
}

// HasPendingCancellationRequest reports whether the approve/reject
// resolution panel applies. It is shown for this status and no other.
func (s Status) HasPendingCancellationRequest() bool {
	return s == StatusOrderCancelRequest
}
