package ordering

import "strings"

// RequestKind distinguishes what a customer asked for when an order moved
// to order_cancel_request: a plain cancellation, or a cancellation with
// refund of an already-captured payment.
type RequestKind string

const (
	RequestKindCancellation RequestKind = "cancellation"
	RequestKindRefund       RequestKind = "refund"
)

// IsValid checks if the kind is one of the known request kinds
func (k RequestKind) IsValid() bool {
	return k == RequestKindCancellation || k == RequestKindRefund
}

// ClassifyRequest resolves the request kind for an order. Newer platform
// payloads carry an explicit kind; older ones only mark refund requests by
// embedding the literal "REFUND" in the free-text cancellation reason. That
// legacy convention is honored here and nowhere else.
func ClassifyRequest(kind RequestKind, cancellationReason string) RequestKind {
	if kind.IsValid() {
		return kind
	}
	if strings.Contains(cancellationReason, "REFUND") {
		return RequestKindRefund
	}
	return RequestKindCancellation
}

// Resolution is the admin decision on a pending cancellation request.
type Resolution string

const (
	ResolutionApprove Resolution = "approve"
	ResolutionReject  Resolution = "reject"
)

// IsValid checks if the resolution is one of the two admin decisions
func (r Resolution) IsValid() bool {
	return r == ResolutionApprove || r == ResolutionReject
}
