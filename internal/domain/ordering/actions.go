package ordering

// DocumentKind enumerates the PDF artifacts the platform core can generate
// for an order.
type DocumentKind string

const (
	DocumentDeliveryNote    DocumentKind = "delivery_note"
	DocumentInvoice         DocumentKind = "invoice"
	DocumentProformaInvoice DocumentKind = "proforma_invoice"
	DocumentCreditNote      DocumentKind = "credit_note"
	DocumentStornoBill      DocumentKind = "storno_bill"
)

// AllDocumentKinds lists the document kinds offered in the back office.
var AllDocumentKinds = []DocumentKind{
	DocumentDeliveryNote,
	DocumentInvoice,
	DocumentProformaInvoice,
	DocumentCreditNote,
	DocumentStornoBill,
}

// IsValid checks if the kind is a known document kind
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentDeliveryNote, DocumentInvoice, DocumentProformaInvoice,
		DocumentCreditNote, DocumentStornoBill:
		return true
	}
	return false
}

// EmailKind enumerates the per-milestone transactional customer emails an
// admin can trigger for an order.
type EmailKind string

const (
	EmailProcessing  EmailKind = "processing"
	EmailShipped     EmailKind = "shipped"
	EmailInCustoms   EmailKind = "in_customs"
	EmailOnDelivery  EmailKind = "on_delivery"
	EmailDelivered   EmailKind = "delivered"
	EmailCancelled   EmailKind = "cancelled"
	EmailRefunded    EmailKind = "refunded"
	EmailPaidInvoice EmailKind = "paid_invoice"
)

// AllEmailKinds lists the email kinds offered in the back office.
var AllEmailKinds = []EmailKind{
	EmailProcessing,
	EmailShipped,
	EmailInCustoms,
	EmailOnDelivery,
	EmailDelivered,
	EmailCancelled,
	EmailRefunded,
	EmailPaidInvoice,
}

// IsValid checks if the kind is a known email kind
func (k EmailKind) IsValid() bool {
	switch k {
	case EmailProcessing, EmailShipped, EmailInCustoms, EmailOnDelivery,
		EmailDelivered, EmailCancelled, EmailRefunded, EmailPaidInvoice:
		return true
	}
	return false
}
