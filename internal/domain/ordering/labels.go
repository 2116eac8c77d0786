package ordering

import "golang.org/x/text/language"

// Status display labels. The storefront is French-first; the back office
// may request English through Accept-Language.
var statusLabelsFR = map[Status]string{
	StatusPending:            "En attente",
	StatusProcessing:         "En préparation",
	StatusPaid:               "Payée",
	StatusShipped:            "Expédiée",
	StatusOnDelivery:         "En cours de livraison",
	StatusInTransit:          "En transit",
	StatusInCustoms:          "En douane",
	StatusCompleted:          "Livrée",
	StatusCancelled:          "Annulée",
	StatusPendingPayment:     "En attente de paiement",
	StatusOrderCancelRequest: "Demande d'annulation",
}

var statusLabelsEN = map[Status]string{
	StatusPending:            "Pending",
	StatusProcessing:         "Processing",
	StatusPaid:               "Paid",
	StatusShipped:            "Shipped",
	StatusOnDelivery:         "Out for delivery",
	StatusInTransit:          "In transit",
	StatusInCustoms:          "In customs",
	StatusCompleted:          "Completed",
	StatusCancelled:          "Cancelled",
	StatusPendingPayment:     "Pending payment",
	StatusOrderCancelRequest: "Cancellation requested",
}

// labelMatcher resolves Accept-Language against the supported label
// languages. French comes first so it wins for unknown or empty tags.
var labelMatcher = language.NewMatcher([]language.Tag{
	language.French,
	language.English,
})

// Label returns the display label for the status in the best matching
// supported language. An unknown status falls back to its raw value so a
// future platform-side addition degrades visibly instead of blanking out.
func (s Status) Label(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		tags = nil
	}
	_, index, _ := labelMatcher.Match(tags...)

	labels := statusLabelsFR
	if index == 1 {
		labels = statusLabelsEN
	}
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}
