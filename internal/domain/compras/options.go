package compras

// Opciones cerradas de los formularios de cotización y generación.
var (
	DocumentTypes     = []string{"Presupuesto", "Factura Proforma"}
	OfferQualities    = []string{"Alta", "Media", "Baja"}
	DeliveryTimes     = []string{"5 días", "15 días", "30 días", "Inmediato"}
	PriceInquiryTypes = []string{"Compras", "Servicios"}
	OrderStatuses     = []string{"En Proceso", "Completada", "Anulada"}
)

// IsOneOf reporta si v está entre las opciones.
func IsOneOf(v string, options []string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
