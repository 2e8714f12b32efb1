package dto

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP. Field solo viene en errores de validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Notices []string `json:"avisos,omitempty"`
}

// HealthResponse salida de /health.
type HealthResponse struct {
	Status string `json:"status"`
}
