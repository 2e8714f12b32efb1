package dto

// Los payloads llevan en la etiqueta msg el texto mostrado al usuario cuando
// la regla validate correspondiente falla.

// ProviderPayload alta/edición de proveedor.
type ProviderPayload struct {
	Name    string `json:"name" validate:"required,max=200" msg:"El nombre del proveedor es requerido."`
	RIF     string `json:"rif" validate:"required,max=20" msg:"El RIF es requerido."`
	Address string `json:"address" validate:"max=500" msg:"La dirección no debe exceder los 500 caracteres."`
}

// UnitPayload alta/edición de unidad.
type UnitPayload struct {
	Name     string `json:"name" validate:"required,max=200" msg:"El nombre de la unidad es requerido."`
	IsActive bool   `json:"isActive"`
}

// PositionPayload alta/edición de cargo.
type PositionPayload struct {
	Name     string `json:"name" validate:"required,max=200" msg:"El nombre del cargo es requerido."`
	IsActive bool   `json:"isActive"`
}

// OfficialPayload alta/edición de funcionario.
type OfficialPayload struct {
	FullName   string `json:"fullName" validate:"required,max=200" msg:"El nombre completo es requerido."`
	UnitID     int64  `json:"unitId" validate:"required,gt=0" msg:"Debe seleccionar una unidad."`
	PositionID int64  `json:"positionId" validate:"required,gt=0" msg:"Debe seleccionar un cargo."`
	IsActive   bool   `json:"isActive"`
}

// ProductPayload alta/edición de producto o servicio del catálogo.
type ProductPayload struct {
	Name       string `json:"name" validate:"required,min=3,max=200" msg:"El nombre debe tener al menos 3 caracteres."`
	Unit       string `json:"unit" validate:"required" msg:"Debe especificar una unidad."`
	IsActive   bool   `json:"isActive"`
	AppliesIva bool   `json:"appliesIva"`
}

// AccountPointPayload alta/edición de punto de cuenta.
type AccountPointPayload struct {
	Date                 string `json:"date" validate:"required,datetime=2006-01-02" msg:"La fecha es requerida."`
	Subject              string `json:"subject" validate:"required" msg:"El asunto es requerido."`
	Synthesis            string `json:"synthesis"`
	ProgrammaticCategory string `json:"programmaticCategory"`
	UEL                  string `json:"uel"`
}

// IvaSettings cuerpo de GET/PUT /api/settings/iva.
type IvaSettings struct {
	IvaPercentage *float64 `json:"ivaPercentage" validate:"required,gte=0,lte=100" msg:"Por favor, ingrese un porcentaje de IVA válido (0-100)."`
}
