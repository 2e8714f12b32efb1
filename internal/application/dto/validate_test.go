package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sistema-compras/internal/application/dto"
	"github.com/jhoicas/sistema-compras/internal/domain"
)

func TestValidate_ProductoNombreCorto(t *testing.T) {
	err := dto.Validate(dto.ProductPayload{Name: "ab", Unit: "Caja"})
	var fe *domain.FieldValidationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "El nombre debe tener al menos 3 caracteres.", fe.Message)
}

func TestValidate_PrimerCampoGana(t *testing.T) {
	err := dto.Validate(&dto.OfficialPayload{})
	var fe *domain.FieldValidationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "fullName", fe.Field)
}

func TestValidate_IvaFueraDeRango(t *testing.T) {
	pct := 120.0
	err := dto.Validate(dto.IvaSettings{IvaPercentage: &pct})
	var fe *domain.FieldValidationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Por favor, ingrese un porcentaje de IVA válido (0-100).", fe.Message)

	pct = 0
	assert.NoError(t, dto.Validate(dto.IvaSettings{IvaPercentage: &pct}))
}

func TestValidate_Valido(t *testing.T) {
	assert.NoError(t, dto.Validate(dto.AccountPointPayload{Date: "2024-05-01", Subject: "Adquisición de equipos"}))
	assert.NoError(t, dto.Validate(dto.ProviderPayload{Name: "Suministros C.A.", RIF: "J-12345678-9"}))
}

func TestOrderSearchParams_Normalize(t *testing.T) {
	p := dto.OrderSearchParams{}
	p.Normalize(5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.Limit)
}
