package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/sistema-compras/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator instancia compartida; los nombres de campo se reportan con la etiqueta json.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate valida v y devuelve el primer campo inválido como *domain.FieldValidationError.
// El mensaje sale de la etiqueta msg del campo; si no existe se usa uno genérico.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := verrs[0]
	return domain.NewFieldError(fe.Field(), messageFor(v, fe))
}

func messageFor(v any, fe validator.FieldError) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if msg := sf.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("El campo %s no es válido.", fe.Field())
}
