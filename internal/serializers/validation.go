package serializers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrors agrupa los errores que no pertenecen a un campo concreto
const NonFieldErrors = "non_field_errors"

var registerOnce sync.Once

// UseJSONFieldNames hace que el validador de gin reporte los campos con su nombre JSON
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return fld.Name
			}
			return name
		})
	})
}

// FieldErrors son los mensajes de validación por campo
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) FieldErrors {
	f[field] = append(f[field], message)
	return f
}

func FieldError(field, message string) FieldErrors {
	return FieldErrors{}.Add(field, message)
}

// ValidationErrors traduce un error de binding a mensajes por campo.
// Devuelve false si el error no es de validación (p. ej. JSON mal formado).
func ValidationErrors(err error) (FieldErrors, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := FieldErrors{}
		for _, fe := range verrs {
			fields.Add(fe.Field(), message(fe))
		}
		return fields, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldError(typeErr.Field, fmt.Sprintf("Expected a %s value.", typeErr.Type.Kind())), true
	}

	return nil, false
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	case "datetime":
		return "Date has wrong format. Use YYYY-MM-DD."
	}
	return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
}
