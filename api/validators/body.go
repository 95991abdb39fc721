package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody decodes and validates a JSON request body. Unknown keys are
// ignored. Validation failures collect every broken field into a
// field -> messages map; a type mismatch on a known field is reported under
// that field's name rather than as a blanket body error.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return decodeError(err)
	}
	return ValidateStruct(dest)
}

func decodeError(err error) *pkgerrors.Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		leaf := typeErr.Field
		if idx := strings.LastIndex(leaf, "."); idx >= 0 {
			leaf = leaf[idx+1:]
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string][]string{typeErr.Field: {fmt.Sprintf("The %s is invalid.", leaf)}})
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
		WithDetails(map[string][]string{"body": {"The request body must be valid JSON."}})
}

// ValidateStruct runs the shared validator over an already-decoded value.
func ValidateStruct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string][]string{}
		for _, fieldErr := range errs {
			field := fieldPath(fieldErr)
			details[field] = append(details[field], validationMessage(fieldErr))
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

// fieldPath strips the root struct name so nested slice entries render as
// "options.0.values.1.name" instead of "CreateProductRequest.options...".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	ns = strings.ReplaceAll(ns, "]", "")
	return ns
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "dive":
		return fmt.Sprintf("The %s is invalid.", field)
	}
	return fmt.Sprintf("The %s is invalid.", field)
}
