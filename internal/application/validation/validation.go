// Package validation is the declarative payload check that runs before any
// service: struct tags describe each schema, and a failure reports every
// offending field at once as a shared.DomainError.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Validator wraps a configured validator.Validate. It satisfies gin's
// binding.StructValidator so it can replace gin's default engine.
type Validator struct {
	once     sync.Once
	validate *validator.Validate
}

var std = &Validator{}

// Default returns the process-wide validator.
func Default() *Validator { return std }

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = newEngine()
	})
}

func newEngine() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.SetTagName("binding")
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	// Decimals are checked through their exact string form.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	must(validate.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	}))
	must(validate.RegisterValidation("decimal_gt0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	}))
	must(validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return tenant.NormalizeSlug(fl.Field().String()) != ""
	}))
	must(validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currencyPattern.MatchString(fl.Field().String())
	}))
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidateStruct implements binding.StructValidator. Non-struct values are
// accepted as-is.
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

// Engine implements binding.StructValidator.
func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

// Struct validates obj and returns a VALIDATION_FAILED domain error listing
// every failed field, or nil.
func (v *Validator) Struct(obj any) error {
	if err := v.ValidateStruct(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts binding and validation failures into a domain error.
// Errors it does not recognise are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]shared.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, shared.FieldError{
				Field:   fieldPath(fe),
				Message: message(fe),
				Value:   safeValue(fe.Value()),
			})
		}
		return shared.NewValidationError(details...)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return shared.NewValidationError(shared.FieldError{
			Field:   field,
			Message: fmt.Sprintf("Must be of type %s", jsonType(typeErr.Type)),
			Value:   typeErr.Value,
		})
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return shared.NewValidationError(shared.FieldError{Field: "body", Message: "Request body is not valid JSON"})
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.NewValidationError(shared.FieldError{Field: "body", Message: err.Error()})
}

// fieldPath drops the root struct name: CreateOrderRequest.lines[0].quantity
// becomes lines[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func safeValue(v any) any {
	switch v.(type) {
	case string, bool, int, int64, float64, nil:
		return v
	}
	return fmt.Sprint(v)
}

func jsonType(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	if t == reflect.TypeOf(decimal.Decimal{}) {
		return "number"
	}
	return "object"
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return "This field is required"
	case "required_if":
		return fmt.Sprintf("This field is required when %s", requiredIfCondition(fe.Param()))
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "Must contain at least " + fe.Param() + " item(s)"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "Must contain at most " + fe.Param() + " item(s)"
		}
		return "Must be at most " + fe.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "decimal_gte0":
		return "Must be greater than or equal to 0"
	case "decimal_gt0":
		return "Must be greater than 0"
	case "slug":
		return "Must contain at least one letter or digit"
	case "currency":
		return "Must be a three-letter ISO 4217 code"
	case "datetime":
		return "Must be a date in the format " + fe.Param()
	}
	return "Invalid value"
}

// requiredIfCondition renders "CustomerType BUSINESS" as
// "customer_type is BUSINESS".
func requiredIfCondition(param string) string {
	parts := strings.Fields(param)
	if len(parts) < 2 {
		return param
	}
	return fmt.Sprintf("%s is %s", toSnake(parts[0]), parts[1])
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
