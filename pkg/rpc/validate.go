package rpc

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var requestValidator = getValidator()

func getValidator() *validator.Validate {
	validate := validator.New()

	// Amounts are validated through their decimal text.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if a, ok := field.Interface().(Amount); ok {
			return decimal.Decimal(a).String()
		}
		return nil
	}, Amount{})

	if err := validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return d.IsPositive() && d.Exponent() >= -2
	}); err != nil {
		panic(fmt.Sprintf("failed to register amount validation: %v", err))
	}

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		data := sl.Current().Interface().(AccountLedgerData)
		// ISO dates order lexicographically.
		if data.FromDate != "" && data.ToDate != "" && data.ToDate < data.FromDate {
			sl.ReportError(data.ToDate, "ToDate", "ToDate", "gtefield", "FromDate")
		}
	}, AccountLedgerData{})

	return validate
}

// ValidateRequestData checks typed request data against its field rules.
func ValidateRequestData(data RequestData) error {
	if data == nil {
		return fmt.Errorf("%w: nil request data", ErrInvalidRequestData)
	}
	if err := requestValidator.Struct(data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequestData, err)
	}
	return nil
}
