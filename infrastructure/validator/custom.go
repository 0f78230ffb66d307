package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ISO 4217 alphabetic codes are exactly three letters. Case is accepted here
// and normalized to uppercase before the processor is called.
var currencyCodeRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRegex.MatchString(fl.Field().String())
}
