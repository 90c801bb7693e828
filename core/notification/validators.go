package notification

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/forgelabs/anvil/core"
)

var (
	typeTag  = "notiftype"
	typeText = "must be one of: announcement, problem, resource, system"
)

// InitValidators registers this package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)
}

func typeValidation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, t := range Types {
		if value == t {
			return true
		}
	}
	return false
}
