package channel

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/forgelabs/anvil/core"
)

var (
	typeTag  = "channeltype"
	typeText = "must be one of: chat, forum, announcement"

	statusTag  = "channelstatus"
	statusText = "must be one of: active, archived"
)

// InitValidators registers this package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
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

func statusValidation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, s := range Statuses {
		if value == s {
			return true
		}
	}
	return false
}
