package resource

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/forgelabs/anvil/core"
)

var (
	typeTag  = "resourcetype"
	typeText = "must be one of: article, video, course, book, tool"
)

// InitValidators registers this package's custom validators and translations.
// The "difficulty" tag is shared with the problem package and registered there.
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
