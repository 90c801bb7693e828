package problem

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/forgelabs/anvil/core"
)

var (
	difficultyTag  = "difficulty"
	difficultyText = "must be one of: easy, medium, hard, expert"

	statusTag  = "problemstatus"
	statusText = "must be one of: draft, published, archived"
)

// InitValidators registers this package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(difficultyTag, difficultyValidation)
	core.RegisterCustomTranslation(validate, translator, difficultyTag, difficultyText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func difficultyValidation(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, d := range Difficulties {
		if value == d {
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
