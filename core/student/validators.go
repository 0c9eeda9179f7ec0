package student

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kazi/core"
)

var (
	canvasDomainTag  = "canvasdomain"
	canvasDomainText = "must be a bare host name like school.instructure.com (no scheme or path)"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(canvasDomainTag, canvasDomainValidation)
	core.RegisterCustomTranslation(validate, translator, canvasDomainTag, canvasDomainText)
}

// canvasDomainValidation rejects values that carry a scheme, a path or whitespace.
func canvasDomainValidation(fl validator.FieldLevel) bool {
	domain := fl.Field().String()
	if domain == "" {
		return true // left to `required`
	}
	return !strings.Contains(domain, "://") && !strings.ContainsAny(domain, "/ \t")
}
