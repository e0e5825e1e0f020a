package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// cpfPattern accepts the formatted form 000.000.000-00 or eleven bare digits.
var cpfPattern = regexp.MustCompile(`^(\d{3}\.\d{3}\.\d{3}-\d{2}|\d{11})$`)

// IsCPF reports whether s looks like a CPF number.
func IsCPF(s string) bool {
	return cpfPattern.MatchString(s)
}

func validateCPF(fl validator.FieldLevel) bool {
	return IsCPF(fl.Field().String())
}

// Register installs custom validations on gin's binding engine. Call once at
// startup, before routes are served.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("cpf", validateCPF)
}
