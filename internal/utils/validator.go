package utils

import (
	"html"
	"reflect"
	"sync"
	"unicode"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

// Validator bundles struct validation, input sanitising and the optional email reachability check.
type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
	policy      *bluemonday.Policy
}

var (
	instance      *Validator
	once          sync.Once
	configuration *truemail.Configuration
)

// GetValidator returns the process-wide validator, creating it on first use.
func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "team@mail.social-book.app",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
			policy:      bluemonday.StrictPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

func validateEmail(email string) bool {
	if configuration == nil {
		return true
	}
	return truemail.IsValid(email, configuration)
}

// SanitizeData strips all markup from the string fields of the struct obj points to.
// Pointers to strings are sanitised as well, fields tagged `sanitize:"-"` are left untouched.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return nil
	}

	value = value.Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || value.Type().Field(i).Tag.Get("sanitize") == "-" {
			continue
		}

		switch {
		case field.Kind() == reflect.String:
			field.SetString(v.sanitize(field.String()))
		case field.Kind() == reflect.Ptr && !field.IsNil() && field.Elem().Kind() == reflect.String:
			field.Elem().SetString(v.sanitize(field.Elem().String()))
		}
	}

	return nil
}

// sanitize removes markup but keeps plain-text entities such as "&" readable.
func (v *Validator) sanitize(value string) string {
	return html.UnescapeString(v.policy.Sanitize(value))
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("password_validation", passwordValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("visibility_validation", visibilityValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("cost_validation", costValidation)
	if err != nil {
		return
	}
}

func passwordValidation(fl validator.FieldLevel) bool {
	var upperLetter, lowerLetter, number, specialChar bool

	value := fl.Field().String()
	for _, r := range value {
		if r > unicode.MaxASCII {
			return false
		}

		switch {
		case unicode.IsUpper(r):
			upperLetter = true
		case unicode.IsLower(r):
			lowerLetter = true
		case unicode.IsNumber(r):
			number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			specialChar = true
		}
	}

	return upperLetter && lowerLetter && number && specialChar
}

func visibilityValidation(fl validator.FieldLevel) bool {
	return schemas.Visibility(fl.Field().String()).Valid()
}

func costValidation(fl validator.FieldLevel) bool {
	_, err := ParseCost(fl.Field().String())
	return err == nil
}
