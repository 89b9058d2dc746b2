package subscription

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InvalidEmailMessage is shown when either address is not a Gmail address.
const InvalidEmailMessage = "Vui lòng nhập đúng địa chỉ Gmail (định dạng @gmail.com)."

const gmailTag = "gmail"

var gmailRegex = regexp.MustCompile(`(?i)^[a-zA-Z0-9._%+-]+@gmail\.com$`)

// ValidationError is a user-correctable input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

type subscribeRequest struct {
	ParentEmail string `json:"parentEmail" validate:"required,gmail"`
	ChildEmail  string `json:"childEmail" validate:"required,gmail"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(gmailTag, func(fl validator.FieldLevel) bool {
		return gmailRegex.MatchString(fl.Field().String())
	})
	return v
}

// IsGmail reports whether addr is accepted as a subscription address.
func IsGmail(addr string) bool {
	return gmailRegex.MatchString(addr)
}

func validateRequest(v *validator.Validate, req subscribeRequest) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return ValidationError{Field: fieldErrs[0].Field(), Message: InvalidEmailMessage}
	}
	return err
}
