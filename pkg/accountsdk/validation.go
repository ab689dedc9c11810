package accountsdk

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var reAccountID = regexp.MustCompile(`^[A-Za-z0-9_.@-]+$`)

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Length(1, 64), validation.Match(reAccountID)),
		validation.Field(&r.Name, validation.Length(0, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

func (r ProvisionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Provider, validation.Required),
		validation.Field(&r.Subject, validation.Required, validation.Match(reAccountID)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Login, validation.By(func(v any) error {
			if r.Email == "" && v.(string) == "" {
				return errors.New("required when email is not provided")
			}
			return nil
		})),
	)
}

// ValidationDetails flattens an ozzo validation error into field messages.
// Errors that are not per-field are reported under "request".
func ValidationDetails(err error) map[string]string {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return map[string]string{"request": err.Error()}
	}
	out := make(map[string]string, len(fields))
	for name, ferr := range fields {
		out[name] = ferr.Error()
	}
	return out
}
