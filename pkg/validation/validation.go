package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"equipment-inventory-api/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := registerRules(v); err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}
	return v
}

func registerRules(v *validator.Validate) error {
	return v.RegisterValidation("maxbytes", maxBytes)
}

// maxBytes limits the encoded length of a string. bcrypt only accepts
// passwords up to 72 bytes, which max (a rune count) does not guarantee.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Struct validates s against its `validate` tags and returns one message
// per failing field. A nil map means s is valid.
func Struct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldPath(fe)] = message(fe)
	}
	return out
}

// fieldPath drops the root type from the namespace: "EquipmentInput.name"
// becomes "name", "Config.Database.Port" becomes "Database.Port".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s cannot exceed %s bytes", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEquipmentInput trims the input in place and validates it for
// create and full update.
func ValidateEquipmentInput(in *model.EquipmentInput) map[string]string {
	in.Type = strings.TrimSpace(in.Type)
	in.Name = strings.TrimSpace(in.Name)
	in.PurchaseDate = strings.TrimSpace(in.PurchaseDate)
	in.Status = strings.TrimSpace(in.Status)
	return Struct(in)
}

// IsKnownStatus reports whether status is one of the advisory statuses.
func IsKnownStatus(status string) bool {
	for _, s := range model.KnownStatuses {
		if strings.EqualFold(s, status) {
			return true
		}
	}
	return false
}

// ValidateRegisterInput normalizes and validates a registration request.
func ValidateRegisterInput(in *model.RegisterInput) map[string]string {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	return Struct(in)
}

// ValidateLoginInput normalizes and validates a login request.
func ValidateLoginInput(in *model.LoginInput) map[string]string {
	in.Email = NormalizeEmail(in.Email)
	return Struct(in)
}

// ValidateUserUpdateInput normalizes and validates a user update.
func ValidateUserUpdateInput(in *model.UserUpdateInput) map[string]string {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	return Struct(in)
}
