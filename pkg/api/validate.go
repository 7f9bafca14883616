package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("unique_ids", uniqueMemberIDs); err != nil {
		panic(err)
	}
	return v
}

// uniqueMemberIDs rejects member lists that give the same id twice.
// Members without an id are assigned one by the store.
func uniqueMemberIDs(fl validator.FieldLevel) bool {
	members, ok := fl.Field().Interface().([]*NewMember)
	if !ok {
		return false
	}
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m == nil || m.Id == "" {
			continue
		}
		if _, dup := seen[m.Id]; dup {
			return false
		}
		seen[m.Id] = struct{}{}
	}
	return true
}

// Validate checks msg against its `validate` struct tags and returns a
// single error listing every violated field.
func Validate(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, len(verrs))
	for i, fe := range verrs {
		problems[i] = describe(fe)
	}
	return errors.New(strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "unique_ids":
		return fmt.Sprintf("%s must not repeat a member id", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
