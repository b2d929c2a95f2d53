package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("maxbytes", maxBytes)
}

// maxBytes bounds the encoded length of a string, unlike max which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

var stringMessages = map[string]string{
	"min": "The %s field must be at least %s characters.",
	"max": "The %s field must not be greater than %s characters.",
}

var messages = map[string]string{
	"required": "The %s field is required.",
	"email":    "The %s field must be a valid email address.",
	"min":      "The %s field must be at least %s.",
	"max":      "The %s field must not be greater than %s.",
	"gte":      "The %s field must be at least %s.",
	"lte":      "The %s field must not be greater than %s.",
	"oneof":    "The selected %s is invalid.",
	"eqfield":  "The %s field confirmation does not match.",
	"maxbytes": "The %s field must not be greater than %s bytes.",
}

func parseMessage(field string, e validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")

	msg, ok := messages[e.Tag()]
	if e.Kind() == reflect.String {
		if m, ok2 := stringMessages[e.Tag()]; ok2 {
			msg, ok = m, true
		}
	}
	if !ok {
		return fmt.Sprintf("The %s field is invalid.", label)
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, label, e.Param())
	}
	return fmt.Sprintf(msg, label)
}

// Struct validates s and returns field -> messages, or nil when s is valid.
func Struct(s any) map[string][]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"body": {err.Error()}}
	}

	out := make(map[string][]string, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		out[field] = append(out[field], parseMessage(field, e))
	}
	return out
}

// Merge adds the messages of src into dst, allocating dst when needed.
func Merge(dst, src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string][]string, len(src))
	}
	for k, v := range src {
		dst[k] = append(dst[k], v...)
	}
	return dst
}
