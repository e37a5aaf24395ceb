package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/labworks/tracker/internal/model"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag   = "notblank"
	roleTag       = "role"
	goalStatusTag = "goal_status"
	visibilityTag = "visibility"
	passwordTag   = "password"
	tickedTag     = "ticked"
)

// customMessages are the English messages for the custom tags.
var customMessages = map[string]string{
	notBlankTag:   "this field cannot be blank",
	roleTag:       "role must be student or mentor",
	goalStatusTag: "unknown goal status",
	visibilityTag: "visibility must be public or private",
	tickedTag:     "please confirm the responsibility checkbox",
	"eqfield":     "passwords do not match",
}

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(roleTag, stringIn(model.ValidRole))
	_ = validate.RegisterValidation(goalStatusTag, stringIn(model.ValidGoalStatus))
	_ = validate.RegisterValidation(visibilityTag, stringIn(model.ValidVisibility))
	_ = validate.RegisterValidation(passwordTag, acceptablePassword)
	_ = validate.RegisterValidation(tickedTag, ticked)

	registerFn := func(ut.Translator) error { return nil }
	for tag := range customMessages {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

// Errors maps a JSON field name to a human-readable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Struct validates v's `validate` tags and returns Errors, or nil when v is valid.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

// Field returns a single-field Errors value.
func Field(name, message string) Errors {
	return Errors{name: message}
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == passwordTag {
		if s, ok := fe.Value().(string); ok {
			if err := ValidatePassword(s); err != nil {
				return err.Error()
			}
		}
	}
	return fe.Translate(translator)
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	return customMessages[fe.Tag()]
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func ticked(fl validator.FieldLevel) bool {
	b, ok := fl.Field().Interface().(bool)
	return ok && b
}

func acceptablePassword(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && ValidatePassword(s) == nil
}

func stringIn(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && valid(s)
	}
}
