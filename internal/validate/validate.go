// Package validate checks request payloads before they are sent to the backend.
package validate

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"golang.org/x/text/language"

	"github.com/felixgeelhaar/markup/internal/errors"
	"github.com/felixgeelhaar/markup/internal/tier"
)

var (
	v          *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	languageTag = "language"
	tierTag     = "tier"
)

func init() {
	v = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, notBlank)
	_ = v.RegisterValidation(languageTag, languageTagValid)
	_ = v.RegisterValidation(tierTag, tierValid)

	registerCustomTranslation(notBlankTag, "{0} cannot be blank")
	registerCustomTranslation(languageTag, "{0} must be a language tag such as en-GB")
	registerCustomTranslation(tierTag, "{0} must be one of free, study_plus, pro")
}

func registerCustomTranslation(tag, text string) {
	_ = v.RegisterTranslation(tag, translator,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

func notBlank(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

func languageTagValid(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := language.Parse(s)
	return err == nil
}

func tierValid(fl validator.FieldLevel) bool {
	switch t := fl.Field().Interface().(type) {
	case tier.Tier:
		return t.Valid()
	case string:
		return tier.Tier(t).Valid()
	}
	return false
}

// Struct validates s and returns a ValidationError describing every failing field.
// Messages use JSON field names and are joined in field order.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeValidationInvalid, "invalid request", err)
	}

	msgs := make([]string, 0, len(verrs))
	code := errors.ErrCodeValidationInvalid
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
		if fe.Tag() == "required" || fe.Tag() == notBlankTag {
			code = errors.ErrCodeValidationRequired
		}
	}
	return errors.New(code, strings.Join(msgs, "; "))
}

// Language canonicalizes a BCP 47 tag, for example "en-gb" becomes "en-GB".
func Language(s string) (string, error) {
	t, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeValidationInvalid,
			fmt.Sprintf("invalid language tag %q", s), err)
	}
	return t.String(), nil
}
