// Package validators holds the custom go-playground validators used by the
// request DTOs.
package validators

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Register wires every custom validator into the given instance. main and
// the tests share this. Validation errors report fields by their json name
// so the caller sees the keys it actually sent.
func Register(validate *validator.Validate) {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("hasupper", HasUpper)
	_ = validate.RegisterValidation("haslower", HasLower)
	_ = validate.RegisterValidation("hasdigit", HasDigit)
	_ = validate.RegisterValidation("hasspecial", HasSpecial)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
	_ = validate.RegisterValidation("dateonly", IsDateOnly)
	_ = validate.RegisterValidation("hhmm", IsClockTime)
	_ = validate.RegisterValidation("weekdays", AreWeekdays)
}

func HasUpper(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), unicode.IsUpper)
}

func HasLower(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), unicode.IsLower)
}

func HasDigit(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), unicode.IsDigit)
}

func HasSpecial(fl validator.FieldLevel) bool {
	return containsFunc(fl.Field().String(), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !containsFunc(fl.Field().String(), unicode.IsSpace)
}

// IsDateOnly accepts naive YYYY-MM-DD calendar dates.
func IsDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// IsClockTime accepts zero-padded HH:MM times of day.
func IsClockTime(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

// AreWeekdays accepts a slice of distinct weekday numbers, Monday=0 through
// Sunday=6.
func AreWeekdays(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	seen := make(map[int64]bool, field.Len())
	for i := 0; i < field.Len(); i++ {
		day := field.Index(i).Int()
		if day < 0 || day > 6 || seen[day] {
			return false
		}
		seen[day] = true
	}
	return true
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}
