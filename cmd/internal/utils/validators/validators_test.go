package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func newValidate() *validator.Validate {
	validate := validator.New()
	Register(validate)
	return validate
}

func TestDateOnly(t *testing.T) {
	validate := newValidate()

	type payload struct {
		Date string `validate:"dateonly"`
	}

	tests := []struct {
		date string
		ok   bool
	}{
		{"2024-06-05", true},
		{"2024-12-31", true},
		{"2024-13-01", false},
		{"2024-06-32", false},
		{"05-06-2024", false},
		{"2024-06-05T10:00:00Z", false},
		{"", false},
	}
	for _, tc := range tests {
		err := validate.Struct(payload{Date: tc.date})
		if (err == nil) != tc.ok {
			t.Errorf("dateonly(%q): got err=%v, want ok=%v", tc.date, err, tc.ok)
		}
	}
}

func TestClockTime(t *testing.T) {
	validate := newValidate()

	type payload struct {
		Time string `validate:"hhmm"`
	}

	tests := []struct {
		time string
		ok   bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"09:60", false},
		{"09:30:00", false},
		{"", false},
	}
	for _, tc := range tests {
		err := validate.Struct(payload{Time: tc.time})
		if (err == nil) != tc.ok {
			t.Errorf("hhmm(%q): got err=%v, want ok=%v", tc.time, err, tc.ok)
		}
	}
}

func TestWeekdays(t *testing.T) {
	validate := newValidate()

	type payload struct {
		Days []int `validate:"weekdays"`
	}

	tests := []struct {
		name string
		days []int
		ok   bool
	}{
		{"empty", nil, true},
		{"single", []int{2}, true},
		{"full week", []int{0, 1, 2, 3, 4, 5, 6}, true},
		{"negative", []int{-1}, false},
		{"too large", []int{7}, false},
		{"duplicate", []int{2, 2}, false},
	}
	for _, tc := range tests {
		err := validate.Struct(payload{Days: tc.days})
		if (err == nil) != tc.ok {
			t.Errorf("weekdays(%s): got err=%v, want ok=%v", tc.name, err, tc.ok)
		}
	}
}

func TestPasswordRules(t *testing.T) {
	validate := newValidate()

	type payload struct {
		Password string `validate:"hasupper,haslower,hasdigit,hasspecial,nospaces"`
	}

	tests := []struct {
		password string
		ok       bool
	}{
		{"Sup3r-secret", true},
		{"sup3r-secret", false}, // no upper
		{"SUP3R-SECRET", false}, // no lower
		{"Super-secret", false}, // no digit
		{"Sup3rsecret", false},  // no special
		{"Sup3r secret!", false},
	}
	for _, tc := range tests {
		err := validate.Struct(payload{Password: tc.password})
		if (err == nil) != tc.ok {
			t.Errorf("password(%q): got err=%v, want ok=%v", tc.password, err, tc.ok)
		}
	}
}
