package core

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Food", "food", true},
		{"Bills & Utilities", "bills_utilities", true},
		{"  Part-Time Job ", "part_time_job", true},
		{"HOUSING/RENT", "housing_rent", true},
		{"café", "caf", true}, // non-ascii dropped
		{"a--b__c", "a_b_c", true},
		{"2nd Job", "2nd_job", true},
		{"", "", false},
		{"---", "", false},
		{"   ", "", false},
	}
	for _, tc := range cases {
		got, err := Slugify(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("Slugify(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidSlug) {
			t.Errorf("Slugify(%q) error = %v, want ErrInvalidSlug", tc.in, err)
		}
	}
}
