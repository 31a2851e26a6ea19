package core

import "strings"

// Slugify normalizes a category name into its canonical slug: lowercase,
// with every run of non-alphanumeric characters collapsed to a single
// underscore. Returns ErrInvalidSlug when nothing usable remains.
//
// Examples:
//   Slugify("Bills & Utilities") -> "bills_utilities"
//   Slugify("  Food ")           -> "food"
func Slugify(name string) (string, error) {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "", ErrInvalidSlug
	}
	return b.String(), nil
}
