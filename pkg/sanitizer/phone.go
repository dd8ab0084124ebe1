package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone formats phone as E.164, reading national numbers in region.
// Numbers that do not parse to a valid number are returned trimmed.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
