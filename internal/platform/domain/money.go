package domain

import "fmt"

// FormatCents renders an amount in minor units, e.g. 14999 USD as "USD 149.99".
func FormatCents(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, cents/100, cents%100)
}
