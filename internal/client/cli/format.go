package cli

import "strconv"

// FormatCurrency renders a minor-unit amount the way the portal displays
// prices: rupiah with dot-grouped thousands and no fraction digits.
func FormatCurrency(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	s := "Rp " + string(grouped)
	if negative {
		s = "-" + s
	}
	return s
}
