package billinghint

import "strconv"

// parseAmount parses the decimal-string cost figures several billing APIs
// return instead of a native float (AWS Cost Explorer among them).
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
