package tool

import "fmt"

// FormatFenAsYuan renders an amount in fen (minor units) as the two-decimal
// yuan string the gateway uses, e.g. 1000 -> "10.00". Comparison against a
// callback's settled amount must be string-exact, never float tolerance.
func FormatFenAsYuan(fen int64) string {
	sign := ""
	if fen < 0 {
		sign = "-"
		fen = -fen
	}
	return fmt.Sprintf("%s%d.%02d", sign, fen/100, fen%100)
}
