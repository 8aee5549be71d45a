package presenter

import (
	"math"
	"math/big"
	"strconv"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
)

// Percentage formats probability p for display. The synchronous variant
// shows round(p*100) as an integer; the direct variant shows p*100 with
// two decimals. The returned width is the displayed number.
func Percentage(variant domain.Variant, p float64) (string, float64) {
	x := p * 100
	if variant == domain.VariantSynchronous {
		r := roundHalfUp(x)
		return strconv.FormatFloat(r, 'f', -1, 64), r
	}
	text := toFixed2(x)
	width, err := strconv.ParseFloat(text, 64)
	if err != nil {
		width = x
	}
	return text, width
}

// roundHalfUp rounds to the nearest integer with ties toward +Inf.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if r == 0 {
		return 0
	}
	return r
}

// toFixed2 formats x with two decimals using the exact binary value of x;
// when two candidates are equally close the larger magnitude wins.
func toFixed2(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}

	sign := ""
	if math.Signbit(x) {
		sign = "-"
		x = -x
	}

	scaled := new(big.Rat).SetFloat64(x)
	scaled.Mul(scaled, big.NewRat(100, 1))
	scaled.Add(scaled, big.NewRat(1, 2))
	n := new(big.Int).Div(scaled.Num(), scaled.Denom())

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}
