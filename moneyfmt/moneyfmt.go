// Package moneyfmt จัดรูปแบบจำนวนเงินแบบคั่นหลักพันด้วย space เช่น 300000 → "300 000"
package moneyfmt

import (
	"strconv"
	"strings"
)

// Format คั่นหลักพันด้วย space ทศนิยมแสดงไม่เกิน 2 ตำแหน่ง (ตัด 0 ท้ายทิ้ง)
func Format(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	fracPart = strings.TrimRight(fracPart, "0")

	var b strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatUZS ต่อท้ายสกุลเงิน เช่น "300 000 UZS"
func FormatUZS(amount float64) string {
	return Format(amount) + " UZS"
}

// FormatCurrency แบบเลือกสกุลเงินเอง
func FormatCurrency(amount float64, currency string) string {
	return Format(amount) + " " + currency
}
