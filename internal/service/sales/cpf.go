package sales

import (
	"regexp"
	"strings"
	"unicode"
)

var cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

// NormalizeCPF keeps only the digits of a CPF.
func NormalizeCPF(cpf string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cpf)
}

// FormatCPF applies the 000.000.000-00 mask progressively as digits are typed.
// Digits beyond the eleventh are dropped.
func FormatCPF(value string) string {
	d := NormalizeCPF(value)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) > 9:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	case len(d) > 6:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	case len(d) > 3:
		return d[:3] + "." + d[3:]
	default:
		return d
	}
}

// ValidCPFFormat reports whether cpf is fully masked as 000.000.000-00.
func ValidCPFFormat(cpf string) bool {
	return cpfPattern.MatchString(cpf)
}
