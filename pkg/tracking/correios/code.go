package correios

import (
	"strings"
)

// codeLength is the length of a UPU S10 identifier, e.g. "AA123456789BR".
const codeLength = 13

var s10Weights = [8]int{8, 6, 4, 2, 3, 5, 9, 7}

// NormalizeCode trims and upper-cases a tracking code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code is a well-formed S10 identifier with a
// correct check digit. The service itself accepts any string.
func ValidCode(code string) bool {
	code = NormalizeCode(code)
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < 2; i++ {
		if !isLetter(code[i]) || !isLetter(code[11+i]) {
			return false
		}
	}

	sum := 0
	for i := 0; i < 9; i++ {
		d := code[2+i]
		if d < '0' || d > '9' {
			return false
		}
		if i < 8 {
			sum += int(d-'0') * s10Weights[i]
		}
	}

	return int(code[10]-'0') == checkDigit(sum)
}

func checkDigit(sum int) int {
	switch d := 11 - sum%11; d {
	case 10:
		return 0
	case 11:
		return 5
	default:
		return d
	}
}

func isLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// JoinCodes concatenates codes into the single objetos value accepted by
// buscaEventosLista. Codes are normalized; empty entries are skipped.
func JoinCodes(codes ...string) string {
	var b strings.Builder
	b.Grow(len(codes) * codeLength)
	for _, code := range codes {
		b.WriteString(NormalizeCode(code))
	}
	return b.String()
}
