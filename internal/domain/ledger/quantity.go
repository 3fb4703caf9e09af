package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PiecesPerBox converts box-denominated stock into pieces
const PiecesPerBox = 16

const unitPieces = "pcs"

var (
	boxPattern    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*box(?:es)?(?:\s+(\d+(?:\.\d+)?)\s*pcs)?$`)
	simplePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z][A-Za-z.]*)?$`)
)

// ParseQuantity reads ledger quantities such as "12 pcs", "2 box 3 pcs",
// "(-)5 pcs" or "-5". Box quantities are returned in pieces.
// Anything else reads as zero with an empty unit.
func ParseQuantity(s string) (decimal.Decimal, string) {
	body, negative := stripSign(normalizeNumber(s))
	if body == "" {
		return decimal.Zero, ""
	}

	if m := boxPattern.FindStringSubmatch(strings.ToLower(body)); m != nil {
		boxes, _ := decimal.NewFromString(m[1])
		qty := boxes.Mul(decimal.NewFromInt(PiecesPerBox))
		if m[2] != "" {
			pcs, _ := decimal.NewFromString(m[2])
			qty = qty.Add(pcs)
		}
		return applySign(qty, negative), unitPieces
	}

	if m := simplePattern.FindStringSubmatch(body); m != nil {
		qty, err := decimal.NewFromString(m[1])
		if err != nil {
			return decimal.Zero, ""
		}
		return applySign(qty, negative), m[2]
	}

	return decimal.Zero, ""
}

// ParseAmount reads money and rate values such as "1,250.00", "(-)40" or
// "95.50/pcs". Anything unparseable reads as zero.
func ParseAmount(s string) decimal.Decimal {
	body := normalizeNumber(s)
	if i := strings.IndexByte(body, '/'); i >= 0 {
		body = strings.TrimSpace(body[:i])
	}
	body, negative := stripSign(body)
	if body == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(body)
	if err != nil {
		return decimal.Zero
	}
	return applySign(v, negative)
}

func normalizeNumber(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

func stripSign(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, "(-)"):
		return strings.TrimSpace(s[3:]), true
	case strings.HasPrefix(s, "-"):
		return strings.TrimSpace(s[1:]), true
	}
	return s, false
}

func applySign(d decimal.Decimal, negative bool) decimal.Decimal {
	if negative {
		return d.Neg()
	}
	return d
}
