package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currency symbols and unit suffixes seen in Korean statement extractions.
var currencyTrim = strings.NewReplacer(
	",", "",
	"₩", "",
	"원", "",
	" ", "",
	" ", "",
)

var krwPattern = regexp.MustCompile(`(?i)krw`)

// ParseCurrency converts a raw amount cell into an exact decimal. Thousands
// separators and currency symbols are stripped, the KRW code in any casing;
// "(1,000)" is read as a negative amount, an accounting convention some
// exports use.
func ParseCurrency(cell string) (decimal.Decimal, error) {
	s := currencyTrim.Replace(krwPattern.ReplaceAllString(strings.TrimSpace(cell), ""))
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	if s == "" || s == "-" {
		return decimal.Zero, fmt.Errorf("parse currency %q: empty after trimming", cell)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse currency %q: %w", cell, err)
	}
	return d, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"20060102",
	"2006년01월02일",
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)

// parseDate parses a date cell, splitting off a trailing clock component
// ("2026.03.02 14:21") when present.
func parseDate(cell string) (time.Time, string, error) {
	s := strings.TrimSpace(cell)
	clock := ""
	if i := strings.IndexAny(s, " \t"); i > 0 {
		rest := strings.TrimSpace(s[i+1:])
		if clockPattern.MatchString(rest) {
			clock = rest
			s = s[:i]
		}
	}
	for _, layout := range dateLayouts {
		if day, err := time.Parse(layout, s); err == nil {
			return day, clock, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("parse date %q: unrecognized format", cell)
}
