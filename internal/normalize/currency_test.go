package normalize

import (
	"testing"
	"time"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "1,000,000", want: "1000000"},
		{input: "1000000", want: "1000000"},
		{input: "₩35,000", want: "35000"},
		{input: "35,000원", want: "35000"},
		{input: "12,345 KRW", want: "12345"},
		{input: "12,345 krw", want: "12345"},
		{input: "9,900 Krw", want: "9900"},
		{input: "(1,000)", want: "-1000"},
		{input: "-500", want: "-500"},
		{input: "0", want: "0"},
		{input: " 2,500 ", want: "2500"},
		{input: "1234.56", want: "1234.56"},
		{input: "", wantErr: true},
		{input: "원", wantErr: true},
		{input: "-", wantErr: true},
		{input: "천원", wantErr: true},
		{input: "1,00a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCurrency(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseCurrency(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input     string
		wantDate  time.Time
		wantClock string
		wantErr   bool
	}{
		{input: "2026-03-02", wantDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{input: "2026.03.02", wantDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{input: "2026/03/02", wantDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{input: "20260302", wantDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{input: "2026년03월02일", wantDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{
			input:     "2026.03.02 14:21",
			wantDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			wantClock: "14:21",
		},
		{
			input:     "2026-03-02 09:05:33",
			wantDate:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			wantClock: "09:05:33",
		},
		{input: "03-02", wantErr: true},
		{input: "이월", wantErr: true},
		{input: "2026.03.02 오후", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			day, clock, err := parseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !day.Equal(tt.wantDate) {
				t.Errorf("parseDate(%q) date = %v, want %v", tt.input, day, tt.wantDate)
			}
			if clock != tt.wantClock {
				t.Errorf("parseDate(%q) clock = %q, want %q", tt.input, clock, tt.wantClock)
			}
		})
	}
}
