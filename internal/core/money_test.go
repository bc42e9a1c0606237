package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0.01", 1, false},
		{"12.345", 1234, false}, // rounds down
		{"12.346", 1235, false}, // rounds up
		{".50", 50, false},
		{"", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"12a", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDecimalToCents(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1"},
		{-50, "-0.5"},
		{0, "0"},
	}
	for _, tc := range cases {
		got, err := Money{Cents: tc.cents}.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %d: %v", tc.cents, err)
		}
		if string(got) != tc.want {
			t.Fatalf("marshal %d = %s, want %s", tc.cents, got, tc.want)
		}
	}
}
