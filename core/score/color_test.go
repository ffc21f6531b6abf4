package score

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#112233", RGB(0x11, 0x22, 0x33)},
		{"#FFcc00", RGB(0xff, 0xcc, 0x00)},
		{"red", RGB(255, 0, 0)},
		{"Black", RGB(0, 0, 0)},
		{"", Color{}},
		{"#12345", Color{}},
		{"#gghhii", Color{}},
		{"no-such-color", Color{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseColor(tt.in); got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorString(t *testing.T) {
	if got := RGB(0x11, 0x22, 0x33).String(); got != "#112233" {
		t.Errorf("String() = %q, want #112233", got)
	}
	if got := (Color{}).String(); got != "" {
		t.Errorf("zero color String() = %q, want empty", got)
	}
}
