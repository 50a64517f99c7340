package swar

import "testing"

func TestAsciiRunLength(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want int
	}{
		{"empty", nil, 0},
		{"all ascii short", []byte("abc"), 3},
		{"all ascii long", []byte("abcdefghijklmnop"), 16},
		{"leads with continuation byte", []byte{0x80, 'a'}, 0},
		{"ascii then multibyte lead", append([]byte("abcdefgh"), 0xC3, 0xA9), 8},
		{"multibyte inside first chunk", []byte{'a', 'b', 0xE2, 0x82, 0xAC, 'c'}, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// Given
			data := c.data

			// When
			got := AsciiRunLength(data)

			// Then
			if got != c.want {
				t.Fatalf("AsciiRunLength(%v) = %d, want %d", data, got, c.want)
			}
		})
	}
}
