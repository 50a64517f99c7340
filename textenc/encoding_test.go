package textenc

import "testing"

func TestLookupAcceptsUTF8AndUTF16(t *testing.T) {
	cases := []struct {
		name           string
		wantCanonical  string
		wantSingleByte bool
	}{
		{"utf-8", "utf-8", false},
		{"UTF-8", "utf-8", false},
		{"utf-16le", "utf-16le", false},
		{"utf-16be", "utf-16be", false},
		{"utf-16", "utf-16le", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			enc, err := Lookup(c.name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", c.name, err)
			}
			if enc.Name() != c.wantCanonical {
				t.Fatalf("Lookup(%q).Name() = %q, want %q", c.name, enc.Name(), c.wantCanonical)
			}
			if enc.IsSingleByte() != c.wantSingleByte {
				t.Fatalf("Lookup(%q).IsSingleByte() = %v, want %v", c.name, enc.IsSingleByte(), c.wantSingleByte)
			}
		})
	}
}

func TestLookupAcceptsSingleByteEncodings(t *testing.T) {
	names := []string{"windows-1252", "iso-8859-1"}
	for _, name := range names {
		enc, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if !enc.IsSingleByte() {
			t.Fatalf("Lookup(%q).IsSingleByte() = false, want true", name)
		}
	}
}

func TestLookupRejectsMultiByteCodePage(t *testing.T) {
	// Shift-JIS is multi-byte and not UTF-8/UTF-16: must be rejected by the
	// supported-encoding gate.
	if _, err := Lookup("shift-jis"); err == nil {
		t.Fatalf("Lookup(\"shift-jis\") did not error")
	}
}

func TestLookupRejectsUnknownName(t *testing.T) {
	if _, err := Lookup("not-a-real-encoding"); err == nil {
		t.Fatalf("Lookup(\"not-a-real-encoding\") did not error")
	}
}

// TestSingleByteEncodingIsOneCodeUnitPerByte is testable property #6: every
// byte value 0x00-0xFF for a supported single-byte encoding must decode to
// exactly one 16-bit code unit.
func TestSingleByteEncodingIsOneCodeUnitPerByte(t *testing.T) {
	for _, name := range []string{"windows-1252", "iso-8859-1"} {
		enc, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		for b := 0; b <= 0xFF; b++ {
			dec := enc.NewDecoder()
			src := []byte{byte(b)}
			dst := make([]uint16, enc.MaxCharCount(len(src)))
			bytesUsed, charsProduced, err := dec.Decode(src, dst)
			if err != nil {
				t.Fatalf("%s: Decode(0x%02X): %v", name, b, err)
			}
			if bytesUsed != 1 || charsProduced != 1 {
				t.Fatalf("%s: Decode(0x%02X) = (%d, %d), want (1, 1)", name, b, bytesUsed, charsProduced)
			}
		}
	}
}

func TestUTF8DecodeSupplementaryScalarYieldsTwoCodeUnits(t *testing.T) {
	enc := UTF8()
	dec := enc.NewDecoder()
	// U+1F600 GRINNING FACE, 4 UTF-8 bytes, 2 UTF-16 code units.
	src := []byte{0xF0, 0x9F, 0x98, 0x80}
	dst := make([]uint16, enc.MaxCharCount(len(src)))
	bytesUsed, charsProduced, err := dec.Decode(src, dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bytesUsed != 4 || charsProduced != 2 {
		t.Fatalf("Decode(😀) = (%d, %d), want (4, 2)", bytesUsed, charsProduced)
	}
	if dst[0] != 0xD83D || dst[1] != 0xDE00 {
		t.Fatalf("Decode(😀) code units = %04X %04X, want D83D DE00", dst[0], dst[1])
	}
}

func TestUTF8DecodeStraddlingScalarConsumesOnlyCompleteBytes(t *testing.T) {
	enc := UTF8()
	dec := enc.NewDecoder()
	// "é" = 0xC3 0xA9; feed only the lead byte.
	src := []byte{0xC3}
	dst := make([]uint16, enc.MaxCharCount(len(src)))
	bytesUsed, charsProduced, err := dec.Decode(src, dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bytesUsed != 0 || charsProduced != 0 {
		t.Fatalf("Decode(lead byte only) = (%d, %d), want (0, 0)", bytesUsed, charsProduced)
	}
}

func TestUTF16BEDecode(t *testing.T) {
	enc := UTF16BE()
	dec := enc.NewDecoder()
	src := []byte{0x00, 0x41, 0x00, 0x5A} // "AZ"
	dst := make([]uint16, enc.MaxCharCount(len(src)))
	bytesUsed, charsProduced, err := dec.Decode(src, dst)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bytesUsed != 4 || charsProduced != 2 {
		t.Fatalf("Decode(AZ) = (%d, %d), want (4, 2)", bytesUsed, charsProduced)
	}
	if dst[0] != 'A' || dst[1] != 'Z' {
		t.Fatalf("Decode(AZ) code units = %v, want [A Z]", dst[:2])
	}
}

func TestPreambleBytes(t *testing.T) {
	if got := UTF8().Preamble(); len(got) != 3 || got[0] != 0xEF {
		t.Fatalf("UTF8().Preamble() = % X, want EF BB BF", got)
	}
	if got := UTF16LE().Preamble(); len(got) != 2 || got[0] != 0xFF {
		t.Fatalf("UTF16LE().Preamble() = % X, want FF FE", got)
	}
	if got := UTF16BE().Preamble(); len(got) != 2 || got[0] != 0xFE {
		t.Fatalf("UTF16BE().Preamble() = % X, want FE FF", got)
	}
	enc, _ := Lookup("windows-1252")
	if got := enc.Preamble(); got != nil {
		t.Fatalf("windows-1252 Preamble() = % X, want nil", got)
	}
}
