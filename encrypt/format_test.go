package encrypt

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"testing"
)

func sampleR3() *Dictionary {
	return &Dictionary{
		V:               2,
		R:               3,
		Length:          128,
		P:               -44,
		EncryptMetadata: true,
		ID:              []byte{0xab, 0xcd},
		O:               bytes.Repeat([]byte{0xaa}, 32),
		U:               bytes.Repeat([]byte{0xbb}, 32),
	}
}

func sampleR5() *Dictionary {
	return &Dictionary{
		V:               5,
		R:               5,
		Length:          256,
		P:               -1028,
		EncryptMetadata: false,
		ID:              []byte{0x01, 0x02},
		O:               bytes.Repeat([]byte{0x11}, 48),
		U:               bytes.Repeat([]byte{0x22}, 48),
		OE:              bytes.Repeat([]byte{0x33}, 32),
		UE:              bytes.Repeat([]byte{0x44}, 32),
	}
}

// TestFormatHashBaseLayout tests the exact descriptor for R <= 4
func TestFormatHashBaseLayout(t *testing.T) {
	hash, err := sampleR3().FormatHash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "$pdf$2*3*128*-44*1*2*abcd" +
		"*32*" + strings.Repeat("bb", 32) +
		"*32*" + strings.Repeat("aa", 32)
	if hash != want {
		t.Errorf("hash mismatch:\ngot  %s\nwant %s", hash, want)
	}
}

// TestFormatHashExtendedLayout tests the appended OE/UE fields for R 5-6
func TestFormatHashExtendedLayout(t *testing.T) {
	hash, err := sampleR5().FormatHash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "$pdf$5*5*256*-1028*0*2*0102" +
		"*48*" + strings.Repeat("22", 48) +
		"*48*" + strings.Repeat("11", 48) +
		"*32*" + strings.Repeat("33", 32) +
		"*32*" + strings.Repeat("44", 32)
	if hash != want {
		t.Errorf("hash mismatch:\ngot  %s\nwant %s", hash, want)
	}
}

// TestFormatHashEmptyID tests the empty-id rendering
func TestFormatHashEmptyID(t *testing.T) {
	d := sampleR3()
	d.ID = nil
	hash, err := d.FormatHash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(hash, "*1*0**32*") {
		t.Errorf("empty id not rendered as 0-length field: %s", hash)
	}
}

// TestFormatHashRevisionGating tests that formatting rejects revisions
// the descriptor layout is not defined for
func TestFormatHashRevisionGating(t *testing.T) {
	for _, r := range []int64{0, 1, 7, 42} {
		d := sampleR3()
		d.R = r
		if _, err := d.FormatHash(); !errors.Is(err, ErrUnsupportedRevision) {
			t.Errorf("R=%d: expected ErrUnsupportedRevision, got %v", r, err)
		}
	}
}

// TestFormatHashMissingSeeds tests R 5-6 dictionaries without OE/UE
func TestFormatHashMissingSeeds(t *testing.T) {
	d := sampleR5()
	d.OE = nil
	var invalid *InvalidDictionaryError
	if _, err := d.FormatHash(); !errors.As(err, &invalid) {
		t.Errorf("missing OE: expected *InvalidDictionaryError, got %v", err)
	}

	d = sampleR5()
	d.UE = nil
	if _, err := d.FormatHash(); !errors.As(err, &invalid) {
		t.Errorf("missing UE: expected *InvalidDictionaryError, got %v", err)
	}
}

// TestFormatHashDeterministic tests that formatting is a pure function
func TestFormatHashDeterministic(t *testing.T) {
	d := sampleR5()
	first, err := d.FormatHash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := d.FormatHash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("formatting not deterministic:\n%s\n%s", first, second)
	}
}

// TestFormatHashFieldLengths tests the declared-length invariant: every
// *_len field equals the byte length of the hex field that follows it
func TestFormatHashFieldLengths(t *testing.T) {
	for name, d := range map[string]*Dictionary{"R3": sampleR3(), "R5": sampleR5()} {
		t.Run(name, func(t *testing.T) {
			hash, err := d.FormatHash()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			parts := strings.Split(strings.TrimPrefix(hash, "$pdf$"), "*")
			// Fixed head: V R Length P EncryptMetadata, then
			// alternating length/hex pairs.
			if len(parts) < 5 || (len(parts)-5)%2 != 0 {
				t.Fatalf("unexpected field count %d in %s", len(parts), hash)
			}
			for i := 5; i < len(parts); i += 2 {
				declared, err := strconv.Atoi(parts[i])
				if err != nil {
					t.Fatalf("field %d is not a length: %q", i, parts[i])
				}
				decoded, err := hex.DecodeString(parts[i+1])
				if err != nil {
					t.Fatalf("field %d is not hex: %q", i+1, parts[i+1])
				}
				if len(decoded) != declared {
					t.Errorf("field %d: declared %d bytes, hex decodes to %d",
						i, declared, len(decoded))
				}
				if parts[i+1] != strings.ToLower(parts[i+1]) {
					t.Errorf("field %d: hex not lowercase: %q", i+1, parts[i+1])
				}
			}
		})
	}
}
