package encrypt

import (
	"fmt"
	"strings"
)

// FormatHash renders the descriptor line consumed by the password-recovery
// tool. The layout is a fixed external contract and must match
// byte-for-byte: lowercase hex, each variable-length field preceded by its
// decimal byte length, and for revisions 5 and 6 the /OE and /UE fields
// appended.
//
// The function is pure: the same Dictionary always yields the same string.
func (d *Dictionary) FormatHash() (string, error) {
	if d.R < 2 || d.R > 6 {
		return "", fmt.Errorf("%w: R=%d", ErrUnsupportedRevision, d.R)
	}

	metadataFlag := 0
	if d.EncryptMetadata {
		metadataFlag = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "$pdf$%d*%d*%d*%d*%d", d.V, d.R, d.Length, d.P, metadataFlag)
	fmt.Fprintf(&b, "*%d*%x", len(d.ID), d.ID)
	fmt.Fprintf(&b, "*%d*%x", len(d.U), d.U)
	fmt.Fprintf(&b, "*%d*%x", len(d.O), d.O)

	if d.R >= 5 {
		if d.OE == nil {
			return "", &InvalidDictionaryError{Field: "OE", Reason: "is missing"}
		}
		if d.UE == nil {
			return "", &InvalidDictionaryError{Field: "UE", Reason: "is missing"}
		}
		fmt.Fprintf(&b, "*%d*%x", len(d.OE), d.OE)
		fmt.Fprintf(&b, "*%d*%x", len(d.UE), d.UE)
	}

	return b.String(), nil
}
