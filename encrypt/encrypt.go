package encrypt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ali-raheem/pdf2john/core"
	"github.com/ali-raheem/pdf2john/scan"
)

// ErrNotEncrypted indicates that the trailer has no /Encrypt entry, so the
// file carries no password to recover.
var ErrNotEncrypted = errors.New("file is not encrypted")

// ErrUnsupportedRevision indicates a security handler revision outside the
// range the descriptor format is defined for (2 through 6).
var ErrUnsupportedRevision = errors.New("unsupported security handler revision")

// InvalidDictionaryError indicates a missing or mis-sized required field in
// the encryption dictionary for its declared revision.
type InvalidDictionaryError struct {
	Field  string
	Reason string
}

func (e *InvalidDictionaryError) Error() string {
	return fmt.Sprintf("invalid encryption dictionary: /%s %s", e.Field, e.Reason)
}

// Dictionary holds the standard security handler fields resolved from a
// PDF's /Encrypt dictionary, plus the document /ID from the trailer.
type Dictionary struct {
	V               int64 // algorithm version
	R               int64 // security handler revision, 2-6
	Length          int64 // key length in bits
	P               int32 // permission flags, typically negative
	EncryptMetadata bool
	ID              []byte // first element of the trailer /ID array, may be empty
	O               []byte // owner password verification, 32 bytes (48 for R 5-6)
	U               []byte // user password verification, 32 bytes (48 for R 5-6)
	OE              []byte // owner key seed, 32 bytes, R 5-6 only
	UE              []byte // user key seed, 32 bytes, R 5-6 only
}

// verifierLength returns the required /O and /U byte length for a revision.
func verifierLength(r int64) int {
	if r >= 5 {
		return 48
	}
	return 32
}

// Resolve follows the /Encrypt entry of the most recently written trailer
// (the candidate latest in the byte stream) and extracts the security
// handler fields and document ID.
func Resolve(data []byte, scanned *scan.Result) (*Dictionary, error) {
	if len(scanned.Trailers) == 0 {
		return nil, fmt.Errorf("%w: no trailer found", scan.ErrMalformedDocument)
	}

	trailer, err := parseTrailer(data, scanned.Trailers[len(scanned.Trailers)-1])
	if err != nil {
		return nil, err
	}

	enc, err := resolveEncrypt(data, scanned, trailer)
	if err != nil {
		return nil, err
	}

	dict := &Dictionary{}

	dict.V, err = requiredInt(enc, "V")
	if err != nil {
		return nil, err
	}
	dict.R, err = requiredInt(enc, "R")
	if err != nil {
		return nil, err
	}
	if dict.R < 2 || dict.R > 6 {
		return nil, fmt.Errorf("%w: R=%d", ErrUnsupportedRevision, dict.R)
	}

	dict.Length = 40
	if length, ok := enc.GetInt("Length"); ok {
		dict.Length = int64(length)
	}

	p, err := requiredInt(enc, "P")
	if err != nil {
		return nil, err
	}
	// Sloppy producers write P as an unsigned 64-bit value; the
	// permission flags are defined as a signed 32-bit integer.
	dict.P = int32(p)

	dict.EncryptMetadata = true
	if emd, ok := enc.GetBool("EncryptMetadata"); ok {
		dict.EncryptMetadata = bool(emd)
	}

	dict.ID = documentID(trailer)

	ouLen := verifierLength(dict.R)
	dict.O, err = requiredBytes(enc, "O", ouLen)
	if err != nil {
		return nil, err
	}
	dict.U, err = requiredBytes(enc, "U", ouLen)
	if err != nil {
		return nil, err
	}

	if dict.R >= 5 {
		dict.OE, err = requiredBytes(enc, "OE", 32)
		if err != nil {
			return nil, err
		}
		dict.UE, err = requiredBytes(enc, "UE", 32)
		if err != nil {
			return nil, err
		}
	}

	return dict, nil
}

// parseTrailer decodes the trailer dictionary at the given candidate.
func parseTrailer(data []byte, t scan.Trailer) (core.Dict, error) {
	parser := core.NewParser(bytes.NewReader(data[t.Offset:]))

	var obj core.Object
	var err error
	if t.InObject {
		var indObj *core.IndirectObject
		indObj, err = parser.ParseIndirectObject()
		if indObj != nil {
			obj = indObj.Object
		}
	} else {
		obj, err = parser.ParseObject()
	}
	if err != nil {
		return nil, offsetDecodeError(err, t.Offset)
	}

	dict, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: trailer is not a dictionary", scan.ErrMalformedDocument)
	}
	return dict, nil
}

// resolveEncrypt returns the encryption dictionary referenced (or embedded)
// by the trailer's /Encrypt entry.
func resolveEncrypt(data []byte, scanned *scan.Result, trailer core.Dict) (core.Dict, error) {
	obj := trailer.Get("Encrypt")
	if obj == nil {
		return nil, ErrNotEncrypted
	}

	if ref, ok := obj.(core.IndirectRef); ok {
		offset, found := scanned.Objects[ref]
		if !found {
			return nil, fmt.Errorf("%w: /Encrypt object %s not found", scan.ErrMalformedDocument, ref)
		}
		parser := core.NewParser(bytes.NewReader(data[offset:]))
		indObj, err := parser.ParseIndirectObject()
		if err != nil {
			return nil, offsetDecodeError(err, offset)
		}
		obj = indObj.Object
	}

	enc, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: /Encrypt is not a dictionary", scan.ErrMalformedDocument)
	}
	return enc, nil
}

// documentID extracts the first element of the trailer's /ID array.
// Some producers omit /ID entirely; that yields an empty id, not an error.
func documentID(trailer core.Dict) []byte {
	arr, ok := trailer.GetArray("ID")
	if !ok {
		return nil
	}
	id, ok := arr.GetBytes(0)
	if !ok {
		return nil
	}
	return id
}

func requiredInt(enc core.Dict, field string) (int64, error) {
	v, ok := enc.GetInt(field)
	if !ok {
		if enc.Has(field) {
			return 0, &InvalidDictionaryError{Field: field, Reason: "is not an integer"}
		}
		return 0, &InvalidDictionaryError{Field: field, Reason: "is missing"}
	}
	return int64(v), nil
}

// requiredBytes extracts a required byte-string field. Values shorter than
// the revision's required length are fatal; longer values are truncated to
// it (real-world R6 files commonly carry an over-length /O).
func requiredBytes(enc core.Dict, field string, length int) ([]byte, error) {
	v, ok := enc.GetBytes(field)
	if !ok {
		if enc.Has(field) {
			return nil, &InvalidDictionaryError{Field: field, Reason: "is not a string"}
		}
		return nil, &InvalidDictionaryError{Field: field, Reason: "is missing"}
	}
	if len(v) < length {
		return nil, &InvalidDictionaryError{
			Field:  field,
			Reason: fmt.Sprintf("is %d bytes, need %d", len(v), length),
		}
	}
	return v[:length], nil
}

// offsetDecodeError rebases a DecodeError from a span-relative offset to an
// absolute position in the buffer.
func offsetDecodeError(err error, base int64) error {
	var decodeErr *core.DecodeError
	if errors.As(err, &decodeErr) {
		return &core.DecodeError{Offset: base + decodeErr.Offset, Err: decodeErr.Err}
	}
	return err
}
