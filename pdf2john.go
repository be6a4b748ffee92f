// Package pdf2john extracts the encryption parameters of password-protected
// PDF files and formats them as $pdf$ hash descriptors for offline password
// recovery tools such as John the Ripper.
//
// Basic usage:
//
//	hash, err := pdf2john.ExtractFile("secret.pdf")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(hash)
//
// The pipeline is a pure function from file bytes to a descriptor string:
// the buffer is scanned for object bodies and trailer candidates, the most
// recently written trailer's /Encrypt dictionary is resolved, and the
// revision-appropriate descriptor is assembled. Nothing is decrypted and no
// passwords are guessed.
//
// For lower-level access the scan, core and encrypt packages are also
// available.
package pdf2john

import (
	"os"

	"github.com/ali-raheem/pdf2john/encrypt"
	"github.com/ali-raheem/pdf2john/scan"
)

// Extract runs the full pipeline over one PDF's raw bytes and returns its
// hash descriptor. The buffer is never modified.
//
// Errors identify what went wrong with the file:
// scan.ErrMalformedDocument, encrypt.ErrNotEncrypted,
// encrypt.ErrUnsupportedRevision, *encrypt.InvalidDictionaryError, or a
// *core.DecodeError carrying the byte offset of a syntax violation.
func Extract(data []byte) (string, error) {
	scanned, err := scan.Scan(data)
	if err != nil {
		return "", err
	}

	dict, err := encrypt.Resolve(data, scanned)
	if err != nil {
		return "", err
	}

	return dict.FormatHash()
}

// ExtractFile reads a PDF file and returns its hash descriptor.
func ExtractFile(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return Extract(data)
}

// Result is the outcome of processing one file in a batch.
// Exactly one of Hash and Err is meaningful.
type Result struct {
	Name string
	Hash string
	Err  error
}

// ExtractFiles processes each file independently and in order. One file's
// failure does not affect the others; every input yields a Result.
func ExtractFiles(filenames []string) []Result {
	results := make([]Result, 0, len(filenames))
	for _, name := range filenames {
		hash, err := ExtractFile(name)
		results = append(results, Result{Name: name, Hash: hash, Err: err})
	}
	return results
}
