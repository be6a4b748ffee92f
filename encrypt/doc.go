// Package encrypt resolves a PDF's standard security handler fields and
// formats them as a crackable hash descriptor.
//
// [Resolve] follows the /Encrypt entry of the most recently written trailer
// through the scanned object index, validates the fields the declared
// revision requires, and reads the document /ID.
// [Dictionary.FormatHash] then assembles the $pdf$ descriptor line.
//
// Failures are classified: [ErrNotEncrypted] when there is no /Encrypt
// entry, [ErrUnsupportedRevision] for revisions outside 2-6, and
// [InvalidDictionaryError] for missing or mis-sized required fields.
package encrypt
