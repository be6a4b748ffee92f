// Package scan locates indirect object bodies and trailer dictionaries
// directly in a raw PDF buffer.
//
// Incrementally updated files carry one cross-reference section and trailer
// per save, and damaged files may have a broken or missing cross-reference
// table altogether. The scanner therefore trusts neither: it recognizes the
// textual "num gen obj" and "trailer" markers anywhere in the buffer and
// retains every occurrence, leaving the choice among them to the caller.
// For each object reference the occurrence latest in the byte stream wins,
// matching PDF's append-only update semantics.
//
// Files written with cross-reference streams only (PDF 1.5+) have no
// trailer keyword; for those, indirect objects whose dictionary has
// /Type /XRef serve as trailer candidates.
package scan
