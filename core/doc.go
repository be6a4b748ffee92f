// Package core provides low-level PDF parsing primitives and object types.
//
// This package implements the small PDF value grammar needed to read
// trailer and encryption dictionaries: all eight basic object types (null,
// boolean, integer, real, string, name, array, and dictionary) plus
// indirect references.
//
// # Object Types
//
// PDF values are modeled as a closed set of types satisfying the Object
// interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers (floating point)
//   - [String] - represents literal strings, holding decoded raw bytes
//   - [HexString] - represents hexadecimal strings, holding decoded raw bytes
//   - [Name] - represents PDF name objects (e.g., /Type, /Encrypt)
//   - [Array] - represents PDF arrays
//   - [Dict] - represents PDF dictionaries
//
// [IndirectRef] represents a reference to an indirect object. Both string
// variants always carry decoded raw bytes, never PDF source syntax.
//
// # Parsing
//
// The [Parser] type handles parsing PDF syntax from an io.Reader. It can
// decode individual values or complete indirect object definitions; the
// [Parser.Offset] method reports how much input a value consumed.
//
// The [Lexer] type provides tokenization of PDF input, converting raw bytes
// into tokens that the parser consumes.
//
// Syntax violations are reported as [DecodeError] values carrying the byte
// offset at which decoding failed.
package core
