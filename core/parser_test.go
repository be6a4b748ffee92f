package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestParseSimpleValues tests parsing of scalar values
func TestParseSimpleValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Object
	}{
		{"null", "null", Null{}},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"integer", "42", Int(42)},
		{"negative integer", "-44", Int(-44)},
		{"real", "3.5", Real(3.5)},
		{"literal string", "(hi)", String("hi")},
		{"hex string", "<4142>", HexString("AB")},
		{"name", "/Encrypt", Name("Encrypt")},
		{"reference", "5 0 R", IndirectRef{Number: 5, Generation: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(strings.NewReader(tt.input))
			got, err := parser.ParseObject()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("object mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestParseIntegerVsReference tests the lookahead distinguishing "1 2" from "1 2 R"
func TestParseIntegerVsReference(t *testing.T) {
	parser := NewParser(strings.NewReader("[1 2 3]"))
	got, err := parser.ParseObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Array{Int(1), Int(2), Int(3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}

	parser = NewParser(strings.NewReader("[1 2 R 3]"))
	got, err = parser.ParseObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = Array{IndirectRef{Number: 1, Generation: 2}, Int(3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}
}

// TestParseDict tests dictionary parsing
func TestParseDict(t *testing.T) {
	input := `<< /Type /XRef /Size 10 /Encrypt 5 0 R /ID [<ab> <cd>] /Open true >>`
	parser := NewParser(strings.NewReader(input))
	got, err := parser.ParseObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Dict{
		"Type":    Name("XRef"),
		"Size":    Int(10),
		"Encrypt": IndirectRef{Number: 5, Generation: 0},
		"ID":      Array{HexString{0xab}, HexString{0xcd}},
		"Open":    Bool(true),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dict mismatch (-want +got):\n%s", diff)
	}
}

// TestParseNestedDict tests nested structures
func TestParseNestedDict(t *testing.T) {
	input := `<< /CF << /StdCF << /CFM /AESV2 /Length 16 >> >> >>`
	parser := NewParser(strings.NewReader(input))
	got, err := parser.ParseObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dict, ok := got.(Dict)
	if !ok {
		t.Fatalf("expected Dict, got %T", got)
	}
	cf, ok := dict.GetDict("CF")
	if !ok {
		t.Fatal("missing /CF dictionary")
	}
	stdCF, ok := cf.GetDict("StdCF")
	if !ok {
		t.Fatal("missing /StdCF dictionary")
	}
	if cfm, _ := stdCF.GetName("CFM"); cfm != "AESV2" {
		t.Errorf("CFM = %q, want AESV2", cfm)
	}
}

// TestParseComments tests that comments are skipped between tokens
func TestParseComments(t *testing.T) {
	input := "<< /V % algorithm version\n2 /R 3 >>"
	parser := NewParser(strings.NewReader(input))
	got, err := parser.ParseObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Dict{"V": Int(2), "R": Int(3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dict mismatch (-want +got):\n%s", diff)
	}
}

// TestParseErrors tests syntax violations
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated dict", "<< /V 2"},
		{"unterminated array", "[1 2"},
		{"non-name dict key", "<< 1 2 >>"},
		{"unbalanced dict end", ">>"},
		{"unknown keyword", "bogus"},
		{"unterminated string in dict", "<< /S (abc >>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(strings.NewReader(tt.input))
			_, err := parser.ParseObject()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Errorf("expected *DecodeError, got %T: %v", err, err)
			}
		})
	}
}

// TestParserOffset tests consumed-span reporting
func TestParserOffset(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"integer", "42 99", 3},
		{"name", "/Name 1", 6},
		{"dict", "<< /V 2 >> 7", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(strings.NewReader(tt.input))
			if _, err := parser.ParseObject(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := parser.Offset(); got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestParseIndirectObject tests "num gen obj ... endobj" parsing
func TestParseIndirectObject(t *testing.T) {
	input := "5 0 obj\n<< /V 2 /R 3 >>\nendobj"
	parser := NewParser(strings.NewReader(input))
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if indObj.Ref != (IndirectRef{Number: 5, Generation: 0}) {
		t.Errorf("ref = %v, want 5 0 R", indObj.Ref)
	}
	want := Dict{"V": Int(2), "R": Int(3)}
	if diff := cmp.Diff(want, indObj.Object.(Dict)); diff != "" {
		t.Errorf("object mismatch (-want +got):\n%s", diff)
	}
}

// TestParseIndirectObjectStream tests that stream bodies stop the parser
// at the dictionary without reading binary data
func TestParseIndirectObjectStream(t *testing.T) {
	input := "7 0 obj\n<< /Type /XRef /Length 4 >>\nstream\n\x00\xff\x00\xffendstream\nendobj"
	parser := NewParser(strings.NewReader(input))
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dict, ok := indObj.Object.(Dict)
	if !ok {
		t.Fatalf("expected Dict, got %T", indObj.Object)
	}
	if typ, _ := dict.GetName("Type"); typ != "XRef" {
		t.Errorf("Type = %q, want XRef", typ)
	}
}

// TestParseIndirectObjectErrors tests malformed object headers
func TestParseIndirectObjectErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing obj keyword", "5 0 << /V 2 >> endobj"},
		{"missing endobj", "5 0 obj << /V 2 >>"},
		{"missing generation", "5 obj << /V 2 >> endobj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(strings.NewReader(tt.input))
			_, err := parser.ParseIndirectObject()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
