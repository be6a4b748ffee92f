package scan

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/ali-raheem/pdf2john/core"
)

// ErrMalformedDocument indicates that the buffer could not be read as a PDF
// file: the header is missing, the file is too short, or no trailer
// candidate exists.
var ErrMalformedDocument = errors.New("malformed PDF document")

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedDocument, reason)
}

// Trailer locates one trailer dictionary candidate in the buffer.
// Candidates appear in file-offset order; with incremental updates the last
// one is the most recently written.
type Trailer struct {
	// Offset is where parsing starts: the "<<" after a trailer keyword,
	// or the object header of a /Type /XRef cross-reference stream.
	Offset int64
	// InObject is true when the dictionary is the body of an indirect
	// object (the cross-reference stream case) rather than following a
	// literal trailer keyword.
	InObject bool
}

// Result is the index produced by scanning one PDF buffer.
type Result struct {
	// HeaderVersion is the version from the %PDF-x.y header, e.g. "1.7".
	HeaderVersion string
	// Objects maps each indirect object reference to the byte offset of
	// its body. When a file contains several occurrences of the same
	// reference (incremental updates append rather than overwrite), the
	// occurrence latest in the byte stream wins.
	Objects map[core.IndirectRef]int64
	// Trailers lists all trailer candidates in file-offset order.
	Trailers []Trailer
}

var (
	headerRegexp = regexp.MustCompile(`%PDF-([0-9]+\.[0-9]+)`)

	// Markers are recognized anywhere in the buffer. A single
	// cross-reference table cannot be trusted: incrementally updated
	// files carry several, and damaged files may have none.
	objectRegexp  = regexp.MustCompile(`([0-9]+)[\000\011\014\015\012 ]+([0-9]+)[\000\011\014\015\012 ]+obj\b`)
	trailerRegexp = regexp.MustCompile(`trailer\b`)
)

// headerWindow bounds how far into the buffer the %PDF header may sit.
// Real-world files sometimes carry junk bytes before it.
const headerWindow = 1024

// Scan indexes a raw PDF buffer: every indirect object body and every
// trailer dictionary candidate, tolerant of multiple incremental updates.
// The buffer is never modified.
func Scan(data []byte) (*Result, error) {
	if len(data) < 8 {
		return nil, malformed("file too short")
	}

	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	m := headerRegexp.FindSubmatch(window)
	if m == nil {
		return nil, malformed("PDF header not found")
	}

	result := &Result{
		HeaderVersion: string(m[1]),
		Objects:       make(map[core.IndirectRef]int64),
	}

	for _, idx := range objectRegexp.FindAllSubmatchIndex(data, -1) {
		if !boundaryBefore(data, idx[0]) {
			continue
		}
		num, err := strconv.Atoi(string(data[idx[2]:idx[3]]))
		if err != nil {
			continue
		}
		gen, err := strconv.Atoi(string(data[idx[4]:idx[5]]))
		if err != nil {
			continue
		}
		ref := core.IndirectRef{Number: num, Generation: gen}
		// Later occurrence wins.
		result.Objects[ref] = int64(idx[0])
	}

	for _, idx := range trailerRegexp.FindAllIndex(data, -1) {
		if !boundaryBefore(data, idx[0]) {
			continue
		}
		dictStart, ok := nextDictStart(data, idx[1])
		if !ok {
			continue
		}
		result.Trailers = append(result.Trailers, Trailer{Offset: dictStart})
	}

	// Files written with cross-reference streams only have no trailer
	// keyword; the /Type /XRef stream dictionary carries the trailer
	// fields instead.
	if len(result.Trailers) == 0 {
		result.Trailers = findXRefStreams(data, result.Objects)
	}

	if len(result.Trailers) == 0 {
		return nil, malformed("no trailer or cross-reference stream found")
	}

	return result, nil
}

// boundaryBefore reports whether pos sits at the start of the buffer or
// after a whitespace/delimiter byte, so that markers inside longer tokens
// (or in the middle of binary data) are not mistaken for real ones.
func boundaryBefore(data []byte, pos int) bool {
	if pos == 0 {
		return true
	}
	b := data[pos-1]
	return isWhitespace(b) || isDelimiter(b)
}

// nextDictStart finds the "<<" following pos, skipping whitespace and
// comments. Comments run from '%' to the end of the line.
func nextDictStart(data []byte, pos int) (int64, bool) {
	i := pos
	for i < len(data) {
		switch {
		case isWhitespace(data[i]):
			i++
		case data[i] == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		default:
			if i+1 < len(data) && data[i] == '<' && data[i+1] == '<' {
				return int64(i), true
			}
			return 0, false
		}
	}
	return 0, false
}

// findXRefStreams returns, in file-offset order, the offsets of indirect
// objects whose dictionary has /Type /XRef.
func findXRefStreams(data []byte, objects map[core.IndirectRef]int64) []Trailer {
	offsets := make([]int64, 0, len(objects))
	for _, off := range objects {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	var trailers []Trailer
	for _, off := range offsets {
		parser := core.NewParser(bytes.NewReader(data[off:]))
		indObj, err := parser.ParseIndirectObject()
		if err != nil {
			continue
		}
		dict, ok := indObj.Object.(core.Dict)
		if !ok {
			continue
		}
		if typ, ok := dict.GetName("Type"); ok && typ == "XRef" {
			trailers = append(trailers, Trailer{Offset: off, InObject: true})
		}
	}
	return trailers
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}
