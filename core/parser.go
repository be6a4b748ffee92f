package core

import (
	"fmt"
	"io"
	"strconv"
)

// Parser parses PDF objects from an io.Reader using a Lexer for tokenization.
// It decodes one value at a time; Offset reports how far the input has been
// consumed, so callers working over byte spans can tell where a value ended.
type Parser struct {
	lexer        *Lexer
	currentToken *Token // Current token being processed
	peekToken    *Token // Next token (lookahead)
	tokenErr     error  // Lexer failure hit while loading the lookahead
}

// NewParser creates a new PDF parser for the given reader.
// It initializes the lexer and loads the first two tokens for lookahead.
func NewParser(r io.Reader) *Parser {
	p := &Parser{
		lexer: NewLexer(r),
	}
	// Load first two tokens
	p.nextToken()
	p.nextToken()
	return p
}

// Offset returns the byte position of the first unconsumed token. After a
// successful ParseObject call this is where the decoded value's span ends
// (any trailing whitespace having been skipped).
func (p *Parser) Offset() int64 {
	if p.currentToken != nil {
		return p.currentToken.Pos
	}
	return p.lexer.Pos()
}

// nextToken advances the parser to the next token by shifting the lookahead.
func (p *Parser) nextToken() error {
	p.currentToken = p.peekToken

	// Once a "stream" keyword is current the input switches to binary data
	// that can't be tokenized; stop pulling tokens past it.
	if p.currentToken != nil &&
		p.currentToken.Type == TokenKeyword &&
		string(p.currentToken.Value) == "stream" {
		p.peekToken = nil
		return nil
	}

	token, err := p.lexer.NextToken()
	if err != nil {
		p.tokenErr = err
		p.peekToken = nil
		return err
	}
	p.peekToken = token
	return nil
}

// endOfInput reports the lexer failure that stopped tokenization, or a
// plain truncation error when input simply ran out.
func (p *Parser) endOfInput(pos int64, what string) error {
	if p.tokenErr != nil {
		return p.tokenErr
	}
	return errAt(pos, "unexpected end of input in %s", what)
}

// skipComments skips over any consecutive comment tokens.
func (p *Parser) skipComments() error {
	for p.currentToken != nil && p.currentToken.Type == TokenComment {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// ParseObject parses and returns the next PDF object from the input.
// It handles all PDF object types: null, boolean, integer, real, string,
// name, array, dictionary, and indirect references.
func (p *Parser) ParseObject() (Object, error) {
	// Skip any comments
	if err := p.skipComments(); err != nil {
		return nil, err
	}

	if p.currentToken == nil {
		return nil, p.endOfInput(p.lexer.Pos(), "value")
	}

	switch p.currentToken.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		keyword := string(p.currentToken.Value)
		switch keyword {
		case "null":
			p.nextToken()
			return Null{}, nil
		case "true":
			p.nextToken()
			return Bool(true), nil
		case "false":
			p.nextToken()
			return Bool(false), nil
		default:
			return nil, errAt(p.currentToken.Pos, "unexpected keyword: %s", keyword)
		}

	case TokenInteger:
		// Could be integer or start of indirect reference
		return p.parseNumber()

	case TokenReal:
		val, err := strconv.ParseFloat(string(p.currentToken.Value), 64)
		if err != nil {
			return nil, errAt(p.currentToken.Pos, "invalid real number: %s", p.currentToken.Value)
		}
		p.nextToken()
		return Real(val), nil

	case TokenString:
		val := String(p.currentToken.Value)
		p.nextToken()
		return val, nil

	case TokenHexString:
		val := HexString(p.currentToken.Value)
		p.nextToken()
		return val, nil

	case TokenName:
		val := Name(p.currentToken.Value)
		p.nextToken()
		return val, nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()

	default:
		return nil, errAt(p.currentToken.Pos, "unexpected token type: %v", p.currentToken.Type)
	}
}

// parseNumber parses an integer, real number, or indirect reference.
// Indirect references are detected by lookahead: "num gen R" pattern.
func (p *Parser) parseNumber() (Object, error) {
	firstToken := string(p.currentToken.Value)

	// Try to parse as integer first
	firstInt, err := strconv.ParseInt(firstToken, 10, 64)
	if err != nil {
		// If it's not a valid integer, try as float
		f, err := strconv.ParseFloat(firstToken, 64)
		if err != nil {
			return nil, errAt(p.currentToken.Pos, "invalid number: %s", firstToken)
		}
		p.nextToken()
		return Real(f), nil
	}

	// Use lookahead to check if this is an indirect reference (num gen R)
	if p.peekToken != nil && p.peekToken.Type == TokenInteger {
		secondToken := string(p.peekToken.Value)
		secondInt, err := strconv.ParseInt(secondToken, 10, 64)
		if err == nil {
			// Peek ahead two tokens to see if there's an R
			// We need to temporarily consume to peek further
			p.nextToken() // Move to second integer
			if p.peekToken != nil && p.peekToken.Type == TokenIndirectRef {
				// It's an indirect reference - consume both tokens
				p.nextToken() // Move to R
				p.nextToken() // Move past R
				return IndirectRef{
					Number:     int(firstInt),
					Generation: int(secondInt),
				}, nil
			}
			// Not an indirect ref - we're now at the second integer.
			// Return the first integer as Int
			return Int(firstInt), nil
		}
	}

	// Just a single integer
	p.nextToken()
	return Int(firstInt), nil
}

// parseArray parses a PDF array "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	if p.currentToken.Type != TokenArrayStart {
		return nil, errAt(p.currentToken.Pos, "expected '[', got %v", p.currentToken.Type)
	}
	start := p.currentToken.Pos
	p.nextToken()

	var arr Array
	for {
		// Skip comments
		if err := p.skipComments(); err != nil {
			return nil, err
		}

		// Check for end of array
		if p.currentToken == nil {
			return nil, p.endOfInput(start, "array")
		}
		if p.currentToken.Type == TokenArrayEnd {
			p.nextToken()
			break
		}
		if p.currentToken.Type == TokenEOF {
			return nil, errAt(start, "unterminated array")
		}

		// Parse element
		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing array element: %w", err)
		}
		arr = append(arr, obj)
	}

	return arr, nil
}

// parseDict parses a PDF dictionary "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	if p.currentToken.Type != TokenDictStart {
		return nil, errAt(p.currentToken.Pos, "expected '<<', got %v", p.currentToken.Type)
	}
	start := p.currentToken.Pos
	p.nextToken()

	dict := make(Dict)
	for {
		// Skip comments
		if err := p.skipComments(); err != nil {
			return nil, err
		}

		// Check for end of dict
		if p.currentToken == nil {
			return nil, p.endOfInput(start, "dictionary")
		}
		if p.currentToken.Type == TokenDictEnd {
			p.nextToken()
			break
		}
		if p.currentToken.Type == TokenEOF {
			return nil, errAt(start, "unterminated dictionary")
		}

		// Parse key (must be a name)
		if p.currentToken.Type != TokenName {
			return nil, errAt(p.currentToken.Pos, "expected name for dictionary key, got %v", p.currentToken.Type)
		}
		key := string(p.currentToken.Value)
		p.nextToken()

		// Parse value
		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}

		dict[key] = value
	}

	return dict, nil
}

// ParseIndirectObject parses an indirect object definition.
// Format: "num gen obj <object> endobj".
//
// Stream bodies are not read: when the object value is followed by the
// "stream" keyword the dictionary is returned as-is and the parser stops
// at the keyword. This tool never needs stream data, only the dictionary
// in front of it (for /Type /XRef trailer candidates).
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	// Skip comments
	if err := p.skipComments(); err != nil {
		return nil, err
	}

	if p.currentToken == nil {
		return nil, p.endOfInput(p.lexer.Pos(), "indirect object")
	}

	// Parse object number
	if p.currentToken.Type != TokenInteger {
		return nil, errAt(p.currentToken.Pos, "expected object number, got %v", p.currentToken.Type)
	}
	num, err := strconv.ParseInt(string(p.currentToken.Value), 10, 64)
	if err != nil {
		return nil, errAt(p.currentToken.Pos, "invalid object number: %s", p.currentToken.Value)
	}
	p.nextToken()

	// Parse generation number
	if p.currentToken == nil {
		return nil, p.endOfInput(p.lexer.Pos(), "indirect object")
	}
	if p.currentToken.Type != TokenInteger {
		return nil, errAt(p.currentToken.Pos, "expected generation number, got %v", p.currentToken.Type)
	}
	gen, err := strconv.ParseInt(string(p.currentToken.Value), 10, 64)
	if err != nil {
		return nil, errAt(p.currentToken.Pos, "invalid generation number: %s", p.currentToken.Value)
	}
	p.nextToken()

	// Parse 'obj' keyword
	if p.currentToken == nil {
		return nil, p.endOfInput(p.lexer.Pos(), "indirect object")
	}
	if p.currentToken.Type != TokenKeyword || string(p.currentToken.Value) != "obj" {
		return nil, errAt(p.currentToken.Pos, "expected 'obj' keyword")
	}
	p.nextToken()

	// Parse the object value
	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}

	// A stream keyword means binary data follows; leave it unread.
	if p.currentToken != nil &&
		p.currentToken.Type == TokenKeyword &&
		string(p.currentToken.Value) == "stream" {
		if _, ok := obj.(Dict); !ok {
			return nil, errAt(p.currentToken.Pos, "stream must follow a dictionary")
		}
		return &IndirectObject{
			Ref: IndirectRef{
				Number:     int(num),
				Generation: int(gen),
			},
			Object: obj,
		}, nil
	}

	// Parse 'endobj' keyword
	if p.currentToken == nil || p.currentToken.Type != TokenKeyword || string(p.currentToken.Value) != "endobj" {
		return nil, errAt(p.Offset(), "expected 'endobj' keyword")
	}
	p.nextToken()

	return &IndirectObject{
		Ref: IndirectRef{
			Number:     int(num),
			Generation: int(gen),
		},
		Object: obj,
	}, nil
}
