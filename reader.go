package minischeme

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokLParen tokenKind = iota
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokQuote
	tokColon
	tokComma
	tokSymbol
	tokInteger
	tokBool
	tokString
)

type token struct {
	kind tokenKind
	text string
	num  int64
}

func (t token) String() string {
	switch t.kind {
	case tokSymbol:
		return t.text
	case tokInteger:
		return strconv.FormatInt(t.num, 10)
	case tokBool:
		if t.num != 0 {
			return "#t"
		}
		return "#f"
	case tokString:
		return strconv.Quote(t.text)
	default:
		return t.text
	}
}

const delimiters = "()[]{}:,'"

var punctuation = map[rune]tokenKind{
	'(':  tokLParen,
	')':  tokRParen,
	'[':  tokLBracket,
	']':  tokRBracket,
	'{':  tokLBrace,
	'}':  tokRBrace,
	'\'': tokQuote,
	':':  tokColon,
	',':  tokComma,
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	rs := []rune(src)
	i := 0
	for i < len(rs) {
		r := rs[i]
		if kind, ok := punctuation[r]; ok {
			tokens = append(tokens, token{kind: kind, text: string(r)})
			i++
			continue
		}
		switch {
		case unicode.IsSpace(r):
			i++
		case r == ';':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
		case r == '"':
			s, n, err := readString(rs[i+1:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: s})
			i += n + 1
		case isDigit(r) || (r == '-' && i+1 < len(rs) && isDigit(rs[i+1])):
			start := i
			i++
			for i < len(rs) && isDigit(rs[i]) {
				i++
			}
			text := string(rs[start:i])
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return nil, parserErrorf("Invalid integer literal: %s", text)
			}
			tokens = append(tokens, token{kind: tokInteger, num: n})
		case r == '#':
			if i+1 >= len(rs) {
				return nil, parserErrorf("Incomplete boolean literal: #")
			}
			switch rs[i+1] {
			case 't':
				tokens = append(tokens, token{kind: tokBool, num: 1})
			case 'f':
				tokens = append(tokens, token{kind: tokBool, num: 0})
			default:
				return nil, parserErrorf("Invalid boolean literal: #%c", rs[i+1])
			}
			i += 2
		default:
			start := i
			for i < len(rs) && !unicode.IsSpace(rs[i]) && !strings.ContainsRune(delimiters, rs[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokSymbol, text: string(rs[start:i])})
		}
	}
	return tokens, nil
}

// readString scans a string literal body and returns its value and the number
// of runes consumed including the closing quote.
func readString(rs []rune) (string, int, error) {
	var sb strings.Builder
	i := 0
	for i < len(rs) {
		r := rs[i]
		switch r {
		case '"':
			return sb.String(), i + 1, nil
		case '\\':
			if i+1 >= len(rs) {
				return "", 0, incompletef("Unterminated string literal after escape")
			}
			switch rs[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return "", 0, parserErrorf("Invalid escape sequence: \\%c", rs[i+1])
			}
			i += 2
		default:
			sb.WriteRune(r)
			i++
		}
	}
	return "", 0, incompletef("Unterminated string literal")
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

var symQuote = Intern("quote")

func (p *parser) parseExpr() (Value, error) {
	t, ok := p.next()
	if !ok {
		return nil, incompletef("Unexpected end of input")
	}
	switch t.kind {
	case tokLParen:
		return p.parseList()
	case tokLBracket:
		return p.parseArray()
	case tokLBrace:
		return p.parseMap()
	case tokQuote:
		form, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return List{symQuote, form}, nil
	case tokSymbol:
		return Intern(t.text), nil
	case tokInteger:
		return Integer(t.num), nil
	case tokBool:
		return Boolean(t.num != 0), nil
	case tokString:
		return String(t.text), nil
	default:
		return nil, parserErrorf("Unexpected '%s'", t.text)
	}
}

func (p *parser) parseList() (Value, error) {
	list := List{}
	for {
		t, ok := p.peek()
		if !ok {
			return nil, incompletef("Unmatched '('")
		}
		if t.kind == tokRParen {
			p.pos++
			return list, nil
		}
		form, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, form)
	}
}

func (p *parser) parseArray() (Value, error) {
	arr := NewArray()
	expectComma := false
	for {
		t, ok := p.peek()
		if !ok {
			return nil, incompletef("Unmatched '['")
		}
		switch t.kind {
		case tokRBracket:
			p.pos++
			return arr, nil
		case tokComma:
			if !expectComma {
				return nil, parserErrorf("Unexpected comma in array literal")
			}
			p.pos++
			expectComma = false
		default:
			if expectComma {
				return nil, parserErrorf("Expected comma or ']' in array literal")
			}
			form, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, form)
			expectComma = true
		}
	}
}

func (p *parser) parseMap() (Value, error) {
	m := NewMap()
	expectComma := false
	for {
		t, ok := p.next()
		if !ok {
			return nil, incompletef("Unmatched '{'")
		}
		switch t.kind {
		case tokRBrace:
			return m, nil
		case tokComma:
			if !expectComma {
				return nil, parserErrorf("Unexpected comma in map literal")
			}
			expectComma = false
		case tokSymbol:
			if expectComma {
				return nil, parserErrorf("Expected comma before next key in map literal")
			}
			colon, ok := p.next()
			if !ok {
				return nil, incompletef("Unmatched '{'")
			}
			if colon.kind != tokColon {
				return nil, parserErrorf("Expected ':' after map key '%s'", t.text)
			}
			if next, ok := p.peek(); ok && (next.kind == tokRBrace || next.kind == tokComma) {
				return nil, parserErrorf("Expected value after ':' in map literal")
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			m.Entries[t.text] = value
			expectComma = true
		default:
			return nil, parserErrorf("Unexpected token %s in map literal; expected key (symbol)", t)
		}
	}
}

// Read parses exactly one expression. Input holding only whitespace and
// comments yields the empty symbol, which evaluates to nil.
func Read(src string) (Value, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return Intern(""), nil
	}
	p := &parser{tokens: tokens}
	form, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, parserErrorf("Unexpected tokens after expression")
	}
	return form, nil
}

// ReadAll parses every top-level expression in src.
func ReadAll(src string) ([]Value, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	var forms []Value
	for p.pos < len(p.tokens) {
		form, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}
