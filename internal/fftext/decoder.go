// Package fftext decodes the game's escape-coded text encoding.
//
// Decoding never fails: unknown or truncated control sequences become
// escape tokens that render as {xNN} or {xNNNN}.
package fftext

import (
	"fmt"
	"strings"
)

// MaxTables is the number of tables used by the alternate-language variant
const MaxTables = 4

// TokenKind classifies a decoded token
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenPageBreak
	TokenNewline
	TokenName
	TokenVariable
	TokenColor
	TokenWait
	TokenLocation
	TokenIndexed
	TokenEscape
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenPageBreak:
		return "page"
	case TokenNewline:
		return "newline"
	case TokenName:
		return "name"
	case TokenVariable:
		return "variable"
	case TokenColor:
		return "color"
	case TokenWait:
		return "wait"
	case TokenLocation:
		return "location"
	case TokenIndexed:
		return "indexed"
	case TokenEscape:
		return "escape"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// Token is a run of characters or one inline annotation. Raw holds the
// source bytes of annotations.
type Token struct {
	Kind  TokenKind
	Text  string
	Value int
	Raw   []byte
}

func (t Token) String() string {
	switch t.Kind {
	case TokenText:
		return t.Text
	case TokenPageBreak:
		return "\n{NewPage}\n"
	case TokenNewline:
		return "\n"
	case TokenWait:
		return fmt.Sprintf("{Wait%03d}", t.Value)
	case TokenIndexed:
		return fmt.Sprintf("{Jp%03d}", t.Value)
	case TokenEscape:
		var sb strings.Builder
		sb.WriteString("{x")
		for _, b := range t.Raw {
			fmt.Fprintf(&sb, "%02x", b)
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return "{" + t.Text + "}"
	}
}

// Text is a decoded string
type Text []Token

// String renders the text with annotations in braces
func (t Text) String() string {
	var sb strings.Builder
	for _, tok := range t {
		sb.WriteString(tok.String())
	}
	return sb.String()
}

// Plain returns only the character runs and line breaks
func (t Text) Plain() string {
	var sb strings.Builder
	for _, tok := range t {
		switch tok.Kind {
		case TokenText:
			sb.WriteString(tok.Text)
		case TokenNewline, TokenPageBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Decoder holds the active character tables. It is safe for concurrent use.
type Decoder struct {
	tables []*Table
}

// DefaultDecoder decodes with DefaultTable only
var DefaultDecoder = &Decoder{tables: []*Table{&DefaultTable}}

// NewDecoder creates a decoder over one to four tables. With four tables the
// 0x19-0x1B leads select tables 1-3.
func NewDecoder(tables ...*Table) (*Decoder, error) {
	if len(tables) == 0 || len(tables) > MaxTables {
		return nil, fmt.Errorf("need 1 to %d character tables, got %d", MaxTables, len(tables))
	}
	for i, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("character table %d is nil", i)
		}
	}
	return &Decoder{tables: tables}, nil
}

// Decode decodes with DefaultDecoder
func Decode(data []byte) Text {
	return DefaultDecoder.Decode(data)
}

// Decode scans data until a 0x00 byte or the end of the slice
func (d *Decoder) Decode(data []byte) Text {
	var out Text
	alt := len(d.tables) == MaxTables

	for i := 0; i < len(data); i++ {
		lead := data[i]

		if lead == 0x00 {
			break
		}

		switch {
		case lead == 0x01:
			out = append(out, Token{Kind: TokenPageBreak, Raw: []byte{lead}})
			continue
		case lead == 0x02:
			out = append(out, Token{Kind: TokenNewline, Raw: []byte{lead}})
			continue
		case lead >= 0x20:
			if s := d.lookup(0, lead); s != "" {
				out = out.appendText(s)
			} else {
				out = append(out, escape(lead))
			}
			continue
		}

		// every remaining lead consumes one parameter byte
		if i+1 >= len(data) {
			out = append(out, escape(lead))
			break
		}
		i++
		out = append(out, d.control(lead, data[i], alt))
	}

	return out
}

func (d *Decoder) control(lead, index byte, alt bool) Token {
	raw := []byte{lead, index}

	switch {
	case lead == 0x03:
		switch {
		case index >= 0x30 && index <= 0x3A:
			return Token{Kind: TokenName, Text: Names[index-0x30], Value: int(index - 0x30), Raw: raw}
		case index == 0x40:
			return Token{Kind: TokenName, Text: Names[11], Value: 11, Raw: raw}
		case index == 0x50:
			return Token{Kind: TokenName, Text: Names[12], Value: 12, Raw: raw}
		case index == 0x60:
			return Token{Kind: TokenName, Text: Names[13], Value: 13, Raw: raw}
		}
	case lead == 0x04:
		switch {
		case index >= 0x20 && index <= 0x27:
			return variable("Var", int(index-0x20), raw)
		case index >= 0x30 && index <= 0x37:
			return variable("Var0", int(index-0x30), raw)
		case index >= 0x40 && index <= 0x47:
			return variable("Varb", int(index-0x40), raw)
		}
	case lead == 0x06:
		if index >= 0x20 && index <= 0x2F {
			return Token{Kind: TokenColor, Text: Colors[index-0x20], Value: int(index - 0x20), Raw: raw}
		}
	case lead == 0x09:
		if index >= 0x20 {
			return Token{Kind: TokenWait, Value: int(index - 0x20), Raw: raw}
		}
	case lead == 0x0E:
		if index >= 0x20 && index <= 0x27 {
			return Token{Kind: TokenLocation, Text: Locations[index-0x20], Value: int(index - 0x20), Raw: raw}
		}
	case alt && lead >= 0x19 && lead <= 0x1B:
		if s := d.lookup(int(lead-0x18), index); s != "" {
			return Token{Kind: TokenText, Text: s, Raw: raw}
		}
	case lead == 0x1C:
		if index >= 0x20 {
			return Token{Kind: TokenIndexed, Value: int(index - 0x20), Raw: raw}
		}
	}

	return Token{Kind: TokenEscape, Raw: raw}
}

func (d *Decoder) lookup(table int, b byte) string {
	if table >= len(d.tables) || b < 0x20 {
		return ""
	}
	return d.tables[table][b]
}

func variable(prefix string, n int, raw []byte) Token {
	return Token{Kind: TokenVariable, Text: fmt.Sprintf("%s%d", prefix, n), Value: n, Raw: raw}
}

func escape(b byte) Token {
	return Token{Kind: TokenEscape, Raw: []byte{b}}
}

// appendText extends a trailing character run or starts a new one
func (t Text) appendText(s string) Text {
	if n := len(t); n > 0 && t[n-1].Kind == TokenText && t[n-1].Raw == nil {
		t[n-1].Text += s
		return t
	}
	return append(t, Token{Kind: TokenText, Text: s})
}
