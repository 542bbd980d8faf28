// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.


package assembler

import (
	"unicode/utf8"

	"github.com/lassandro/nand7400/pkg/encoding"
)

type Token struct {
	Type     TokenType
	Position Position
	Value    string

	// Set for TOKEN_LITERAL
	Number uint64
	Radix  int
}

type lexer struct {
	source string
	offset int
}

// tokenize splits source into tokens, ending with a single TOKEN_EOF. Text
// that cannot start a token becomes a TOKEN_INVALID for the parser to report.
func tokenize(source string) []Token {
	lex := lexer{source: source}
	tokens := make([]Token, 0, len(source)/2+1)

	for {
		token := lex.next()
		tokens = append(tokens, token)

		if token.Type == TOKEN_EOF {
			return tokens
		}
	}
}

func (lex *lexer) next() Token {
	lex.skip()

	start := lex.offset

	if start >= len(lex.source) {
		return Token{Type: TOKEN_EOF, Position: Position{start, start}}
	}

	char := lex.source[start]

	switch {
	case char == '\n':
		lex.offset++
		return lex.token(TOKEN_NEWLINE, start)

	case char == ':':
		lex.offset++
		return lex.token(TOKEN_COLON, start)

	case char == ',':
		lex.offset++
		return lex.token(TOKEN_COMMA, start)

	case char == '.':
		lex.offset++

		if lex.offset < len(lex.source) && isIdentStart(lex.source[lex.offset]) {
			lex.word()
			return lex.token(TOKEN_KEYWORD, start)
		}

		return lex.token(TOKEN_INVALID, start)

	case isIdentStart(char):
		lex.word()
		return lex.token(TOKEN_IDENT, start)

	case isDigit(char), char == '$', char == '%':
		lex.offset++
		lex.word()

		token := lex.token(TOKEN_LITERAL, start)
		number, radix, err := encoding.DecodeLiteral(token.Value)

		if err != nil {
			token.Type = TOKEN_INVALID
			return token
		}

		token.Number = number
		token.Radix = radix

		return token
	}

	_, size := utf8.DecodeRuneInString(lex.source[start:])
	lex.offset += size

	return lex.token(TOKEN_INVALID, start)
}

// skip advances past whitespace and comments, stopping at a newline.
func (lex *lexer) skip() {
	for lex.offset < len(lex.source) {
		switch lex.source[lex.offset] {
		case ' ', '\t', '\r':
			lex.offset++

		case ';':
			lex.comment()

		case '/':
			if lex.offset+1 < len(lex.source) && lex.source[lex.offset+1] == '/' {
				lex.comment()
			} else {
				return
			}

		default:
			return
		}
	}
}

func (lex *lexer) comment() {
	for lex.offset < len(lex.source) && lex.source[lex.offset] != '\n' {
		lex.offset++
	}
}

func (lex *lexer) word() {
	for lex.offset < len(lex.source) && isIdentChar(lex.source[lex.offset]) {
		lex.offset++
	}
}

func (lex *lexer) token(tokenType TokenType, start int) Token {
	return Token{
		Type:     tokenType,
		Position: Position{start, lex.offset},
		Value:    lex.source[start:lex.offset],
	}
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func isIdentStart(char byte) bool {
	return char == '_' || (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func isIdentChar(char byte) bool {
	return isIdentStart(char) || isDigit(char)
}
