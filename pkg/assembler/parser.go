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
	"strings"
)

type parser struct {
	tokens []Token
	index  int
	ast    *Ast
}

// Parse builds the syntax tree of source without consulting an opcode table.
// The returned error, if any, is an *ErrorList holding one
// UnexpectedTokenError.
func Parse(source string) (*Ast, error) {
	ast, err := parse(source)

	if err != nil {
		errs := &ErrorList{}
		errs.Push(err)

		return nil, errs.WithSourceCode(source)
	}

	return ast, nil
}

func parse(source string) (*Ast, *UnexpectedTokenError) {
	p := parser{
		tokens: tokenize(source),
		ast:    &Ast{Symbols: make(map[string]uint16)},
	}

	for {
		switch p.peek(0).Type {
		case TOKEN_EOF:
			return p.ast, nil
		case TOKEN_NEWLINE:
			p.advance()
			continue
		}

		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}
}

func parseKeyword(ident string) KeywordType {
	if strings.EqualFold(ident, ".ORG") {
		return KEYWORD_ORG
	} else if strings.EqualFold(ident, ".BYTE") {
		return KEYWORD_BYTE
	}

	return KEYWORD_INVALID
}

func (p *parser) peek(n int) *Token {
	// The token list always ends in TOKEN_EOF
	index := min(p.index+n, len(p.tokens)-1)
	return &p.tokens[index]
}

func (p *parser) advance() *Token {
	token := p.peek(0)

	if token.Type != TOKEN_EOF {
		p.index++
	}

	return token
}

func (p *parser) isLabel() bool {
	ident, colon := p.peek(0), p.peek(1)

	return ident.Type == TOKEN_IDENT &&
		colon.Type == TOKEN_COLON &&
		colon.Position.Start == ident.Position.End
}

func (p *parser) parseLine() *UnexpectedTokenError {
	for p.isLabel() {
		ident := p.advance()
		colon := p.advance()

		p.ast.Instructions = append(p.ast.Instructions, Instruction{
			Type:         INSTRUCTION_LABEL,
			Position:     Position{ident.Position.Start, colon.Position.End},
			NamePosition: ident.Position,
			Label:        ident.Value,
		})
	}

	token := p.peek(0)
	ins := Instruction{NamePosition: token.Position}

	switch token.Type {
	case TOKEN_NEWLINE, TOKEN_EOF:
		return nil

	case TOKEN_IDENT:
		ins.Type = INSTRUCTION_OPCODE
		ins.Mnemonic = token.Value

	case TOKEN_KEYWORD:
		ins.Type = INSTRUCTION_KEYWORD
		ins.Keyword = parseKeyword(token.Value)

		if ins.Keyword == KEYWORD_INVALID {
			return unexpected(token, TOKEN_KEYWORD)
		}

	default:
		return unexpected(token, TOKEN_IDENT, TOKEN_KEYWORD, TOKEN_NEWLINE)
	}

	p.advance()

	args, err := p.parseArguments()

	if err != nil {
		return err
	}

	ins.Arguments = args
	ins.Position = token.Position

	if count := len(args); count > 0 {
		ins.Position.End = args[count-1].Position.End
	}

	p.ast.Instructions = append(p.ast.Instructions, ins)

	return nil
}

// parseArguments reads arguments up to the end of the line. Arguments may be
// separated by a single comma or by whitespace alone.
func (p *parser) parseArguments() ([]Argument, *UnexpectedTokenError) {
	var args []Argument
	var separated bool

	for {
		token := p.peek(0)

		switch token.Type {
		case TOKEN_LITERAL:
			args = append(args, Argument{
				Type:     ARGUMENT_NUMBER,
				Position: token.Position,
				Value:    token.Number,
				Radix:    token.Radix,
			})

			separated = false

		case TOKEN_IDENT:
			args = append(args, Argument{
				Type:     ARGUMENT_LABEL,
				Position: token.Position,
				Label:    token.Value,
			})

			separated = false

		case TOKEN_COMMA:
			if len(args) == 0 || separated {
				return nil, unexpected(token, TOKEN_LITERAL, TOKEN_IDENT)
			}

			separated = true

		case TOKEN_NEWLINE, TOKEN_EOF:
			if separated {
				return nil, unexpected(token, TOKEN_LITERAL, TOKEN_IDENT)
			}

			return args, nil

		default:
			if separated {
				return nil, unexpected(token, TOKEN_LITERAL, TOKEN_IDENT)
			} else if len(args) == 0 {
				return nil, unexpected(
					token, TOKEN_LITERAL, TOKEN_IDENT, TOKEN_NEWLINE,
				)
			}

			return nil, unexpected(
				token, TOKEN_LITERAL, TOKEN_IDENT, TOKEN_COMMA, TOKEN_NEWLINE,
			)
		}

		p.advance()
	}
}

func unexpected(token *Token, expected ...TokenType) *UnexpectedTokenError {
	return &UnexpectedTokenError{
		Position:  token.Position,
		Expected:  expected,
		Forbidden: token.Value,
	}
}
