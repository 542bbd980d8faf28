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

type TokenType uint
type InstructionType uint
type ArgumentType uint
type KeywordType uint
type ErrorKind uint

// Size in bytes of a label reference in the assembled output
const LABEL_SIZE = 2

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_KEYWORD
	TOKEN_LITERAL
	TOKEN_COLON
	TOKEN_COMMA
	TOKEN_NEWLINE
	TOKEN_EOF
	TOKEN_INVALID
)

const (
	INSTRUCTION_INVALID InstructionType = iota
	INSTRUCTION_LABEL
	INSTRUCTION_OPCODE
	INSTRUCTION_KEYWORD
)

const (
	ARGUMENT_INVALID ArgumentType = iota
	ARGUMENT_NUMBER
	ARGUMENT_LABEL
)

const (
	KEYWORD_INVALID KeywordType = iota
	KEYWORD_ORG
	KEYWORD_BYTE
)

const (
	ERROR_UNEXPECTED ErrorKind = iota
	ERROR_OPCODE_DNE
	ERROR_WRONG_NUM_ARGS
	ERROR_LABEL_DNE
	ERROR_LABEL_REDEFINED
	ERROR_OUT_OF_RANGE
	ERROR_BAD_KEYWORD_ARG
)

func (tokenType TokenType) String() string {
	switch tokenType {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_KEYWORD:
		return "Keyword"
	case TOKEN_LITERAL:
		return "Literal"
	case TOKEN_COLON:
		return "Colon"
	case TOKEN_COMMA:
		return "Comma"
	case TOKEN_NEWLINE:
		return "Newline"
	case TOKEN_EOF:
		return "End of file"
	}

	return "<invalid>"
}

func (keyword KeywordType) String() string {
	switch keyword {
	case KEYWORD_ORG:
		return ".org"
	case KEYWORD_BYTE:
		return ".byte"
	}

	return "<invalid>"
}

func (kind ErrorKind) String() string {
	switch kind {
	case ERROR_UNEXPECTED:
		return "Unexpected"
	case ERROR_OPCODE_DNE:
		return "OpcodeDNE"
	case ERROR_WRONG_NUM_ARGS:
		return "WrongNumArgs"
	case ERROR_LABEL_DNE:
		return "LabelDNE"
	case ERROR_LABEL_REDEFINED:
		return "LabelRedefined"
	case ERROR_OUT_OF_RANGE:
		return "OutOfRange"
	case ERROR_BAD_KEYWORD_ARG:
		return "BadKeywordArg"
	}

	return "<invalid>"
}
