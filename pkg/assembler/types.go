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
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Position is a half-open byte range [Start, End) into the assembled source.
type Position struct {
	Start int
	End   int
}

func (pos Position) Len() int {
	return pos.End - pos.Start
}

// Locate returns the 1-based line and column of pos.Start within source.
func (pos Position) Locate(source string) (line int, column int) {
	start := min(max(pos.Start, 0), len(source))
	prefix := source[:start]

	line = strings.Count(prefix, "\n") + 1
	column = start - strings.LastIndexByte(prefix, '\n')

	return line, column
}

// Diagnostic is implemented by every error the assembler reports against the
// source text.
type Diagnostic interface {
	error
	GetPosition() Position
	Kind() ErrorKind
	Code() string
	Help() string
}

type UnexpectedTokenError struct {
	Position  Position
	Expected  []TokenType
	Forbidden string
}

func (err *UnexpectedTokenError) GetPosition() Position {
	return err.Position
}

func (err *UnexpectedTokenError) Kind() ErrorKind {
	return ERROR_UNEXPECTED
}

func (err *UnexpectedTokenError) Code() string {
	return "nand7400::errors::unexpected"
}

func (err *UnexpectedTokenError) Help() string {
	return ""
}

func (err *UnexpectedTokenError) Error() string {
	expectedStrings := make([]string, 0, len(err.Expected))

	for _, tokenType := range err.Expected {
		expectedStrings = append(expectedStrings, tokenType.String())
	}

	var expectedString string

	if count := len(expectedStrings); count == 1 {
		expectedString = expectedStrings[0]
	} else if count == 2 {
		expectedString = expectedStrings[0] + " or " + expectedStrings[1]
	} else if count > 2 {
		expectedString = strings.Join(
			expectedStrings[:count-1], ", ",
		) + ", or " + expectedStrings[count-1]
	}

	forbidden := err.Forbidden

	if forbidden == "" {
		forbidden = "End of file"
	} else if forbidden == "\n" {
		forbidden = "Newline"
	} else {
		forbidden = fmt.Sprintf("'%s'", forbidden)
	}

	return fmt.Sprintf(
		"Unexpected token\n\twant:%s\n\thave:%s",
		expectedString,
		forbidden,
	)
}

type UnknownOpcodeError struct {
	Position Position
	Mnemonic string
}

func (err *UnknownOpcodeError) GetPosition() Position {
	return err.Position
}

func (err *UnknownOpcodeError) Kind() ErrorKind {
	return ERROR_OPCODE_DNE
}

func (err *UnknownOpcodeError) Code() string {
	return "nand7400::errors::opcode_does_not_exist"
}

func (err *UnknownOpcodeError) Help() string {
	return "Try using a different opcode."
}

func (err *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("Opcode '%s' does not exist", err.Mnemonic)
}

type InvalidNumArgumentsError struct {
	Position Position
	Mnemonic string
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Position {
	return err.Position
}

func (err *InvalidNumArgumentsError) Kind() ErrorKind {
	return ERROR_WRONG_NUM_ARGS
}

func (err *InvalidNumArgumentsError) Code() string {
	return "nand7400::errors::wrong_num_args"
}

func (err *InvalidNumArgumentsError) Help() string {
	return fmt.Sprintf(
		"Numbers take one argument byte and labels take %d.", LABEL_SIZE,
	)
}

func (err *InvalidNumArgumentsError) Error() string {
	return fmt.Sprintf(
		"Invalid number of arguments for '%s'\n\twant:%d\n\thave:%d",
		err.Mnemonic,
		err.Required,
		err.Received,
	)
}

type UnknownLabelError struct {
	Position Position
	Label    string
}

func (err *UnknownLabelError) GetPosition() Position {
	return err.Position
}

func (err *UnknownLabelError) Kind() ErrorKind {
	return ERROR_LABEL_DNE
}

func (err *UnknownLabelError) Code() string {
	return "nand7400::errors::label_does_not_exist"
}

func (err *UnknownLabelError) Help() string {
	return "Try defining this label somewhere else in your code."
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf("Label '%s' does not exist", err.Label)
}

type RedeclaredLabelError struct {
	Position Position
	First    Position
	Label    string
}

func (err *RedeclaredLabelError) GetPosition() Position {
	return err.Position
}

func (err *RedeclaredLabelError) Kind() ErrorKind {
	return ERROR_LABEL_REDEFINED
}

func (err *RedeclaredLabelError) Code() string {
	return "nand7400::errors::label_redefined"
}

func (err *RedeclaredLabelError) Help() string {
	return "Try renaming one of the labels."
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf("Redeclaration of label '%s'", err.Label)
}

type OversizedLiteralError struct {
	Position Position
	Value    uint64
	Width    int
}

func (err *OversizedLiteralError) GetPosition() Position {
	return err.Position
}

func (err *OversizedLiteralError) Kind() ErrorKind {
	return ERROR_OUT_OF_RANGE
}

func (err *OversizedLiteralError) Code() string {
	return "nand7400::errors::out_of_range"
}

func (err *OversizedLiteralError) Help() string {
	return ""
}

func (err *OversizedLiteralError) Error() string {
	return fmt.Sprintf(
		"Value exceeds allowed size\n\twant:%#x\n\thave:%#x",
		uint64(1)<<err.Width-1,
		err.Value,
	)
}

type InvalidKeywordArgumentError struct {
	Position Position
	Keyword  KeywordType
}

func (err *InvalidKeywordArgumentError) GetPosition() Position {
	return err.Position
}

func (err *InvalidKeywordArgumentError) Kind() ErrorKind {
	return ERROR_BAD_KEYWORD_ARG
}

func (err *InvalidKeywordArgumentError) Code() string {
	return "nand7400::errors::bad_keyword_arg"
}

func (err *InvalidKeywordArgumentError) Help() string {
	return fmt.Sprintf("%s takes exactly one numeric literal.", err.Keyword)
}

func (err *InvalidKeywordArgumentError) Error() string {
	return fmt.Sprintf("Invalid argument for '%s'", err.Keyword)
}

// ErrorList accumulates diagnostics over one assembly. Source, when set, is
// the text the diagnostics point into.
type ErrorList struct {
	Source string
	errs   []Diagnostic
}

func (list *ErrorList) Push(err Diagnostic) {
	list.errs = append(list.errs, err)
}

func (list *ErrorList) IsEmpty() bool {
	return list == nil || len(list.errs) == 0
}

func (list *ErrorList) Len() int {
	if list == nil {
		return 0
	}

	return len(list.errs)
}

func (list *ErrorList) WithSourceCode(source string) *ErrorList {
	list.Source = source
	return list
}

func (list *ErrorList) Errors() []Diagnostic {
	if list == nil {
		return nil
	}

	return slices.Clone(list.errs)
}

func (list *ErrorList) All() iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		if list == nil {
			return
		}

		for _, err := range list.errs {
			if !yield(err) {
				return
			}
		}
	}
}

// Sort orders the diagnostics by where they start in the source. Diagnostics
// starting at the same byte keep the order they were pushed in.
func (list *ErrorList) Sort() {
	slices.SortStableFunc(list.errs, func(a, b Diagnostic) int {
		return cmp.Compare(a.GetPosition().Start, b.GetPosition().Start)
	})
}

func (list *ErrorList) Locate(err Diagnostic) (line int, column int) {
	return err.GetPosition().Locate(list.Source)
}

func (list *ErrorList) Error() string {
	var builder strings.Builder

	for i, err := range list.errs {
		if i > 0 {
			builder.WriteByte('\n')
		}

		line, column := list.Locate(err)
		fmt.Fprintf(&builder, "%02d:%02d: %s", line, column, err.Error())
	}

	return builder.String()
}

func (list *ErrorList) Unwrap() []error {
	result := make([]error, 0, len(list.errs))

	for _, err := range list.errs {
		result = append(result, err)
	}

	return result
}

// AsErrorList extracts the diagnostics behind an error returned by the
// assembler.
func AsErrorList(err error) (*ErrorList, bool) {
	var list *ErrorList

	if errors.As(err, &list) {
		return list, true
	}

	return nil, false
}
