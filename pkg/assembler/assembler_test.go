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


package assembler_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/lassandro/nand7400/pkg/assembler"
	"github.com/lassandro/nand7400/pkg/config"
)

type testCase struct {
	Name    string
	Input   string
	Output  []byte
	Symbols map[string]uint16
}

type failCase struct {
	Name  string
	Input string
	Error error
}

var testConfig = config.New([]config.Opcode{
	{Mnemonic: "NOP", Binary: 0x00, NumArgs: 0},
	{Mnemonic: "LDA", Binary: 0x01, NumArgs: 1},
	{Mnemonic: "ADD", Binary: 0x02, NumArgs: 3},
	{Mnemonic: "JMP", Binary: 0x03, NumArgs: 2},
	{Mnemonic: "HLT", Binary: 0xFF, NumArgs: 0},
})

const basicProgram = `NOP
LDA 0xCA
JMP start
NOP
start:
ADD 1 2 3
HLT
`

func zeros(count int, tail ...byte) []byte {
	return append(make([]byte, count), tail...)
}

func testAssemblerSuccess(t *testing.T, test *testCase) {
	result, ast, err := assembler.New(testConfig).AssembleWithAst(test.Input)

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(result, test.Output) {
		t.Fatalf(
			"Binary mismatch\n"+
				"want:% X\n"+
				"have:% X",
			test.Output,
			result,
		)
	}

	if test.Symbols == nil {
		return
	}

	for label, want := range test.Symbols {
		have, exists := ast.Lookup(label)

		if !exists {
			t.Fatalf(
				"Missing symbol\n"+
					"want:%#04x (test.Symbols[%s])\n"+
					"have:nil",
				want,
				label,
			)
		} else if have != want {
			t.Fatalf(
				"Symbol mismatch\n"+
					"want:%#04x (test.Symbols[%s])\n"+
					"have:%#04x",
				want,
				label,
				have,
			)
		}
	}

	for label, have := range ast.Symbols {
		if _, exists := test.Symbols[label]; !exists {
			t.Fatalf(
				"Unexpected symbol\n"+
					"want:nil\n"+
					"have:%#04x (ast.Symbols[%s])",
				have,
				label,
			)
		}
	}
}

func testAssemblerFail(t *testing.T, test *failCase) {
	if test.Error == nil {
		panic("Fail case missing error value")
	}

	result, ast, err := assembler.New(testConfig).AssembleWithAst(test.Input)

	if result != nil || ast != nil {
		t.Fatalf("%s produced output alongside errors", t.Name())
	}

	errs, ok := assembler.AsErrorList(err)

	if !ok || errs.IsEmpty() {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%v",
			t.Name(),
			test.Error,
			err,
		)
	}

	if errs.Len() > 1 {
		errTypes := make([]reflect.Type, 0, errs.Len())
		for err := range errs.All() {
			errTypes = append(errTypes, reflect.TypeOf(err))
		}

		t.Fatalf(
			"%s produced multiple errors:\n\twant:%T (test.Error)\n\thave:%v",
			t.Name(),
			test.Error,
			errTypes,
		)
	}

	if have := errs.Errors()[0]; reflect.TypeOf(have) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T",
			t.Name(),
			test.Error,
			have,
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testAssemblerFail(t, &test)
			})
		}
	})
}

func TestBasic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Basic program",
			Input:  basicProgram,
			Output: []byte{0x00, 0x01, 0xCA, 0x03, 0x00, 0x07, 0x00, 0x02, 0x01, 0x02, 0x03, 0xFF},
			Symbols: map[string]uint16{
				"start": 7,
			},
		},
		{
			Name:   "Basic program without padding",
			Input:  "NOP\nLDA 0xCA\nJMP start\nstart:\nADD 1 2 3\nHLT",
			Output: []byte{0x00, 0x01, 0xCA, 0x03, 0x00, 0x06, 0x02, 0x01, 0x02, 0x03, 0xFF},
			Symbols: map[string]uint16{
				"start": 6,
			},
		},
		{
			Name:    "Empty",
			Input:   "",
			Output:  []byte{},
			Symbols: map[string]uint16{},
		},
		{
			Name:    "Blank lines",
			Input:   "\n\n   \n\t\n",
			Output:  []byte{},
			Symbols: map[string]uint16{},
		},
	})
}

func TestOpcode(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "No arguments",
			Input:  `NOP`,
			Output: []byte{0x00},
		},
		{
			Name:   "Whitespace separated",
			Input:  `ADD 1 2 3`,
			Output: []byte{0x02, 0x01, 0x02, 0x03},
		},
		{
			Name:   "Comma separated",
			Input:  `ADD 1, 2,3`,
			Output: []byte{0x02, 0x01, 0x02, 0x03},
		},
		{
			Name:   "Hex",
			Input:  `ADD 0x10 0X2a $Ff`,
			Output: []byte{0x02, 0x10, 0x2A, 0xFF},
		},
		{
			Name:   "Binary",
			Input:  `ADD 0b1 0B10 %101`,
			Output: []byte{0x02, 0x01, 0x02, 0x05},
		},
		{
			Name:   "Largest byte",
			Input:  `LDA 255`,
			Output: []byte{0x01, 0xFF},
		},
		{
			Name:   "Two numbers for an address",
			Input:  `JMP 0x12 0x34`,
			Output: []byte{0x03, 0x12, 0x34},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Unknown opcode",
			Input: `FOO 1`,
			Error: &assembler.UnknownOpcodeError{},
		},
		{
			Name:  "Case sensitive",
			Input: `nop`,
			Error: &assembler.UnknownOpcodeError{},
		},
		{
			Name:  "Too few arguments",
			Input: `ADD 1 2`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Too many arguments",
			Input: `NOP 1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Label is two bytes",
			Input: "here: LDA here",
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Number is one byte",
			Input: `JMP 1`,
			Error: &assembler.InvalidNumArgumentsError{},
		},
		{
			Name:  "Oversized",
			Input: `LDA 256`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "Oversized hex",
			Input: `LDA 0x100`,
			Error: &assembler.OversizedLiteralError{},
		},
	})
}

func TestLabel(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Backward",
			Input:  "loop:\nJMP loop",
			Output: []byte{0x03, 0x00, 0x00},
			Symbols: map[string]uint16{
				"loop": 0,
			},
		},
		{
			Name:   "Forward",
			Input:  "JMP end\nNOP\nend:\nHLT",
			Output: []byte{0x03, 0x00, 0x04, 0x00, 0xFF},
			Symbols: map[string]uint16{
				"end": 4,
			},
		},
		{
			Name:   "Same line",
			Input:  "NOP\nstart: HLT",
			Output: []byte{0x00, 0xFF},
			Symbols: map[string]uint16{
				"start": 1,
			},
		},
		{
			Name:   "Stacked",
			Input:  "NOP\na: b:\nc: HLT",
			Output: []byte{0x00, 0xFF},
			Symbols: map[string]uint16{
				"a": 1,
				"b": 1,
				"c": 1,
			},
		},
		{
			Name:   "End of program",
			Input:  "HLT\nend:",
			Output: []byte{0xFF},
			Symbols: map[string]uint16{
				"end": 1,
			},
		},
		{
			Name:   "Case sensitive",
			Input:  "a: A:\nJMP a\nJMP A",
			Output: []byte{0x03, 0x00, 0x00, 0x03, 0x00, 0x00},
			Symbols: map[string]uint16{
				"a": 0,
				"A": 0,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Unknown label",
			Input: `JMP missing`,
			Error: &assembler.UnknownLabelError{},
		},
		{
			Name:  "Redeclared label",
			Input: "loop:\nNOP\nloop:\nHLT",
			Error: &assembler.RedeclaredLabelError{},
		},
		{
			Name:  "Detached colon",
			Input: "start :\nHLT",
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Label after opcode",
			Input: "NOP loop:",
			Error: &assembler.UnexpectedTokenError{},
		},
	})
}

func TestOrg(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Org",
			Input:  ".org 0x10\nHLT",
			Output: zeros(16, 0xFF),
		},
		{
			Name:   "Uppercase",
			Input:  ".ORG 2\nHLT",
			Output: zeros(2, 0xFF),
		},
		{
			Name:   "Backward overwrite",
			Input:  "NOP\nNOP\n.org 0\nHLT",
			Output: []byte{0xFF, 0x00},
		},
		{
			Name:   "Trailing",
			Input:  "HLT\n.org 0x20",
			Output: []byte{0xFF},
		},
		{
			Name:   "Label",
			Input:  ".org 0x100\nstart: JMP start",
			Output: zeros(0x100, 0x03, 0x01, 0x00),
			Symbols: map[string]uint16{
				"start": 0x100,
			},
		},
		{
			Name:   "Last address",
			Input:  ".org 0xFFFF\nHLT",
			Output: zeros(0xFFFF, 0xFF),
		},
	})

	testFail(t, []failCase{
		{
			Name:  "No argument",
			Input: `.org`,
			Error: &assembler.InvalidKeywordArgumentError{},
		},
		{
			Name:  "Two arguments",
			Input: `.org 1 2`,
			Error: &assembler.InvalidKeywordArgumentError{},
		},
		{
			Name:  "Label argument",
			Input: "start:\n.org start",
			Error: &assembler.InvalidKeywordArgumentError{},
		},
		{
			Name:  "Oversized",
			Input: `.org 0x10000`,
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "Instruction overflow",
			Input: ".org 0xFFFF\nLDA 1",
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "Overflow reported once",
			Input: ".org 0xFFFF\nNOP\nNOP\nNOP\n.byte 1",
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "Label overflow",
			Input: ".org 0xFFFF\nNOP\nend:",
			Error: &assembler.OversizedLiteralError{},
		},
		{
			Name:  "Unknown keyword",
			Input: `.fill 1`,
			Error: &assembler.UnexpectedTokenError{},
		},
	})
}

func TestByte(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Byte",
			Input:  `.byte 0x42`,
			Output: []byte{0x42},
		},
		{
			Name:   "Uppercase",
			Input:  `.BYTE 7`,
			Output: []byte{0x07},
		},
		{
			Name:   "After opcode",
			Input:  "HLT\ndata: .byte %1010\nJMP data",
			Output: []byte{0xFF, 0x0A, 0x03, 0x00, 0x01},
			Symbols: map[string]uint16{
				"data": 1,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "No argument",
			Input: `.byte`,
			Error: &assembler.InvalidKeywordArgumentError{},
		},
		{
			Name:  "Two arguments",
			Input: `.byte 1, 2`,
			Error: &assembler.InvalidKeywordArgumentError{},
		},
		{
			Name:  "Label argument",
			Input: "x: .byte x",
			Error: &assembler.InvalidKeywordArgumentError{},
		},
		{
			Name:  "Oversized",
			Input: `.byte 256`,
			Error: &assembler.OversizedLiteralError{},
		},
	})
}

func TestComment(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "Semicolon",
			Input:  "; header\nNOP ; trailing\nHLT;",
			Output: []byte{0x00, 0xFF},
		},
		{
			Name:   "Slashes",
			Input:  "// header\nNOP // trailing\nHLT//",
			Output: []byte{0x00, 0xFF},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Trailing comma before comment",
			Input: "LDA 1, ; comment",
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Single slash",
			Input: "NOP / comment",
			Error: &assembler.UnexpectedTokenError{},
		},
	})
}

func TestLineEndings(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:   "CRLF",
			Input:  "NOP\r\nstart:\r\nJMP start\r\n",
			Output: []byte{0x00, 0x03, 0x00, 0x01},
			Symbols: map[string]uint16{
				"start": 1,
			},
		},
		{
			Name:   "No trailing newline",
			Input:  "NOP\nHLT",
			Output: []byte{0x00, 0xFF},
		},
	})
}

func TestSyntax(t *testing.T) {
	testFail(t, []failCase{
		{
			Name:  "Negative",
			Input: `LDA -1`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Trailing comma",
			Input: `ADD 1, 2,`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Double comma",
			Input: `ADD 1,, 2`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Leading comma",
			Input: `ADD , 1`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Empty hex",
			Input: `LDA 0x`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Bad digits",
			Input: `LDA 12ab`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Literal overflow",
			Input: `LDA 99999999999999999999999`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Literal statement",
			Input: `42`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Bare dot",
			Input: `. 1`,
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Non-ASCII",
			Input: "LDA é",
			Error: &assembler.UnexpectedTokenError{},
		},
		{
			Name:  "Stops at first syntax error",
			Input: "FOO 1\nLDA -1\nJMP missing\nADD -",
			Error: &assembler.UnexpectedTokenError{},
		},
	})
}

func TestMultipleErrors(t *testing.T) {
	input := "FOO 1\nJMP missing\nADD 1 2\nLDA 300\n"

	_, err := assembler.New(testConfig).Assemble(input)

	errs, ok := assembler.AsErrorList(err)

	if !ok {
		t.Fatalf("Expected *assembler.ErrorList\nhave:%T", err)
	}

	want := []assembler.ErrorKind{
		assembler.ERROR_OPCODE_DNE,
		assembler.ERROR_LABEL_DNE,
		assembler.ERROR_WRONG_NUM_ARGS,
		assembler.ERROR_OUT_OF_RANGE,
	}

	var have []assembler.ErrorKind
	for diag := range errs.All() {
		have = append(have, diag.Kind())
	}

	if !reflect.DeepEqual(have, want) {
		t.Fatalf("Diagnostic order mismatch\nwant:%v\nhave:%v", want, have)
	}

	if errs.Source != input {
		t.Fatal("Error list missing source code")
	}

	var labelErr *assembler.UnknownLabelError

	if !errors.As(err, &labelErr) {
		t.Fatal("errors.As failed to find *assembler.UnknownLabelError")
	}

	if line, column := errs.Locate(labelErr); line != 2 || column != 5 {
		t.Fatalf("Location mismatch\nwant:02:05\nhave:%02d:%02d", line, column)
	}

	if !strings.Contains(err.Error(), "02:05: Label 'missing' does not exist") {
		t.Fatalf("Error message missing location\nhave:%s", err.Error())
	}
}

func TestPositions(t *testing.T) {
	type positionCase struct {
		Name     string
		Input    string
		Position assembler.Position
		Line     int
		Column   int
	}

	tests := []positionCase{
		{"Unknown opcode", "NOP\n  FOO 1", assembler.Position{Start: 6, End: 9}, 2, 3},
		{"Wrong arity", "ADD 1 2", assembler.Position{Start: 0, End: 7}, 1, 1},
		{"Unknown label", "JMP missing", assembler.Position{Start: 4, End: 11}, 1, 5},
		{"Redeclared", "loop:\nNOP\nloop:", assembler.Position{Start: 10, End: 14}, 3, 1},
		{"Oversized", "LDA 0x1FF", assembler.Position{Start: 4, End: 9}, 1, 5},
		{"Trailing comma", "ADD 1, 2,", assembler.Position{Start: 9, End: 9}, 1, 10},
		{"Invalid character", "LDA é", assembler.Position{Start: 4, End: 6}, 1, 5},
		{"Keyword", "NOP\n.byte", assembler.Position{Start: 4, End: 9}, 2, 1},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := assembler.New(testConfig).Assemble(test.Input)
			errs, ok := assembler.AsErrorList(err)

			if !ok || errs.Len() != 1 {
				t.Fatalf("Expected a single diagnostic\nhave:%v", err)
			}

			diag := errs.Errors()[0]

			if have := diag.GetPosition(); have != test.Position {
				t.Fatalf("Position mismatch\nwant:%v\nhave:%v", test.Position, have)
			}

			line, column := errs.Locate(diag)

			if line != test.Line || column != test.Column {
				t.Fatalf(
					"Location mismatch\nwant:%02d:%02d\nhave:%02d:%02d",
					test.Line,
					test.Column,
					line,
					column,
				)
			}
		})
	}
}

func TestRedeclaredLabel(t *testing.T) {
	_, err := assembler.New(testConfig).Assemble("loop:\nNOP\nloop:\nJMP loop")

	var redeclared *assembler.RedeclaredLabelError

	if !errors.As(err, &redeclared) {
		t.Fatalf("Expected *assembler.RedeclaredLabelError\nhave:%v", err)
	}

	if want := (assembler.Position{Start: 0, End: 4}); redeclared.First != want {
		t.Fatalf("First declaration mismatch\nwant:%v\nhave:%v", want, redeclared.First)
	}

	if want := (assembler.Position{Start: 10, End: 14}); redeclared.Position != want {
		t.Fatalf("Redeclaration mismatch\nwant:%v\nhave:%v", want, redeclared.Position)
	}
}

func TestWrongNumArgs(t *testing.T) {
	_, err := assembler.New(testConfig).Assemble("ADD 1 2")

	var wrong *assembler.InvalidNumArgumentsError

	if !errors.As(err, &wrong) {
		t.Fatalf("Expected *assembler.InvalidNumArgumentsError\nhave:%v", err)
	}

	if wrong.Required != 3 || wrong.Received != 2 {
		t.Fatalf(
			"Argument count mismatch\nwant:3/2\nhave:%d/%d",
			wrong.Required,
			wrong.Received,
		)
	}
}

func TestUnexpectedToken(t *testing.T) {
	_, err := assembler.New(testConfig).Assemble("LDA 1 -")

	var unexpected *assembler.UnexpectedTokenError

	if !errors.As(err, &unexpected) {
		t.Fatalf("Expected *assembler.UnexpectedTokenError\nhave:%v", err)
	}

	if unexpected.Forbidden != "-" {
		t.Fatalf("Forbidden token mismatch\nwant:-\nhave:%s", unexpected.Forbidden)
	}

	want := []assembler.TokenType{
		assembler.TOKEN_LITERAL,
		assembler.TOKEN_IDENT,
		assembler.TOKEN_COMMA,
		assembler.TOKEN_NEWLINE,
	}

	if !reflect.DeepEqual(unexpected.Expected, want) {
		t.Fatalf("Expected tokens mismatch\nwant:%v\nhave:%v", want, unexpected.Expected)
	}
}

func TestIdempotent(t *testing.T) {
	asm := assembler.New(testConfig)

	first, err := asm.Assemble(basicProgram)

	if err != nil {
		t.Fatal(err)
	}

	if _, err := asm.Assemble("loop:\nloop:\nJMP missing"); err == nil {
		t.Fatal("Expected failing assembly")
	}

	second, err := asm.Assemble(basicProgram)

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("Reassembly mismatch\nwant:% X\nhave:% X", first, second)
	}
}

func TestForwardReference(t *testing.T) {
	asm := assembler.New(testConfig)

	labelled, err := asm.Assemble("JMP end\nNOP\nend: HLT")

	if err != nil {
		t.Fatal(err)
	}

	literal, err := asm.Assemble("JMP 0x00 0x04\nNOP\nHLT")

	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(labelled, literal) {
		t.Fatalf("Forward reference mismatch\nwant:% X\nhave:% X", literal, labelled)
	}
}

func TestAst(t *testing.T) {
	asm := assembler.New(testConfig)
	result, ast, err := asm.AssembleWithAst(basicProgram)

	if err != nil {
		t.Fatal(err)
	}

	size := 0
	addresses := make([]uint16, 0, len(ast.Instructions))

	for _, ins := range ast.Instructions {
		size += ins.BinaryLen()
		addresses = append(addresses, ins.Address)
	}

	if size != len(result) {
		t.Fatalf("Binary length mismatch\nwant:%d\nhave:%d", len(result), size)
	}

	if want := []uint16{0, 1, 3, 6, 7, 7, 11}; !reflect.DeepEqual(addresses, want) {
		t.Fatalf("Address mismatch\nwant:%v\nhave:%v", want, addresses)
	}

	ins := ast.Instructions[2]

	if ins.Type != assembler.INSTRUCTION_OPCODE || ins.Mnemonic != "JMP" {
		t.Fatalf("Instruction mismatch\nwant:JMP start\nhave:%v", ins)
	}

	if arg := ins.Arguments[0]; arg.Type != assembler.ARGUMENT_LABEL || arg.Label != "start" {
		t.Fatalf("Argument mismatch\nwant:start\nhave:%v", arg)
	}

	// The returned Ast is independent of the assembler
	ast.Symbols["start"] = 0
	ast.Instructions[0].Mnemonic = "HLT"

	_, again, err := asm.AssembleWithAst(basicProgram)

	if err != nil {
		t.Fatal(err)
	}

	if addr, _ := again.Lookup("start"); addr != 7 {
		t.Fatalf("Symbol mismatch\nwant:0x0007\nhave:%#04x", addr)
	}

	clone := again.Clone()
	clone.Instructions[3].Arguments = append(clone.Instructions[3].Arguments, assembler.Argument{})
	clone.Instructions[5].Arguments[0].Value = 9

	if again.Instructions[5].Arguments[0].Value != 1 {
		t.Fatal("Clone shares arguments with its source")
	}
}

func stripPositions(ast *assembler.Ast) []assembler.Instruction {
	result := ast.Clone().Instructions

	for i := range result {
		result[i].Position = assembler.Position{}
		result[i].NamePosition = assembler.Position{}

		for j := range result[i].Arguments {
			result[i].Arguments[j].Position = assembler.Position{}
		}
	}

	return result
}

func TestPrettyPrint(t *testing.T) {
	input := `.ORG $10 ; entry
start: LDA 0xCA
	ADD 1, %101 0b11
	JMP start
data:
	.byte 255
`

	ast, err := assembler.Parse(input)

	if err != nil {
		t.Fatal(err)
	}

	want := "\t.org 0x10\n" +
		"start:\n" +
		"\tLDA 0xCA\n" +
		"\tADD 1, 0b101, 0b11\n" +
		"\tJMP start\n" +
		"data:\n" +
		"\t.byte 255\n"

	have := ast.String()

	if have != want {
		t.Fatalf("Pretty print mismatch\nwant:\n%s\nhave:\n%s", want, have)
	}

	reparsed, err := assembler.Parse(have)

	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(stripPositions(ast), stripPositions(reparsed)) {
		t.Fatalf("Round trip mismatch\nwant:\n%s\nhave:\n%s", have, reparsed.String())
	}
}

func TestParseError(t *testing.T) {
	ast, err := assembler.Parse("NOP\nADD 1,,2")

	if ast != nil {
		t.Fatal("Parse returned an Ast alongside an error")
	}

	errs, ok := assembler.AsErrorList(err)

	if !ok || errs.Len() != 1 {
		t.Fatalf("Expected a single diagnostic\nhave:%v", err)
	}

	if kind := errs.Errors()[0].Kind(); kind != assembler.ERROR_UNEXPECTED {
		t.Fatalf("Kind mismatch\nwant:%v\nhave:%v", assembler.ERROR_UNEXPECTED, kind)
	}

	// Parsing does not consult an opcode table
	if _, err := assembler.Parse("FOO 1 2 3\nJMP missing"); err != nil {
		t.Fatal(err)
	}
}

func TestSetConfig(t *testing.T) {
	asm := assembler.New(testConfig)

	if _, err := asm.Assemble("OUT 1"); err == nil {
		t.Fatal("Expected unknown opcode")
	}

	asm.SetConfig(config.New([]config.Opcode{
		{Mnemonic: "OUT", Binary: 0x42, NumArgs: 1},
	}))

	result, err := asm.Assemble("OUT 1")

	if err != nil {
		t.Fatal(err)
	}

	if want := []byte{0x42, 0x01}; !bytes.Equal(result, want) {
		t.Fatalf("Binary mismatch\nwant:% X\nhave:% X", want, result)
	}
}

func TestNilConfig(t *testing.T) {
	_, err := assembler.New(nil).Assemble("NOP")

	var unknown *assembler.UnknownOpcodeError

	if !errors.As(err, &unknown) {
		t.Fatalf("Expected *assembler.UnknownOpcodeError\nhave:%v", err)
	}
}

func TestSymTable(t *testing.T) {
	_, ast, err := assembler.New(testConfig).AssembleWithAst(basicProgram)

	if err != nil {
		t.Fatal(err)
	}

	table := ast.SymTable("test.asm")

	want := assembler.SymTable{
		Source: "test.asm",
		Symbols: map[uint16]int64{
			0x0000: 0,
			0x0001: 4,
			0x0003: 13,
			0x0006: 23,
			0x0007: 34,
			0x000B: 44,
		},
		Labels: map[uint16]string{
			0x0007: "start",
		},
	}

	if !reflect.DeepEqual(*table, want) {
		t.Fatalf("Symtable mismatch\nwant:%v\nhave:%v", want, *table)
	}
}
