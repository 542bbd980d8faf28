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
	"fmt"
	"maps"
	"slices"
	"strings"
)

type Argument struct {
	Type     ArgumentType
	Position Position

	// ARGUMENT_NUMBER
	Value uint64
	Radix int

	// ARGUMENT_LABEL
	Label string
}

// Width is the number of bytes the argument occupies after the opcode.
func (arg Argument) Width() int {
	if arg.Type == ARGUMENT_LABEL {
		return LABEL_SIZE
	}

	return 1
}

func (arg Argument) String() string {
	if arg.Type == ARGUMENT_LABEL {
		return arg.Label
	}

	switch arg.Radix {
	case 16:
		return fmt.Sprintf("0x%X", arg.Value)
	case 2:
		return fmt.Sprintf("0b%b", arg.Value)
	}

	return fmt.Sprintf("%d", arg.Value)
}

type Instruction struct {
	Type InstructionType

	// Whole statement, and the label, mnemonic or keyword token alone
	Position     Position
	NamePosition Position

	Label     string
	Mnemonic  string
	Keyword   KeywordType
	Arguments []Argument

	// Location counter when the instruction was reached in the first pass
	Address uint16
}

// BinaryLen is the number of bytes the instruction emits.
func (ins Instruction) BinaryLen() int {
	switch ins.Type {
	case INSTRUCTION_OPCODE:
		size := 1

		for i := range ins.Arguments {
			size += ins.Arguments[i].Width()
		}

		return size
	case INSTRUCTION_KEYWORD:
		if ins.Keyword == KEYWORD_BYTE {
			return 1
		}
	}

	return 0
}

func (ins Instruction) String() string {
	var builder strings.Builder

	switch ins.Type {
	case INSTRUCTION_LABEL:
		return ins.Label + ":"
	case INSTRUCTION_OPCODE:
		builder.WriteString(ins.Mnemonic)
	case INSTRUCTION_KEYWORD:
		builder.WriteString(ins.Keyword.String())
	default:
		return "<invalid>"
	}

	for i, arg := range ins.Arguments {
		if i == 0 {
			builder.WriteByte(' ')
		} else {
			builder.WriteString(", ")
		}

		builder.WriteString(arg.String())
	}

	return builder.String()
}

type Ast struct {
	Instructions []Instruction
	Symbols      map[string]uint16
}

func (ast *Ast) Lookup(label string) (uint16, bool) {
	addr, exists := ast.Symbols[label]
	return addr, exists
}

// String formats the program as source text, one statement per line with
// labels flush left and everything else indented.
func (ast *Ast) String() string {
	var builder strings.Builder

	for _, ins := range ast.Instructions {
		if ins.Type != INSTRUCTION_LABEL {
			builder.WriteByte('\t')
		}

		builder.WriteString(ins.String())
		builder.WriteByte('\n')
	}

	return builder.String()
}

func (ast *Ast) Clone() *Ast {
	result := &Ast{
		Instructions: make([]Instruction, len(ast.Instructions)),
		Symbols:      maps.Clone(ast.Symbols),
	}

	for i, ins := range ast.Instructions {
		ins.Arguments = slices.Clone(ins.Arguments)
		result.Instructions[i] = ins
	}

	if result.Symbols == nil {
		result.Symbols = make(map[string]uint16)
	}

	return result
}

// SymTable maps emitted addresses back to the source for debugging tools.
type SymTable struct {
	Source string

	// Address of each emitting instruction to the byte offset of its statement
	Symbols map[uint16]int64

	// Address to the first label declared there
	Labels map[uint16]string
}

func (ast *Ast) SymTable(source string) *SymTable {
	table := &SymTable{
		Source:  source,
		Symbols: make(map[uint16]int64),
		Labels:  make(map[uint16]string),
	}

	for _, ins := range ast.Instructions {
		switch {
		case ins.Type == INSTRUCTION_LABEL:
			if _, exists := table.Labels[ins.Address]; !exists {
				table.Labels[ins.Address] = ins.Label
			}
		case ins.BinaryLen() > 0:
			table.Symbols[ins.Address] = int64(ins.Position.Start)
		}
	}

	return table
}
