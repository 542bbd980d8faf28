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
	"maps"

	"github.com/lassandro/nand7400/pkg/config"
)

// Assembler turns NAND7400 source into machine code using the opcode table it
// was configured with. An Assembler may be reused but not shared between
// goroutines during a call.
type Assembler struct {
	config *config.AssemblerConfig

	// Scratch state for a single assembly
	symbols map[string]uint16
	spans   map[string]Position
	source  string
}

func New(cfg *config.AssemblerConfig) *Assembler {
	return &Assembler{config: cfg}
}

func (asm *Assembler) Config() *config.AssemblerConfig {
	return asm.config
}

func (asm *Assembler) SetConfig(cfg *config.AssemblerConfig) {
	asm.config = cfg
}

// Assemble returns the program's bytes starting at address 0. On failure the
// error is an *ErrorList with every diagnostic found, ordered by position.
func (asm *Assembler) Assemble(source string) ([]byte, error) {
	result, _, err := asm.AssembleWithAst(source)
	return result, err
}

// AssembleWithAst is Assemble but also returns the parsed program with its
// symbol table. The Ast belongs to the caller.
func (asm *Assembler) AssembleWithAst(source string) ([]byte, *Ast, error) {
	defer asm.reset()

	asm.source = source
	asm.symbols = make(map[string]uint16)
	asm.spans = make(map[string]Position)

	errs := &ErrorList{}

	ast, err := parse(source)

	if err != nil {
		errs.Push(err)
		return nil, nil, errs.WithSourceCode(asm.source)
	}

	asm.resolve(ast, errs)
	result := asm.encode(ast, errs)

	if !errs.IsEmpty() {
		errs.Sort()
		return nil, nil, errs.WithSourceCode(asm.source)
	}

	ast.Symbols = maps.Clone(asm.symbols)

	return result, ast, nil
}

func (asm *Assembler) reset() {
	asm.symbols = nil
	asm.spans = nil
	asm.source = ""
}
