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
	"math"

	"github.com/lassandro/nand7400/pkg/encoding"
)

type emitter struct {
	output []byte
	pc     int
}

// write stores b at the write pointer and advances it. Bytes past the end of
// the address space are dropped; the first pass has already reported them.
func (e *emitter) write(b ...byte) {
	for _, value := range b {
		if e.pc <= math.MaxUint16 {
			if e.pc >= len(e.output) {
				e.output = append(e.output, make([]byte, e.pc+1-len(e.output))...)
			}

			e.output[e.pc] = value
		}

		e.pc++
	}
}

// encode is the second pass. It writes every instruction's bytes, filling in
// label addresses from the symbol table built by resolve.
func (asm *Assembler) encode(ast *Ast, errs *ErrorList) []byte {
	e := emitter{output: make([]byte, 0, 64)}

	for i := range ast.Instructions {
		ins := &ast.Instructions[i]

		switch ins.Type {
		case INSTRUCTION_OPCODE:
			opcode, exists := asm.config.GetOpcode(ins.Mnemonic)

			if exists {
				e.write(opcode.Binary)
			} else {
				e.write(0xFF)
			}

			for j := range ins.Arguments {
				asm.encodeArgument(&e, &ins.Arguments[j], errs)
			}

		case INSTRUCTION_KEYWORD:
			switch ins.Keyword {
			case KEYWORD_ORG:
				if target, ok := orgTarget(ins); ok {
					e.pc = target
				}
			case KEYWORD_BYTE:
				if len(ins.Arguments) == 1 && ins.Arguments[0].Type == ARGUMENT_NUMBER {
					e.write(byte(ins.Arguments[0].Value))
				} else {
					e.write(0xFF)
				}
			}
		}
	}

	return e.output
}

func (asm *Assembler) encodeArgument(e *emitter, arg *Argument, errs *ErrorList) {
	switch arg.Type {
	case ARGUMENT_NUMBER:
		if arg.Value > math.MaxUint8 {
			errs.Push(&OversizedLiteralError{arg.Position, arg.Value, 8})
		}

		e.write(byte(arg.Value))

	case ARGUMENT_LABEL:
		addr, exists := asm.symbols[arg.Label]

		if !exists {
			errs.Push(&UnknownLabelError{arg.Position, arg.Label})
			e.write(0xFF, 0xFF)

			return
		}

		e.write(encoding.SplitAddress(addr))
	}
}
