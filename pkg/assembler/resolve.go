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
)

// orgTarget reports where a .org statement moves the location counter. Only a
// single numeric argument that fits in an address is honoured.
func orgTarget(ins *Instruction) (int, bool) {
	if len(ins.Arguments) != 1 {
		return 0, false
	}

	arg := &ins.Arguments[0]

	if arg.Type != ARGUMENT_NUMBER || arg.Value > math.MaxUint16 {
		return 0, false
	}

	return int(arg.Value), true
}

// resolve is the first pass. It binds every label to the location counter at
// its declaration, records each instruction's address and reports problems
// that do not depend on label values.
func (asm *Assembler) resolve(ast *Ast, errs *ErrorList) {
	var lc int
	var overflowed bool

	overflow := func(ins *Instruction, addr int) {
		if !overflowed {
			overflowed = true
			errs.Push(&OversizedLiteralError{ins.Position, uint64(addr), 16})
		}
	}

	for i := range ast.Instructions {
		ins := &ast.Instructions[i]
		ins.Address = uint16(lc)

		switch ins.Type {
		case INSTRUCTION_LABEL:
			if first, exists := asm.spans[ins.Label]; exists {
				errs.Push(&RedeclaredLabelError{
					ins.NamePosition, first, ins.Label,
				})

				continue
			}

			if lc > math.MaxUint16 {
				overflow(ins, lc)
			}

			asm.symbols[ins.Label] = uint16(lc)
			asm.spans[ins.Label] = ins.NamePosition

		case INSTRUCTION_OPCODE:
			opcode, exists := asm.config.GetOpcode(ins.Mnemonic)

			if !exists {
				errs.Push(&UnknownOpcodeError{ins.NamePosition, ins.Mnemonic})
			} else if size := ins.BinaryLen() - 1; size != int(opcode.NumArgs) {
				errs.Push(&InvalidNumArgumentsError{
					ins.Position, ins.Mnemonic, int(opcode.NumArgs), size,
				})
			}

		case INSTRUCTION_KEYWORD:
			if len(ins.Arguments) != 1 || ins.Arguments[0].Type != ARGUMENT_NUMBER {
				errs.Push(&InvalidKeywordArgumentError{ins.Position, ins.Keyword})
			} else if arg := &ins.Arguments[0]; ins.Keyword == KEYWORD_ORG {
				if arg.Value > math.MaxUint16 {
					errs.Push(&OversizedLiteralError{arg.Position, arg.Value, 16})
				}
			} else if arg.Value > math.MaxUint8 {
				errs.Push(&OversizedLiteralError{arg.Position, arg.Value, 8})
			}

			if target, ok := orgTarget(ins); ins.Keyword == KEYWORD_ORG && ok {
				lc = target
				continue
			}
		}

		if size := ins.BinaryLen(); size > 0 {
			if lc+size-1 > math.MaxUint16 {
				overflow(ins, lc+size-1)
			}

			lc += size
		}
	}
}
