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


package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

var ErrNoOpcodeTable = errors.New("script does not define an 'opcodes' table")

// LoadLua evaluates a Lua chunk and builds the opcode table from its global
// `opcodes`, an array of {mnemonic = "...", binary = n, num_args = n}
// records. The chunk runs without any standard library.
func LoadLua(name string, source string) (*AssemblerConfig, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	fn, err := L.Load(strings.NewReader(source), name)

	if err != nil {
		return nil, fmt.Errorf("loading opcode script: %w", err)
	}

	L.Push(fn)

	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, fmt.Errorf("running opcode script: %w", err)
	}

	table, ok := L.GetGlobal("opcodes").(*lua.LTable)

	if !ok {
		return nil, ErrNoOpcodeTable
	}

	opcodes := make([]Opcode, 0, table.Len())

	for i := 1; i <= table.Len(); i++ {
		entry, ok := table.RawGetInt(i).(*lua.LTable)

		if !ok {
			return nil, &FieldError{i - 1, "entry", "table"}
		}

		opcode, err := luaOpcode(i-1, entry)

		if err != nil {
			return nil, err
		}

		opcodes = append(opcodes, opcode)
	}

	return New(opcodes), nil
}

func luaOpcode(index int, entry *lua.LTable) (Opcode, error) {
	var opcode Opcode

	mnemonic, ok := entry.RawGetString("mnemonic").(lua.LString)

	if !ok || !isIdentifier(string(mnemonic)) {
		return opcode, &FieldError{index, "mnemonic", "identifier"}
	}

	binary, ok := luaInteger(entry.RawGetString("binary"), math.MaxUint8)

	if !ok {
		return opcode, &FieldError{index, "binary", "integer in 0..255"}
	}

	numArgs, ok := luaInteger(entry.RawGetString("num_args"), math.MaxUint32)

	if !ok {
		return opcode, &FieldError{index, "num_args", "non-negative integer"}
	}

	opcode.Mnemonic = string(mnemonic)
	opcode.Binary = uint8(binary)
	opcode.NumArgs = uint32(numArgs)

	return opcode, nil
}

func luaInteger(value lua.LValue, limit uint64) (uint64, bool) {
	number, ok := value.(lua.LNumber)

	if !ok {
		return 0, false
	}

	f := float64(number)

	if f < 0 || f != math.Trunc(f) || f > float64(limit) {
		return 0, false
	}

	return uint64(f), true
}
