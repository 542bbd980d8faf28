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


package encoding

import (
	"errors"
	"strconv"
	"strings"
)

var ErrEmptyLiteral = errors.New("Empty numeric literal")

// Decodes a hexidecimal string in the formats: 0xFF, 0XFF, $FF
func DecodeHex(s string) (uint64, error) {
	if strings.HasPrefix(s, "$") {
		s = s[1:]
	} else if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	} else {
		return 0, errors.New("Invalid hex string")
	}

	return decode(s, 16)
}

// Decodes a binary string in the formats: 0b1010, 0B1010, %1010
func DecodeBin(s string) (uint64, error) {
	if strings.HasPrefix(s, "%") {
		s = s[1:]
	} else if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		s = s[2:]
	} else {
		return 0, errors.New("Invalid binary string")
	}

	return decode(s, 2)
}

// Decodes a base-10 string in the format: 123
func DecodeInt(s string) (uint64, error) {
	return decode(s, 10)
}

// Decodes a numeric literal of any supported radix, returning the value and
// the radix it was written in.
func DecodeLiteral(s string) (uint64, int, error) {
	switch {
	case strings.HasPrefix(s, "$"),
		strings.HasPrefix(s, "0x"),
		strings.HasPrefix(s, "0X"):
		value, err := DecodeHex(s)
		return value, 16, err
	case strings.HasPrefix(s, "%"),
		strings.HasPrefix(s, "0b"),
		strings.HasPrefix(s, "0B"):
		value, err := DecodeBin(s)
		return value, 2, err
	}

	value, err := DecodeInt(s)
	return value, 10, err
}

func decode(digits string, base int) (uint64, error) {
	if digits == "" {
		return 0, ErrEmptyLiteral
	}

	result, err := strconv.ParseUint(digits, base, 64)

	if err != nil {
		return 0, err
	}

	return result, nil
}

// Splits a memory address into its big-endian byte pair
func SplitAddress(addr uint16) (hi byte, lo byte) {
	return byte(addr >> 8), byte(addr & 0xFF)
}

func JoinAddress(hi byte, lo byte) uint16 {
	return (uint16(hi) << 8) | uint16(lo)
}
