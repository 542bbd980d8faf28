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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Opcode struct {
	Mnemonic string `json:"mnemonic"`
	Binary   uint8  `json:"binary"`
	NumArgs  uint32 `json:"num_args"`
}

// AssemblerConfig is the opcode table an assembler is driven by. It is not
// modified after construction.
type AssemblerConfig struct {
	opcodes []Opcode
	index   map[string]int
}

type FieldError struct {
	Index  int
	Field  string
	Reason string
}

func (err *FieldError) Error() string {
	return fmt.Sprintf(
		"opcode %d: invalid %s\n\twant:%s",
		err.Index,
		err.Field,
		err.Reason,
	)
}

func New(opcodes []Opcode) *AssemblerConfig {
	cfg := &AssemblerConfig{
		opcodes: make([]Opcode, len(opcodes)),
		index:   make(map[string]int, len(opcodes)),
	}

	copy(cfg.opcodes, opcodes)

	// Later entries shadow earlier ones with the same mnemonic
	for i, opcode := range cfg.opcodes {
		cfg.index[opcode.Mnemonic] = i
	}

	return cfg
}

func (cfg *AssemblerConfig) GetOpcode(mnemonic string) (Opcode, bool) {
	if cfg == nil {
		return Opcode{}, false
	}

	i, exists := cfg.index[mnemonic]

	if !exists {
		return Opcode{}, false
	}

	return cfg.opcodes[i], true
}

func (cfg *AssemblerConfig) Opcodes() []Opcode {
	if cfg == nil {
		return nil
	}

	result := make([]Opcode, len(cfg.opcodes))
	copy(result, cfg.opcodes)

	return result
}

// Duplicates lists, in configuration order, every mnemonic declared more
// than once.
func (cfg *AssemblerConfig) Duplicates() []string {
	if cfg == nil {
		return nil
	}

	var result []string
	seen := make(map[string]int, len(cfg.opcodes))

	for _, opcode := range cfg.opcodes {
		seen[opcode.Mnemonic]++

		if seen[opcode.Mnemonic] == 2 {
			result = append(result, opcode.Mnemonic)
		}
	}

	return result
}

type document struct {
	Opcodes []Opcode `json:"opcodes"`
}

func (cfg *AssemblerConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{Opcodes: cfg.Opcodes()})
}

func (cfg *AssemblerConfig) UnmarshalJSON(data []byte) error {
	var doc document

	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	for i, opcode := range doc.Opcodes {
		if !isIdentifier(opcode.Mnemonic) {
			return &FieldError{i, "mnemonic", "identifier"}
		}
	}

	*cfg = *New(doc.Opcodes)

	return nil
}

func LoadJSON(input io.Reader) (*AssemblerConfig, error) {
	var cfg AssemblerConfig

	if err := json.NewDecoder(input).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding opcode table: %w", err)
	}

	return &cfg, nil
}

// LoadFile reads an opcode table from disk. Files ending in .lua are
// evaluated as Lua scripts, anything else is decoded as JSON.
func LoadFile(path string) (*AssemblerConfig, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".lua") {
		return LoadLua(filepath.Base(path), string(data))
	}

	return LoadJSON(bytes.NewReader(data))
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
