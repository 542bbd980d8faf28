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


// Package concurrent wraps the assembler for use from many goroutines at once.
// Calls are serialised on a mutex, results are detached from the wrapped
// assembler, and diagnostics travel in a single ErrorCollection.
package concurrent

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/lassandro/nand7400/pkg/assembler"
	"github.com/lassandro/nand7400/pkg/config"
)

var ErrPoisoned = errors.New("assembler is unusable after a panic in an earlier call")

type kernel interface {
	AssembleWithAst(source string) ([]byte, *assembler.Ast, error)
	SetConfig(cfg *config.AssemblerConfig)
}

type Assembler struct {
	mu       sync.Mutex
	inner    kernel
	poisoned bool
}

func New(cfg *config.AssemblerConfig) *Assembler {
	return &Assembler{inner: assembler.New(cfg)}
}

// with runs fn while holding the lock. If fn panics the panic continues up
// the stack and every later call returns ErrPoisoned.
func (asm *Assembler) with(fn func()) error {
	asm.mu.Lock()
	defer asm.mu.Unlock()

	if asm.poisoned {
		return ErrPoisoned
	}

	completed := false

	defer func() {
		if !completed {
			asm.poisoned = true
		}
	}()

	fn()
	completed = true

	return nil
}

func (asm *Assembler) SetConfig(cfg *config.AssemblerConfig) error {
	return asm.with(func() {
		asm.inner.SetConfig(cfg)
	})
}

func (asm *Assembler) Assemble(source string) ([]byte, error) {
	result, _, err := asm.AssembleWithAst(source)
	return result, err
}

func (asm *Assembler) AssembleWithAst(source string) ([]byte, *Ast, error) {
	var result []byte
	var tree *assembler.Ast
	var err error

	if poisoned := asm.with(func() {
		result, tree, err = asm.inner.AssembleWithAst(source)
	}); poisoned != nil {
		return nil, nil, poisoned
	}

	if err != nil {
		return nil, nil, collect(err)
	}

	return result, &Ast{ast: tree}, nil
}

// ErrorCollection carries every diagnostic of a failed assembly.
type ErrorCollection struct {
	Errors []assembler.Diagnostic
	Source string
}

func collect(err error) error {
	list, ok := assembler.AsErrorList(err)

	if !ok {
		return err
	}

	return &ErrorCollection{Errors: list.Errors(), Source: list.Source}
}

func (err *ErrorCollection) Error() string {
	if len(err.Errors) == 1 {
		return "1 assembler error was found"
	}

	return fmt.Sprintf("%d assembler errors were found", len(err.Errors))
}

func (err *ErrorCollection) Unwrap() []error {
	result := make([]error, len(err.Errors))

	for i, diag := range err.Errors {
		result[i] = diag
	}

	return result
}

// Ast is a read-only handle on an assembled program. Accessors return copies.
type Ast struct {
	ast *assembler.Ast
}

func NewAst() *Ast {
	return &Ast{ast: &assembler.Ast{Symbols: make(map[string]uint16)}}
}

func (handle *Ast) Instructions() []assembler.Instruction {
	return handle.ast.Clone().Instructions
}

func (handle *Ast) Symbols() map[string]uint16 {
	return maps.Clone(handle.ast.Symbols)
}

func (handle *Ast) Lookup(label string) (uint16, bool) {
	return handle.ast.Lookup(label)
}

func (handle *Ast) String() string {
	return handle.ast.String()
}
