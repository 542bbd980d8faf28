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


package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lassandro/nand7400/pkg/assembler"
	"github.com/lassandro/nand7400/pkg/config"
)

var helpvar bool
var debugvar bool
var hexvar bool
var astvar bool
var outvar string
var configvar string

const usage = "nand7400-asm -config opcodes.{json,lua} [-debug] [-hex] [-ast] [-out outfile] [filename]"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&configvar, "config", "",
		"Specifies the opcode table, either a JSON document or a Lua script "+
			"defining a global 'opcodes' table",
	)
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.n7db'",
	)
	flag.BoolVar(
		&hexvar, "hex", false,
		"Writes the output as a hex listing instead of raw bytes",
	)
	flag.BoolVar(
		&astvar, "ast", false,
		"Prints the parsed program to stdout after a successful assembly",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
}

func nand7400_asm() int {
	flag.Parse()

	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	if configvar == "" {
		log.Println(usage)
		return 1
	}

	cfg, err := config.LoadFile(configvar)

	if err != nil {
		log.Println(err)
		return 1
	}

	for _, mnemonic := range cfg.Duplicates() {
		log.Printf("opcode '%s' is declared more than once, using the last", mnemonic)
	}

	args := flag.Args()
	extension := ".bin"

	if hexvar {
		extension = ".hex"
	}

	var infile string
	var input io.Reader

	if stat, _ := os.Stdin.Stat(); len(args) == 0 && stat != nil && stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		infile = "<stdin>"

		if outvar == "" {
			outvar = "out" + extension
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else {
			if stat.IsDir() {
				log.Printf("%s is not a valid NAND7400 assembly file", filename)
				return 1
			}
		}

		input = file
		infile = filename

		if outvar == "" {
			outvar = strings.TrimSuffix(filename, filepath.Ext(filename)) + extension
		}
	}

	log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", infile))

	data, err := io.ReadAll(input)

	if err != nil {
		log.Println(err)
		return 1
	}

	source := string(data)
	result, ast, err := assembler.New(cfg).AssembleWithAst(source)

	if err != nil {
		errs, ok := assembler.AsErrorList(err)

		if !ok {
			log.Println(err)
			return 1
		}

		color := isTerminal(os.Stderr.Fd())
		width := terminalWidth(os.Stderr.Fd())

		for diag := range errs.All() {
			log.Print(formatDiagnostic(errs, diag, color, width))
		}

		return 1
	}

	if astvar {
		fmt.Print(ast.String())
	}

	if err := writeOutput(outvar, result, hexvar); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		filename := filepath.Join(
			filepath.Dir(outvar),
			strings.TrimSuffix(filepath.Base(outvar), filepath.Ext(outvar))+".n7db",
		)

		symsource := ""

		if input != os.Stdin {
			if symsource, err = filepath.Abs(args[0]); err != nil {
				log.Println(err)
				symsource = ""
			}
		}

		if err := writeSymTable(filename, ast.SymTable(symsource)); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func writeOutput(filename string, result []byte, listing bool) error {
	if !listing {
		return os.WriteFile(filename, result, 0666)
	}

	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	if err := writeHex(file, result); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// writeHex lists result sixteen bytes to a line, each line prefixed with the
// address of its first byte.
func writeHex(w io.Writer, result []byte) error {
	for addr := 0; addr < len(result); addr += 16 {
		line := result[addr:min(addr+16, len(result))]

		if _, err := fmt.Fprintf(w, "%04X: % X\n", addr, line); err != nil {
			return err
		}
	}

	return nil
}

func writeSymTable(filename string, table *assembler.SymTable) error {
	file, err := os.Create(filename)

	if err != nil {
		return err
	}

	if err := gob.NewEncoder(file).Encode(table); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func main() {
	os.Exit(nand7400_asm())
}
