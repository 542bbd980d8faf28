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
	"fmt"
	"strings"

	"golang.org/x/term"

	"github.com/lassandro/nand7400/pkg/assembler"
)

// terminalWidth returns the column count of the terminal behind fd, or 0 when
// fd is not a terminal.
func terminalWidth(fd uintptr) int {
	width, _, err := term.GetSize(int(fd))

	if err != nil {
		return 0
	}

	return width
}

// sourceLine returns the line of source containing offset, without its line
// ending, along with the byte offset the line starts at.
func sourceLine(source string, offset int) (string, int) {
	offset = min(max(offset, 0), len(source))

	start := strings.LastIndexByte(source[:offset], '\n') + 1
	end := len(source)

	if i := strings.IndexByte(source[offset:], '\n'); i >= 0 {
		end = offset + i
	}

	return strings.TrimSuffix(source[start:end], "\r"), start
}

// formatDiagnostic renders diag as its location and message followed by the
// offending source line with the span underlined. Lines longer than width are
// cropped around the span; a width of 0 disables cropping.
func formatDiagnostic(
	errs *assembler.ErrorList,
	diag assembler.Diagnostic,
	color bool,
	width int,
) string {
	var builder strings.Builder

	pos := diag.GetPosition()
	line, column := errs.Locate(diag)

	fmt.Fprintf(&builder, "%02d:%02d: %s", line, column, diag.Error())

	text, lineStart := sourceLine(errs.Source, pos.Start)
	offset := min(max(pos.Start-lineStart, 0), len(text))
	length := max(min(pos.End-lineStart, len(text))-offset, 1)

	if width > 0 && len(text) > width {
		crop := 0

		if offset >= width {
			crop = offset - width/2
		}

		text = text[crop:min(crop+width, len(text))]
		offset -= crop
		length = max(min(length, len(text)-offset), 1)
	}

	var underline strings.Builder

	for i := 0; i < offset; i++ {
		if text[i] == '\t' {
			underline.WriteByte('\t')
		} else {
			underline.WriteByte(' ')
		}
	}

	underline.WriteByte('^')
	underline.WriteString(strings.Repeat("~", length-1))

	if color {
		fmt.Fprintf(&builder, "\n%s\n\033[31m%s\033[0m", text, underline.String())
	} else {
		fmt.Fprintf(&builder, "\n%s\n%s", text, underline.String())
	}

	if help := diag.Help(); help != "" {
		fmt.Fprintf(&builder, "\n\thelp:%s", help)
	}

	if redeclared, ok := diag.(*assembler.RedeclaredLabelError); ok {
		firstLine, firstColumn := redeclared.First.Locate(errs.Source)
		fmt.Fprintf(
			&builder,
			"\n\tfirst:%02d:%02d",
			firstLine,
			firstColumn,
		)
	}

	return builder.String()
}
