// Copyright 2025 meilikit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package consoleutil

import (
	"fmt"
	"strings"
)

// StatusType selects the icon, label and colour of a status message.
type StatusType int

const (
	StatusSuccess StatusType = iota
	StatusWarning
	StatusError
	StatusInfo
)

type statusStyle struct {
	icon  string
	label string
	color string
}

var statusStyles = map[StatusType]statusStyle{
	StatusSuccess: {icon: "✓", label: "SUCCESS", color: FgGreen},
	StatusWarning: {icon: "⚠", label: "WARNING", color: FgYellow},
	StatusError:   {icon: "✗", label: "ERROR", color: FgRed},
	StatusInfo:    {icon: "ℹ", label: "INFO", color: FgBlue},
}

// FormatStatus prefixes message with the icon and bracketed label of
// statusType. Unknown types render as info.
func FormatStatus(message string, statusType StatusType) string {
	style, ok := statusStyles[statusType]
	if !ok {
		style = statusStyles[StatusInfo]
	}
	return ColorText(style.icon, style.color) + " " +
		ColorText("["+style.label+"]", style.color) + " " + message
}

func FormatSuccess(message string) string { return FormatStatus(message, StatusSuccess) }
func FormatWarning(message string) string { return FormatStatus(message, StatusWarning) }
func FormatError(message string) string   { return FormatStatus(message, StatusError) }
func FormatInfo(message string) string    { return FormatStatus(message, StatusInfo) }

// FormatErrorWithDetails renders an error line, an indented details line
// and a numbered list of suggestions. Empty parts are left out.
func FormatErrorWithDetails(message, details string, suggestions []string) string {
	lines := []string{FormatError(message)}
	if details != "" {
		lines = append(lines, "  "+Format(details, FgRed))
	}
	if len(suggestions) > 0 {
		lines = append(lines, "", Format("Suggestions:", FgYellow))
		for i, suggestion := range suggestions {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, suggestion))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatTable formats rows under headers as aligned columns separated by
// " | ". Rows shorter than the header are padded with empty cells.
func FormatTable(headers []string, rows [][]string, useColor bool) string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return ""
	}

	colWidths := make([]int, colCount)
	for i, header := range headers {
		colWidths[i] = VisibleWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := VisibleWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, bold bool) {
		for i := 0; i < colCount; i++ {
			if i > 0 {
				sb.WriteString(" | ")
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			padded := cell + strings.Repeat(" ", colWidths[i]-VisibleWidth(cell))
			if i == colCount-1 {
				padded = cell
			}
			if bold && useColor {
				padded = Format(padded, Bold)
			}
			sb.WriteString(padded)
		}
		sb.WriteString("\n")
	}

	if len(headers) > 0 {
		writeRow(headers, true)
		for i, width := range colWidths {
			if i > 0 {
				sb.WriteString("-+-")
			}
			sb.WriteString(strings.Repeat("-", width))
		}
		sb.WriteString("\n")
	}

	for _, row := range rows {
		writeRow(row, false)
	}

	return sb.String()
}
