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

// Status is the state shown next to a value on a status page
type Status int

// Status constants for status page elements
const (
	StatusActive   Status = iota // healthy or allowed
	StatusInactive               // unhealthy or denied
	StatusPending                // in progress
	StatusUnknown                // plain value
)

type statusLook struct {
	color     string
	indicator string
}

var statusLooks = map[Status]statusLook{
	StatusActive:   {color: FgGreen, indicator: "✓"},
	StatusInactive: {color: FgRed, indicator: "✗"},
	StatusPending:  {color: FgYellow, indicator: "⋯"},
	StatusUnknown:  {color: FgDefault},
}

// ColorizeStatus colours text the way status values are shown.
func ColorizeStatus(text string, status Status) string {
	return ColorText(text, statusLooks[status].color)
}

// GetStatusIndicator returns the coloured indicator for status, or "" for plain values.
func GetStatusIndicator(status Status) string {
	look := statusLooks[status]
	if look.indicator == "" {
		return ""
	}
	return ColorText(look.indicator, look.color)
}

// GetStatusFromState converts a simple boolean state to a Status
func GetStatusFromState(isActive bool) Status {
	if isActive {
		return StatusActive
	}
	return StatusInactive
}

// StatusRow is one labelled value of a StatusTable.
type StatusRow struct {
	Label  string
	Value  string
	Status Status
}

// StatusTable is a titled list of labelled values.
type StatusTable struct {
	Title string
	Rows  []StatusRow
}

// NewStatusTable creates a new status table with the given title.
func NewStatusTable(title string) *StatusTable {
	return &StatusTable{
		Title: title,
		Rows:  []StatusRow{},
	}
}

// AddRow adds a new row to the status table.
func (t *StatusTable) AddRow(label, value string, status Status) *StatusTable {
	t.Rows = append(t.Rows, StatusRow{
		Label:  label,
		Value:  value,
		Status: status,
	})
	return t
}

// Render renders the title and rows with labels padded to a common width.
func (t *StatusTable) Render() string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(Format(fmt.Sprintf("=== %s ===", t.Title), Bold))
		sb.WriteString("\n")
	}

	width := 0
	for _, row := range t.Rows {
		if len(row.Label) > width {
			width = len(row.Label)
		}
	}

	for _, row := range t.Rows {
		sb.WriteString("  ")
		sb.WriteString(FormatStatusLine(row.Label+":"+strings.Repeat(" ", width-len(row.Label)), row.Value, row.Status))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatStatusLine renders "label value indicator" with a bold label.
func FormatStatusLine(label, value string, status Status) string {
	line := Format(label, Bold) + " " + ColorizeStatus(value, status)
	if indicator := GetStatusIndicator(status); indicator != "" {
		line += " " + indicator
	}
	return line
}
