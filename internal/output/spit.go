// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"

	"github.com/staranto/awspcgo/internal/config"
)

// PolicyRow is one pq result.
type PolicyRow struct {
	ARN         string `json:"arn"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Kind        string `json:"kind"`
	Managed     bool   `json:"managed"`
	Statements  int    `json:"statements"`
	Hash        string `json:"hash"`
	Description string `json:"description,omitempty"`
	Document    string `json:"document,omitempty"`
}

// AccountRow is one aq result.
type AccountRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// SpitPolicies emits pq rows in the requested format.
func SpitPolicies(w io.Writer, format string, titles bool, color bool, rows []PolicyRow) error {
	if format == "json" {
		return spitJSON(w, rows)
	}

	var cells [][]string
	for _, r := range rows {
		cells = append(cells, []string{
			r.Name, r.Version, r.Kind, strconv.FormatBool(r.Managed),
			strconv.Itoa(r.Statements), r.Hash, r.ARN,
		})
	}

	return renderTable(w,
		[]string{"NAME", "VERSION", "KIND", "MANAGED", "STMTS", "HASH", "ARN"},
		cells, titles, color)
}

// SpitAccounts emits aq rows in the requested format.
func SpitAccounts(w io.Writer, format string, titles bool, color bool, rows []AccountRow) error {
	if format == "json" {
		return spitJSON(w, rows)
	}

	var cells [][]string
	for _, r := range rows {
		cells = append(cells, []string{r.ID, r.Name, r.Email, r.Status})
	}

	return renderTable(w, []string{"ID", "NAME", "EMAIL", "STATUS"}, cells, titles, color)
}

// renderTable renders the result set in a tabular form honoring color,
// titles and padding options.
func renderTable(w io.Writer, headers []string, rows [][]string, titles bool, color bool) error {
	if len(rows) == 0 {
		return nil
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			pad, _ := config.GetInt("padding", 0)

			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

func spitJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
