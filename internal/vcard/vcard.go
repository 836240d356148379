// Package vcard implements the minimal vCard subset used for contact
// interchange: BEGIN/END records carrying FN, N and TEL fields. Parsing
// never fails; malformed input turns into diagnostics, not errors.
package vcard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/SADD1990/Taskmanager/internal/model"
)

// Candidate is a client candidate recovered from one record. A record with
// several TEL lines yields one candidate per phone, all sharing the record's
// first name.
type Candidate struct {
	Name  string
	Phone string
}

var foldedLine = regexp.MustCompile(`\r?\n[ \t]`)

// Parse walks the text with a two-state machine (outside / inside a record)
// after undoing line folding. Diagnostics are advisory: a broken record is
// skipped and the walk continues.
func Parse(text string) ([]Candidate, []string) {
	// A line break followed by a space or tab is a folded continuation;
	// undo that before any other processing.
	text = foldedLine.ReplaceAllString(text, "")

	var (
		candidates []Candidate
		diags      []string
		inside     bool
		names      []string
		phones     []string
	)

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		lineNo := i + 1
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)

		if upper == "BEGIN:VCARD" {
			if inside {
				diags = append(diags, fmt.Sprintf("unexpected BEGIN:VCARD at line %d", lineNo))
			}
			inside = true
			names = nil
			phones = nil
			continue
		}

		if upper == "END:VCARD" {
			if !inside {
				diags = append(diags, fmt.Sprintf("END:VCARD without BEGIN at line %d", lineNo))
				continue
			}
			if len(names) > 0 && len(phones) > 0 {
				for _, phone := range phones {
					candidates = append(candidates, Candidate{Name: names[0], Phone: phone})
				}
			} else {
				diags = append(diags, fmt.Sprintf("incomplete record ending at line %d", lineNo))
			}
			inside = false
			continue
		}

		if !inside {
			diags = append(diags, fmt.Sprintf("data outside record at line %d: %s", lineNo, line))
			continue
		}

		switch {
		case hasFieldPrefix(upper, "FN"):
			value := fieldValue(line)
			value = strings.TrimSpace(strings.TrimRight(value, ";"))
			if value == "" {
				diags = append(diags, fmt.Sprintf("empty FN field at line %d", lineNo))
				continue
			}
			names = append(names, value)

		case hasFieldPrefix(upper, "N"):
			parts := strings.Split(fieldValue(line), ";")
			kept := parts[:0]
			for _, p := range parts {
				if p != "" {
					kept = append(kept, p)
				}
			}
			joined := strings.TrimSpace(strings.Join(kept, " "))
			if joined == "" {
				diags = append(diags, fmt.Sprintf("empty N field at line %d", lineNo))
				continue
			}
			names = append(names, joined)

		case hasFieldPrefix(upper, "TEL"):
			phone := cleanPhone(fieldValue(line))
			if phone == "" {
				diags = append(diags, fmt.Sprintf("invalid phone at line %d", lineNo))
				continue
			}
			phones = append(phones, phone)

		case hasFieldPrefix(upper, "VERSION"):
			// Emitted by Serialize; carries nothing we keep.

		default:
			diags = append(diags, fmt.Sprintf("ignored unknown line %d: %s", lineNo, line))
		}
	}

	if inside {
		diags = append(diags, "file ended without END:VCARD")
	}

	return candidates, diags
}

// Serialize writes one record per client: version marker, formatted name, a
// cell-typed telephone line and the terminator, records separated by a blank
// line. Values go out verbatim; this subset performs no escaping.
func Serialize(clients []model.Client) string {
	var b strings.Builder
	for _, c := range clients {
		b.WriteString("BEGIN:VCARD\n")
		b.WriteString("VERSION:3.0\n")
		b.WriteString("FN:" + c.Name + "\n")
		b.WriteString("TEL;TYPE=CELL:" + c.Phone + "\n")
		b.WriteString("END:VCARD\n\n")
	}
	return b.String()
}

// hasFieldPrefix reports whether the line starts the named field: the field
// name followed by ':' or by ';'-delimited parameters.
func hasFieldPrefix(upperLine, field string) bool {
	return strings.HasPrefix(upperLine, field+":") || strings.HasPrefix(upperLine, field+";")
}

// fieldValue returns everything after the first colon; later colons belong
// to the value and are preserved.
func fieldValue(line string) string {
	if _, v, ok := strings.Cut(line, ":"); ok {
		return v
	}
	return ""
}

// cleanPhone keeps digits plus a single leading +.
func cleanPhone(s string) string {
	s = strings.TrimSpace(s)
	plus := strings.HasPrefix(s, "+")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	if plus {
		return "+" + b.String()
	}
	return b.String()
}
