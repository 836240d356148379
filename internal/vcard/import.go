package vcard

import (
	"errors"

	"github.com/SADD1990/Taskmanager/internal/store"
)

// ImportResult reports what a merge did. Diagnostics never abort an import;
// the caller surfaces them alongside the created count.
type ImportResult struct {
	Created     int      `json:"created"`
	Skipped     int      `json:"skipped"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Import parses the interchange text and merges the surviving candidates
// into the store through the normal add path, so phone uniqueness holds
// against both the existing clients and the candidates themselves. A
// candidate whose phone is already taken is skipped, not an error.
func Import(st *store.Store, text string) (ImportResult, error) {
	candidates, diags := Parse(text)
	res := ImportResult{Diagnostics: diags}

	for _, cand := range candidates {
		_, err := st.AddClient(cand.Name, cand.Phone, "")
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, store.ErrDuplicatePhone):
			res.Skipped++
		default:
			return res, err
		}
	}
	return res, nil
}
