package common

import (
	"encoding/json"
	"io"
)

// Report is the machine-readable result a tool prints in --ci mode, one JSON
// document per invocation.
type Report struct {
	OK      bool     `json:"ok"`
	Command string   `json:"command"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func PrintReport(w io.Writer, command string, details []string, err error) {
	report := Report{OK: err == nil, Command: command, Details: details}
	if err != nil {
		report.Error = err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}
