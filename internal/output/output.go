// Package output renders command results as a JSON envelope:
// {"success": bool, "data": any, "error": string|null}.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

type Result struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

func Success(data any) string {
	return encode(Result{Success: true, Data: data})
}

func Error(err error) string {
	msg := err.Error()
	return encode(Result{Error: &msg})
}

// Print writes an envelope followed by a newline.
func Print(w io.Writer, envelope string) error {
	_, err := fmt.Fprintln(w, envelope)
	return err
}

func encode(r Result) string {
	b, err := json.Marshal(r)
	if err != nil {
		msg := fmt.Sprintf("encode result: %v", err)
		b, _ = json.Marshal(Result{Error: &msg})
	}
	return string(b)
}
