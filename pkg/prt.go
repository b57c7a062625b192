package pkg

import (
	"encoding/json"
	"fmt"
	"io"
)

// Print writes v to w as indented JSON.
func Print(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
