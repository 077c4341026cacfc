package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/username/office-dates/internal/tools"
)

const noResult = "none"

// printResult writes a tool result one value per line; null and empty lists print "none"
func printResult(w io.Writer, result json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(result))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("failed to parse result: %w", err)
	}

	switch v := value.(type) {
	case nil:
		fmt.Fprintln(w, noResult)
	case []any:
		if len(v) == 0 {
			fmt.Fprintln(w, noResult)
			return nil
		}
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, v)
	}
	return nil
}

func printTools(w io.Writer, list []tools.Tool) {
	for _, tool := range list {
		params := make([]string, 0, len(tool.Params))
		for _, p := range tool.Params {
			name := p.Name
			if !p.Required {
				name += "?"
			}
			params = append(params, name)
		}
		fmt.Fprintf(w, "%s(%s)\n    %s\n", tool.Name, strings.Join(params, ", "), tool.Description)
	}
}
