// Package iojson holds utilities for reading and writing JSON from a
// command line interface perspective.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the standard error shape written when a JSON command fails.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func jsonError(msg string, jsonErr error) string {
	// Use json.Marshal to properly escape strings
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// WriteError writes msg and data to w as a single JSON object.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	bits, err := json.Marshal(Error{Message: msg, Data: data})
	if err != nil {
		_, err = fmt.Fprintln(w, jsonError(msg, err))
		return err
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write writes obj to w as indented JSON. Marshal failures are reported on ew.
func Write(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, werr := fmt.Fprintln(ew, jsonError("error marshaling in iojson.Write", err))
		if werr != nil {
			return werr
		}
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj to w as one line of compact JSON, for JSON Lines output.
func WriteLine(w io.Writer, obj any) error {
	return json.NewEncoder(w).Encode(obj)
}
