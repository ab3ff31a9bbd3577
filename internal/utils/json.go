package utils

import (
	"encoding/json"
	"log"
)

// SafeJSONParse parses JSON safely.
func SafeJSONParse(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// LogError logs an error with a short context tag if it's not nil. Used for
// best-effort and background failures that are never surfaced to callers.
func LogError(err error, context string) {
	if err != nil {
		log.Printf("Error [%s]: %v", context, err)
	}
}
