package engine

import (
	"os"

	"tinydb/internal/value"
)

func stringValue(s string) value.Value { return value.NewString(s) }

func removeIfExists(path string) {
	if path == "" {
		return
	}
	os.Remove(path)
}
