package storage

import "fmt"

// toStringFallback renders an arbitrary dimension value the same way
// the path template does, for non-string dimension values (an int city
// id, say).
func toStringFallback(v any) string {
	return fmt.Sprint(v)
}
