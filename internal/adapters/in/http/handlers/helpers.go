// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"strconv"
	"strings"
)

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
