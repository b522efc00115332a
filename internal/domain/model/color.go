//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// IntFromHexColor parses a "#rrggbb" color into its integer form.
func IntFromHexColor(hex string) (int, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if s == "" {
		return 0, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return int(v), nil
}

// HexColorFromInt formats an integer color as "#rrggbb".
func HexColorFromInt(color int) string {
	return fmt.Sprintf("#%06x", color)
}
