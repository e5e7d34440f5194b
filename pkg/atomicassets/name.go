package atomicassets

// IsValidName reports whether s satisfies the Antelope account/schema
// name constraint: lowercase a-z, digits 1-5 and dots, at most 12
// characters, not empty and not ending with a dot.
func IsValidName(s string) bool {
	if len(s) == 0 || len(s) > 12 {
		return false
	}
	if s[len(s)-1] == '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c >= '1' && c <= '5' {
			continue
		}
		if c == '.' {
			continue
		}
		return false
	}
	return true
}
