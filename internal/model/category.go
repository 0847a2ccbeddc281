package model

// Key is the normalized, case-insensitive form of a category or debt name.
// Every match between transactions, budgets and debts compares Keys.
type Key string

// NormalizeKey lower-cases the ASCII letters A-Z in s. All other bytes,
// including multi-byte UTF-8 sequences, are copied unchanged, so the result
// always has the same length as the input.
func NormalizeKey(s string) Key {
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf[i] = c
	}
	return Key(buf)
}

// IsEmpty reports whether the key has no content worth matching on.
func (k Key) IsEmpty() bool {
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}
