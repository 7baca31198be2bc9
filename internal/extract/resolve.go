package extract

// Candidate produces a value from text, or reports that it found none.
type Candidate func(text string) (string, bool)

// resolve tries candidates in order and returns the first value found, or
// fallback when every candidate comes up empty.
func resolve(text, fallback string, candidates ...Candidate) string {
	for _, c := range candidates {
		if v, ok := c(text); ok {
			return v
		}
	}
	return fallback
}

// listOrDefault returns found when it has entries, otherwise a fresh copy of def.
func listOrDefault(found, def []string) []string {
	if len(found) > 0 {
		return found
	}
	return append([]string(nil), def...)
}
