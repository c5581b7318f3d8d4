package errors

import "fmt"

// SuggestName suggests the closest known declaration name for an unresolved one.
// It returns "" when nothing is within a few edits.
func SuggestName(unknown string, known []string) string {
	best := ""
	minDistance := 1000

	for _, name := range known {
		if name == unknown {
			continue
		}
		if dist := levenshteinDistance(unknown, name); dist < minDistance {
			minDistance = dist
			best = name
		}
	}

	if best == "" || minDistance > maxSuggestDistance(unknown) {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", best)
}

// SuggestQualify suggests a fully qualified spelling when an unqualified reference
// exists under a namespace that is not enclosing the reference.
func SuggestQualify(name string, qualified []string) string {
	switch len(qualified) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Did you mean '%s'?", qualified[0])
	default:
		return fmt.Sprintf("'%s' is declared in several namespaces; qualify it, e.g. '%s'", name, qualified[0])
	}
}

func maxSuggestDistance(s string) int {
	if len(s) < 6 {
		return 2
	}
	return 4
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
