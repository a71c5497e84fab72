package classifier

import (
	"regexp"
)

// CitationMap accumulates citation-reference token → URL mappings. It is
// threaded through Classify as an explicit value (current map in, updated
// map out); there is deliberately no package-level cache.
type CitationMap map[string]string

var citationTokenPattern = regexp.MustCompile(`\[\d+\]`)

// ResolveCitations rewrites citation-reference tokens inside rationale text
// into markdown source links, using the annotations from the current
// response plus any previously accumulated mappings. Tokens with no known
// source are left untouched. The input map is not mutated; the updated map
// is returned alongside the rewritten information.
func ResolveCitations(information map[string]string, annotations []Annotation, citations CitationMap) (map[string]string, CitationMap) {
	updated := make(CitationMap, len(citations)+len(annotations))
	for token, url := range citations {
		updated[token] = url
	}
	for _, a := range annotations {
		if a.Token != "" && a.URL != "" {
			updated[a.Token] = a.URL
		}
	}

	if len(information) == 0 {
		return information, updated
	}

	resolved := make(map[string]string, len(information))
	for practice, text := range information {
		resolved[practice] = citationTokenPattern.ReplaceAllStringFunc(text, func(token string) string {
			url, ok := updated[token]
			if !ok {
				return token
			}
			// "[2]" -> "[2](https://source)" so markdown renderers link it.
			return token + "(" + url + ")"
		})
	}
	return resolved, updated
}
