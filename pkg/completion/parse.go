package completion

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaiwa-dev/kaiwa/pkg/model"
)

var (
	jsonArrayPattern  = regexp.MustCompile(`(?s)\[.*?\]`)
	listMarkerPattern = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)]?)\s+`)
)

// ParseSuggestions extracts up to three follow-up questions from model
// output. The first JSON array of strings in the text wins; otherwise
// only lines carrying a numbering or bullet marker count, with the
// marker stripped. Anything else yields fewer or zero suggestions,
// never an error.
func ParseSuggestions(text string) []string {
	if m := jsonArrayPattern.FindString(text); m != "" {
		var arr []string
		if err := json.Unmarshal([]byte(m), &arr); err == nil {
			out := make([]string, 0, model.MaxSuggestions)
			for _, s := range arr {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				out = append(out, s)
				if len(out) == model.MaxSuggestions {
					break
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		marker := listMarkerPattern.FindString(line)
		if marker == "" {
			continue
		}
		s := strings.TrimSpace(line[len(marker):])
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == model.MaxSuggestions {
			break
		}
	}
	return out
}
