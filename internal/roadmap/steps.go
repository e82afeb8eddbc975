package roadmap

import (
	"fmt"
	"strings"
)

const (
	categorySeparator = "|"
	nameSeparator     = ":"
	skillSeparator    = ";"
)

// ParseSteps parses roadmap text of the form "Cat1: a; b | Cat2: c" into ordered steps.
// Blocks without a colon are dropped. ErrMalformedRoadmapText is returned when no block
// carries a colon-delimited category, which includes empty text.
func ParseSteps(text string) ([]Step, error) {
	var steps []Step

	for _, block := range strings.Split(text, categorySeparator) {
		name, skillsText, ok := strings.Cut(block, nameSeparator)
		if !ok {
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		skills := make([]string, 0)
		for _, skill := range strings.Split(skillsText, skillSeparator) {
			if skill = strings.TrimSpace(skill); skill != "" {
				skills = append(skills, skill)
			}
		}

		steps = append(steps, Step{Category: name, Skills: skills})
	}

	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no category found in %q", ErrMalformedRoadmapText, text)
	}

	return steps, nil
}
