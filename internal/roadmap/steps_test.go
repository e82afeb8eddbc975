package roadmap

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect []Step
	}{
		{
			name:  "two categories",
			input: "Cat1: a; b | Cat2: c",
			expect: []Step{
				{Category: "Cat1", Skills: []string{"a", "b"}},
				{Category: "Cat2", Skills: []string{"c"}},
			},
		},
		{
			name:   "single category without pipe",
			input:  "HTML/CSS: HTML5; CSS3",
			expect: []Step{{Category: "HTML/CSS", Skills: []string{"HTML5", "CSS3"}}},
		},
		{
			name:   "drops empty skills and blocks without colon",
			input:  "intro text | Basics: ; Git;  ;Shell | ",
			expect: []Step{{Category: "Basics", Skills: []string{"Git", "Shell"}}},
		},
		{
			name:   "splits on first colon only",
			input:  "Web: HTTP: basics; REST",
			expect: []Step{{Category: "Web", Skills: []string{"HTTP: basics", "REST"}}},
		},
		{
			name:   "category with no skills is kept",
			input:  "Capstone:",
			expect: []Step{{Category: "Capstone", Skills: []string{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSteps(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %+v, got %+v", tt.expect, got)
			}
		})
	}
}

func TestParseStepsMalformed(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "no categories here", "a | b | c", ": a; b"} {
		if _, err := ParseSteps(input); !errors.Is(err, ErrMalformedRoadmapText) {
			t.Fatalf("expected ErrMalformedRoadmapText for %q, got %v", input, err)
		}
	}
}

func TestTemplateValidate(t *testing.T) {
	t.Parallel()

	valid := Template{Goal: "Become a Frontend Developer", Domain: "Frontend", Steps: []Step{{Category: "HTML"}}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	broken := []Template{
		{Domain: "Frontend", Steps: valid.Steps},
		{Goal: "Goal", Steps: valid.Steps},
		{Goal: "Goal", Domain: "Frontend"},
	}
	for _, tpl := range broken {
		if err := tpl.Validate(); !errors.Is(err, ErrInvalidTemplate) {
			t.Fatalf("expected ErrInvalidTemplate for %+v, got %v", tpl, err)
		}
	}

	var missing *Template
	if err := missing.Validate(); !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate for nil template, got %v", err)
	}
}

func TestCloneStepsIsDeep(t *testing.T) {
	t.Parallel()

	original := []Step{{Category: "Go", Skills: []string{"syntax"}}}
	cloned := CloneSteps(original)
	cloned[0].Skills[0] = "changed"

	if original[0].Skills[0] != "syntax" {
		t.Fatalf("expected original skills to stay intact, got %q", original[0].Skills[0])
	}
}
