package ai

import (
	"context"
	"strings"

	"github.com/spigell/roadmap-matcher/internal/matching"
)

const generalTopic = "general-design"

var phaseCatalog = []struct {
	key      string
	projects []Project
}{
	{
		key: "design fundamentals",
		projects: []Project{
			{Title: "Personal Brand Identity Design", Description: "Create a complete brand identity including logo, color palette, typography, and business cards", Difficulty: "intermediate", Skills: []string{"Design Principles", "Color Theory", "Typography", "Branding"}, Duration: "2-3 weeks", Category: "design"},
			{Title: "UI/UX Design System", Description: "Design a comprehensive design system with components, patterns, and guidelines", Difficulty: "advanced", Skills: []string{"Design Systems", "UI/UX", "Component Design", "Documentation"}, Duration: "3-4 weeks", Category: "design"},
			{Title: "Portfolio Website Design", Description: "Design and build a personal portfolio website showcasing your design skills", Difficulty: "intermediate", Skills: []string{"Web Design", "Portfolio", "Responsive Design", "UI/UX"}, Duration: "2-3 weeks", Category: "design"},
		},
	},
	{
		key: "adobe creative suite",
		projects: []Project{
			{Title: "Digital Magazine Layout", Description: "Create a professional magazine layout using InDesign with master pages and typography", Difficulty: "intermediate", Skills: []string{"InDesign", "Layout Design", "Typography", "Print Design"}, Duration: "2-3 weeks", Category: "design"},
			{Title: "Interactive Prototype", Description: "Build an interactive mobile app prototype using Adobe XD with animations and transitions", Difficulty: "advanced", Skills: []string{"Adobe XD", "Prototyping", "User Experience", "Animation"}, Duration: "3-4 weeks", Category: "design"},
			{Title: "Photo Manipulation Project", Description: "Create a creative photo manipulation using Photoshop with advanced techniques", Difficulty: "intermediate", Skills: []string{"Photoshop", "Photo Manipulation", "Creative Design", "Image Editing"}, Duration: "1-2 weeks", Category: "design"},
		},
	},
}

// categoryProjects are offered when a phase is classified into a vocabulary category.
var categoryProjects = map[string][]Project{
	"frontend": {
		{Title: "Responsive Landing Page", Description: "Build a responsive landing page with semantic markup, a mobile-first layout and accessible forms", Difficulty: "beginner", Skills: []string{"HTML5", "CSS3", "Responsive Design", "Accessibility"}, Duration: "1-2 weeks", Category: "web-dev"},
		{Title: "Single Page Dashboard", Description: "Create a dashboard that fetches data from a public API and renders charts with client-side routing", Difficulty: "intermediate", Skills: []string{"JavaScript", "React", "REST APIs", "State Management"}, Duration: "2-4 weeks", Category: "web-dev"},
	},
	"backend": {
		{Title: "REST API Service", Description: "Design and implement a CRUD REST API with validation, persistence and pagination", Difficulty: "intermediate", Skills: []string{"REST APIs", "SQL", "Authentication", "Testing"}, Duration: "2-4 weeks", Category: "web-dev"},
		{Title: "Background Job Worker", Description: "Build a worker that consumes a queue, retries failed jobs and reports metrics", Difficulty: "advanced", Skills: []string{"Queues", "Concurrency", "Observability", "Databases"}, Duration: "2-4 weeks", Category: "web-dev"},
	},
	"data": {
		{Title: "Exploratory Data Analysis Report", Description: "Clean a public dataset, explore it and publish a notebook with visualizations and findings", Difficulty: "beginner", Skills: []string{"Pandas", "Data Cleaning", "Visualization", "Statistics"}, Duration: "1-2 weeks", Category: "data-science"},
		{Title: "Prediction Model Pipeline", Description: "Train, evaluate and serve a model on tabular data with a reproducible pipeline", Difficulty: "intermediate", Skills: []string{"Scikit-learn", "Feature Engineering", "Model Evaluation", "Python"}, Duration: "2-4 weeks", Category: "ai-ml"},
	},
	"ai": {
		{Title: "Image Classifier", Description: "Fine-tune a pretrained network on a custom image dataset and report its accuracy", Difficulty: "intermediate", Skills: []string{"Deep Learning", "PyTorch", "Computer Vision", "Transfer Learning"}, Duration: "2-4 weeks", Category: "ai-ml"},
		{Title: "Text Sentiment Service", Description: "Build an NLP model that scores sentiment and expose it behind a small HTTP API", Difficulty: "advanced", Skills: []string{"NLP", "Transformers", "Model Serving", "APIs"}, Duration: "1-2 months", Category: "ai-ml"},
	},
	"devops": {
		{Title: "Containerized CI/CD Pipeline", Description: "Containerize an application and ship it through a pipeline that tests, builds and deploys it", Difficulty: "intermediate", Skills: []string{"Docker", "CI/CD", "GitHub Actions", "Automation"}, Duration: "2-4 weeks", Category: "other"},
		{Title: "Infrastructure as Code Environment", Description: "Provision a staging environment with Terraform and deploy a service to Kubernetes", Difficulty: "advanced", Skills: []string{"Terraform", "Kubernetes", "Cloud", "Monitoring"}, Duration: "1-2 months", Category: "other"},
	},
	"mobile": {
		{Title: "Habit Tracker App", Description: "Build a mobile habit tracker with local storage, notifications and simple statistics", Difficulty: "intermediate", Skills: []string{"Mobile UI", "Local Storage", "Notifications", "State Management"}, Duration: "2-4 weeks", Category: "mobile-dev"},
	},
	"database": {
		{Title: "Normalized Schema Design", Description: "Model a small business domain, normalize the schema and write reporting queries with indexes", Difficulty: "intermediate", Skills: []string{"SQL", "Data Modeling", "Indexing", "PostgreSQL"}, Duration: "1-2 weeks", Category: "data-science"},
	},
	"cybersecurity": {
		{Title: "Vulnerable Lab Audit", Description: "Set up an intentionally vulnerable application, find its weaknesses and write a remediation report", Difficulty: "intermediate", Skills: []string{"Penetration Testing", "OWASP Top 10", "Reporting", "Networking"}, Duration: "2-4 weeks", Category: "other"},
	},
	"design": {
		{Title: "Portfolio Website Design", Description: "Design and build a personal portfolio website showcasing your design skills", Difficulty: "intermediate", Skills: []string{"Web Design", "Portfolio", "Responsive Design", "UI/UX"}, Duration: "2-3 weeks", Category: "design"},
	},
}

var generalProject = Project{
	Title:       "Portfolio Website Design",
	Description: "Design and build a personal portfolio website showcasing your design skills",
	Difficulty:  "intermediate",
	Skills:      []string{"Web Design", "Portfolio", "Responsive Design", "UI/UX"},
	Duration:    "2-3 weeks",
	Category:    "design",
}

// RuleSuggester answers from a fixed project catalog.
type RuleSuggester struct {
	vocab *matching.Vocabulary
}

// NewRuleSuggester creates a rule-based suggester. A nil vocabulary uses the default one.
func NewRuleSuggester(vocab *matching.Vocabulary) *RuleSuggester {
	if vocab == nil {
		vocab = matching.DefaultVocabulary()
	}
	return &RuleSuggester{vocab: vocab}
}

func (r *RuleSuggester) Suggest(_ context.Context, phase Phase, limit int) ([]Project, error) {
	name := strings.TrimSpace(phase.Name)
	if name == "" {
		return nil, ErrEmptyPhase
	}
	limit = normalizeLimit(limit)
	lower := strings.ToLower(name)

	topic := Topic(name)
	var picked []Project
	for _, entry := range phaseCatalog {
		if strings.Contains(lower, entry.key) {
			picked = entry.projects
			break
		}
	}
	if picked == nil {
		if category := r.Classify(name, phase.Skills); category != "" {
			picked = categoryProjects[category]
		}
	}
	if len(picked) == 0 {
		picked = []Project{generalProject}
		topic = generalTopic
	}

	out := make([]Project, 0, min(limit, len(picked)))
	for _, p := range picked {
		if len(out) == limit {
			break
		}
		p.Skills = append([]string(nil), p.Skills...)
		p.Phase = name
		p.Topics = []string{topic}
		out = append(out, p)
	}
	return out, nil
}

// Classify returns the vocabulary category whose keywords appear most often in the phase and its skills.
// It returns an empty string when nothing matches or the best category has no canned projects.
func (r *RuleSuggester) Classify(phase string, skills []string) string {
	text := matching.Normalize(phase + " " + strings.Join(skills, " "))
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		words[w] = struct{}{}
	}

	best, bestHits := "", 0
	for _, category := range r.vocab.Categories {
		if _, ok := categoryProjects[category.Name]; !ok {
			continue
		}
		hits := 0
		for _, kw := range category.Keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(text, kw) {
					hits++
				}
				continue
			}
			if _, ok := words[kw]; ok {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = category.Name, hits
		}
	}
	return best
}
