package matching

// Category maps a broad technology or role area to the keywords that hint at it.
type Category struct {
	Name     string
	Keywords []string
}

// Level maps an experience level to the goal words that signal it.
type Level struct {
	Name     string
	Keywords []string
}

// Vocabulary holds the lookup tables used by the scoring signals.
type Vocabulary struct {
	Categories []Category
	Levels     []Level
	Roles      []string
}

// HasKeyword reports whether word is one of the keywords of the category.
func (c Category) HasKeyword(word string) bool {
	for _, kw := range c.Keywords {
		if kw == word {
			return true
		}
	}
	return false
}

// Category returns the category with the given name.
func (v *Vocabulary) Category(name string) (Category, bool) {
	for _, c := range v.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// DefaultVocabulary returns the built-in keyword tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Categories: []Category{
			{Name: "frontend", Keywords: []string{"frontend", "front-end", "ui", "ux", "react", "vue", "angular", "javascript", "css", "html", "web design", "client-side", "browser", "svelte", "next.js"}},
			{Name: "backend", Keywords: []string{"backend", "back-end", "server", "api", "node", "python", "java", "php", "ruby", "go", "server-side", "database", "express", "fastapi", "django", "flask"}},
			{Name: "fullstack", Keywords: []string{"fullstack", "full-stack", "full stack", "mern", "mean", "lamp", "end-to-end", "complete", "full", "stack"}},
			{Name: "data", Keywords: []string{"data", "analytics", "science", "scientist", "analysis", "machine learning", "ai", "ml", "statistics", "big data", "visualization", "analyst", "engineer"}},
			{Name: "devops", Keywords: []string{"devops", "dev ops", "deployment", "ci/cd", "docker", "kubernetes", "aws", "cloud", "infrastructure", "automation", "sre", "reliability", "terraform", "ansible"}},
			{Name: "mobile", Keywords: []string{"mobile", "ios", "android", "react native", "flutter", "swift", "kotlin", "app development", "smartphone", "app", "native"}},
			{Name: "python", Keywords: []string{"python", "django", "flask", "fastapi", "pandas", "numpy", "data science", "automation", "scripting", "py"}},
			{Name: "javascript", Keywords: []string{"javascript", "js", "node", "react", "vue", "angular", "typescript", "es6", "web development", "nodejs", "ts"}},
			{Name: "java", Keywords: []string{"java", "spring", "hibernate", "maven", "gradle", "enterprise", "jvm", "android"}},
			{Name: "web", Keywords: []string{"web", "website", "web development", "html", "css", "javascript", "responsive", "progressive", "internet"}},
			{Name: "cybersecurity", Keywords: []string{"security", "cybersecurity", "ethical hacking", "penetration testing", "vulnerability", "encryption", "infosec", "cyber", "hacking", "pentesting"}},
			{Name: "blockchain", Keywords: []string{"blockchain", "cryptocurrency", "bitcoin", "ethereum", "smart contracts", "defi", "web3", "crypto", "solidity", "nft"}},
			{Name: "game", Keywords: []string{"game", "gaming", "unity", "unreal", "gamedev", "interactive", "entertainment", "3d", "2d"}},
			{Name: "cloud", Keywords: []string{"cloud", "aws", "azure", "gcp", "serverless", "microservices", "scalability", "google cloud", "amazon web services"}},
			{Name: "design", Keywords: []string{"design", "ui", "ux", "user experience", "user interface", "visual", "graphic", "prototype", "figma", "sketch", "designer"}},
			{Name: "qa", Keywords: []string{"qa", "quality assurance", "testing", "test automation", "selenium", "cypress", "tester", "quality"}},
			{Name: "ai", Keywords: []string{"ai", "artificial intelligence", "machine learning", "deep learning", "ml", "neural network", "nlp", "computer vision"}},
			{Name: "database", Keywords: []string{"database", "sql", "mysql", "postgresql", "mongodb", "nosql", "db", "data storage"}},
			{Name: "product", Keywords: []string{"product", "product manager", "pm", "product management", "product owner"}},
			{Name: "marketing", Keywords: []string{"marketing", "digital marketing", "seo", "sem", "social media", "content marketing", "email marketing"}},
			{Name: "ios", Keywords: []string{"ios", "swift", "swiftui", "xcode", "iphone", "ipad", "apple"}},
			{Name: "android", Keywords: []string{"android", "kotlin", "java", "android studio", "google play"}},
		},
		Levels: []Level{
			{Name: "beginner", Keywords: []string{"beginner", "start", "learn", "basic", "introduction", "fundamentals"}},
			{Name: "intermediate", Keywords: []string{"intermediate", "advance", "improve", "enhance", "develop"}},
			{Name: "advanced", Keywords: []string{"advanced", "expert", "master", "professional", "senior", "architect"}},
		},
		Roles: []string{"developer", "engineer", "programmer", "coder", "architect", "specialist", "designer", "manager", "analyst", "scientist"},
	}
}
