package keywords

import (
	"regexp"
	"strings"
)

var technicalVocabulary = []string{
	"javascript", "python", "java", "react", "vue", "angular", "node.js", "nodejs",
	"express", "mongodb", "mysql", "postgresql", "aws", "docker", "kubernetes", "git",
	"rest api", "graphql", "typescript", "html", "css", "sass", "redux", "next.js",
	"nextjs", "nuxt.js", "php", "laravel", "django", "flask", "spring boot", "c++",
	"c#", ".net", "azure", "gcp", "devops", "ci/cd", "jenkins", "terraform",
	"ansible", "linux", "bash", "powershell", "agile", "scrum", "sql", "nosql",
	"redis", "elasticsearch", "kafka", "microservices", "api", "machine learning", "ai",
	"data science", "pandas", "numpy", "tensorflow",
}

var softVocabulary = []string{
	"communication", "leadership", "teamwork", "problem solving", "time management",
	"project management", "critical thinking", "adaptability", "creativity",
	"attention to detail", "organization", "collaboration", "analytical skills",
	"strategic thinking", "innovation", "mentoring", "coaching", "presentation",
}

var actionVocabulary = []string{
	"Developed", "Implemented", "Designed", "Created", "Built", "Managed", "Led",
	"Optimized", "Improved", "Increased", "Reduced", "Streamlined", "Coordinated",
	"Collaborated", "Analyzed", "Researched", "Delivered", "Achieved", "Executed",
}

// DefaultActionVerbs are used for bullets when a posting yields no verbs.
var DefaultActionVerbs = []string{"Developed", "Implemented", "Designed", "Led", "Managed", "Optimized"}

var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+\+?\s*years?\s*of?\s*experience)`),
	regexp.MustCompile(`(?i)(bachelor'?s?\s*degree)`),
	regexp.MustCompile(`(?i)(master'?s?\s*degree)`),
	regexp.MustCompile(`(?i)(certification)`),
	regexp.MustCompile(`(?i)(experience\s*with)`),
	regexp.MustCompile(`(?i)(knowledge\s*of)`),
	regexp.MustCompile(`(?i)(proficiency\s*in)`),
}

// TechnicalVocabulary returns a copy of the technical keyword list.
func TechnicalVocabulary() []string { return append([]string(nil), technicalVocabulary...) }

// SoftVocabulary returns a copy of the soft-skill keyword list.
func SoftVocabulary() []string { return append([]string(nil), softVocabulary...) }

// IsActionVerb reports whether word is one of the known resume action verbs.
func IsActionVerb(word string) bool {
	for _, verb := range actionVocabulary {
		if strings.EqualFold(verb, word) {
			return true
		}
	}
	for _, verb := range DefaultActionVerbs {
		if strings.EqualFold(verb, word) {
			return true
		}
	}
	return false
}
