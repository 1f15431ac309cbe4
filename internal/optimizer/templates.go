package optimizer

import "strings"

// Template is a resume layout offered to seekers.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ATSScore    int      `json:"ats_score"`
	Features    []string `json:"features"`
}

const DefaultTemplate = "modern"

var templates = []Template{
	{ID: "modern", Name: "Modern Professional", Description: "Clean, modern design perfect for tech roles", ATSScore: 95, Features: []string{"ATS Optimized", "Clean Layout", "Tech-Friendly"}},
	{ID: "executive", Name: "Executive", Description: "Sophisticated design for senior positions", ATSScore: 90, Features: []string{"Leadership Focus", "Professional", "Results-Oriented"}},
	{ID: "creative", Name: "Creative Professional", Description: "Stylish design for creative industries", ATSScore: 85, Features: []string{"Visual Appeal", "Creative Layout", "Portfolio Ready"}},
	{ID: "minimalist", Name: "Minimalist", Description: "Simple, clean design that works everywhere", ATSScore: 98, Features: []string{"Maximum ATS Score", "Simple Layout", "Universal Appeal"}},
	{ID: "technical", Name: "Technical Specialist", Description: "Optimized for technical and engineering roles", ATSScore: 96, Features: []string{"Skills Focused", "Project Highlights", "Technical Optimized"}},
}

// Templates lists the built-in templates.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// ResolveTemplate returns the template with id, or the default one.
func ResolveTemplate(id string) Template {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range templates {
		if t.ID == id {
			return t
		}
	}
	return templates[0]
}
