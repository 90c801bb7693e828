package scoring

import "strings"

// Extracted item category labels
const (
	CategoryLanguage  = "programming-language"
	CategoryFramework = "framework"
	CategoryDatabase  = "database"
	CategoryCloud     = "cloud"
	CategoryDevops    = "devops"
	CategoryCSBasics  = "cs-fundamentals"
	CategoryArchitect = "architecture"
)

type (
	// ExtractedItem is a single recognized skill, technology or topic.
	ExtractedItem struct {
		Name     string
		Category string
	}

	// Extraction is the result of matching a problem's category and tags
	// against the recognized keyword buckets.
	Extraction struct {
		Skills []ExtractedItem
		Tech   []ExtractedItem
		Topics []ExtractedItem
	}
)

// keyword buckets: lower-cased keyword -> display name

var languages = map[string]string{
	"python":     "Python",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"java":       "Java",
	"go":         "Go",
	"golang":     "Go",
	"c++":        "C++",
	"cpp":        "C++",
	"c#":         "C#",
	"csharp":     "C#",
	"rust":       "Rust",
	"ruby":       "Ruby",
	"kotlin":     "Kotlin",
	"swift":      "Swift",
	"php":        "PHP",
}

var frameworks = map[string]string{
	"react":   "React",
	"angular": "Angular",
	"vue":     "Vue",
	"svelte":  "Svelte",
	"django":  "Django",
	"flask":   "Flask",
	"fastapi": "FastAPI",
	"spring":  "Spring",
	"express": "Express",
	"rails":   "Rails",
	"laravel": "Laravel",
	"next.js": "Next.js",
	"nextjs":  "Next.js",
	"node":    "Node.js",
	"nodejs":  "Node.js",
}

var databases = map[string]string{
	"mongodb":       "MongoDB",
	"postgresql":    "PostgreSQL",
	"postgres":      "PostgreSQL",
	"mysql":         "MySQL",
	"redis":         "Redis",
	"sqlite":        "SQLite",
	"elasticsearch": "Elasticsearch",
	"cassandra":     "Cassandra",
	"dynamodb":      "DynamoDB",
}

var cloudTools = map[string]string{
	"aws":    "AWS",
	"azure":  "Azure",
	"gcp":    "GCP",
	"heroku": "Heroku",
	"vercel": "Vercel",
}

var devopsTools = map[string]string{
	"docker":         "Docker",
	"kubernetes":     "Kubernetes",
	"jenkins":        "Jenkins",
	"terraform":      "Terraform",
	"ansible":        "Ansible",
	"git":            "Git",
	"github-actions": "GitHub Actions",
	"nginx":          "Nginx",
}

// topics: keyword -> {display name, category label}
var topics = map[string]ExtractedItem{
	"algorithms":          {Name: "Algorithms", Category: CategoryCSBasics},
	"dynamic-programming": {Name: "Dynamic Programming", Category: CategoryCSBasics},
	"system-design":       {Name: "System Design", Category: CategoryArchitect},
}

// ExtractSkills maps a problem's category and tags to recognized skills,
// technologies and topics. Pure function: case-insensitive, order-independent,
// every recognized item emitted once; unrecognized tags are silently dropped.
func ExtractSkills(category string, tags []string) Extraction {
	var ext Extraction
	seen := make(map[string]bool)

	add := func(list *[]ExtractedItem, item ExtractedItem) {
		if !seen[item.Name] {
			seen[item.Name] = true
			*list = append(*list, item)
		}
	}

	keywords := make([]string, 0, len(tags)+1)
	keywords = append(keywords, strings.ToLower(strings.TrimSpace(category)))
	for _, tag := range tags {
		keywords = append(keywords, strings.ToLower(strings.TrimSpace(tag)))
	}

	for _, kw := range keywords {
		if name, ok := languages[kw]; ok {
			add(&ext.Skills, ExtractedItem{Name: name, Category: CategoryLanguage})
		}
		if name, ok := frameworks[kw]; ok {
			add(&ext.Skills, ExtractedItem{Name: name, Category: CategoryFramework})
		}
		if name, ok := databases[kw]; ok {
			add(&ext.Tech, ExtractedItem{Name: name, Category: CategoryDatabase})
		}
		if name, ok := cloudTools[kw]; ok {
			add(&ext.Tech, ExtractedItem{Name: name, Category: CategoryCloud})
		}
		if name, ok := devopsTools[kw]; ok {
			add(&ext.Tech, ExtractedItem{Name: name, Category: CategoryDevops})
		}
		if topic, ok := topics[kw]; ok {
			add(&ext.Topics, topic)
		}
	}
	return ext
}
