package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func extractionNames(items []ExtractedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func TestExtractSkills(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		tags       []string
		wantSkills []string
		wantTech   []string
		wantTopics []string
	}{
		{
			name:       "language + devops + topic category",
			category:   "algorithms",
			tags:       []string{"python", "docker"},
			wantSkills: []string{"Python"},
			wantTech:   []string{"Docker"},
			wantTopics: []string{"Algorithms"},
		},
		{
			name:       "case insensitive",
			category:   "Algorithms",
			tags:       []string{"PYTHON", "Docker"},
			wantSkills: []string{"Python"},
			wantTech:   []string{"Docker"},
			wantTopics: []string{"Algorithms"},
		},
		{
			name:       "framework and database",
			category:   "web",
			tags:       []string{"react", "postgres"},
			wantSkills: []string{"React"},
			wantTech:   []string{"PostgreSQL"},
		},
		{
			name:       "aliases collapse to one entry",
			category:   "backend",
			tags:       []string{"go", "golang", "nodejs", "node"},
			wantSkills: []string{"Go", "Node.js"},
		},
		{
			name:       "topic from tag",
			category:   "practice",
			tags:       []string{"dynamic-programming", "system-design"},
			wantTopics: []string{"Dynamic Programming", "System Design"},
		},
		{
			name:     "unrecognized tags dropped silently",
			category: "misc",
			tags:     []string{"brainfuck", "whatever", ""},
		},
		{
			name:       "cloud tooling",
			category:   "devops",
			tags:       []string{"aws", "kubernetes", "terraform"},
			wantTech:   []string{"AWS", "Kubernetes", "Terraform"},
			wantSkills: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := ExtractSkills(tt.category, tt.tags)
			assert.ElementsMatch(t, tt.wantSkills, extractionNames(ext.Skills))
			assert.ElementsMatch(t, tt.wantTech, extractionNames(ext.Tech))
			assert.ElementsMatch(t, tt.wantTopics, extractionNames(ext.Topics))
		})
	}
}

func TestExtractSkills_OrderIndependent(t *testing.T) {
	a := ExtractSkills("algorithms", []string{"python", "docker", "react", "aws"})
	b := ExtractSkills("algorithms", []string{"aws", "react", "docker", "python"})

	assert.ElementsMatch(t, extractionNames(a.Skills), extractionNames(b.Skills))
	assert.ElementsMatch(t, extractionNames(a.Tech), extractionNames(b.Tech))
	assert.ElementsMatch(t, extractionNames(a.Topics), extractionNames(b.Topics))
}

func TestExtractSkills_CategoryLabels(t *testing.T) {
	ext := ExtractSkills("system-design", []string{"python", "react", "mongodb", "aws", "docker"})

	labels := make(map[string]string)
	for _, item := range append(append(ext.Skills, ext.Tech...), ext.Topics...) {
		labels[item.Name] = item.Category
	}

	want := map[string]string{
		"Python":        CategoryLanguage,
		"React":         CategoryFramework,
		"MongoDB":       CategoryDatabase,
		"AWS":           CategoryCloud,
		"Docker":        CategoryDevops,
		"System Design": CategoryArchitect,
	}
	for name, category := range want {
		if labels[name] != category {
			t.Errorf("label for %s = %q, want %q", name, labels[name], category)
		}
	}
}
