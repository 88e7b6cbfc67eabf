// Package prompts holds the embedded generation prompts. Each prompt file maps
// a task name to a system instruction and a user template written in
// text/template syntax, e.g. "Write a letter for {{.Title}}".
package prompts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt is the pair of texts sent for one generation task.
type Prompt struct {
	System string `json:"system"`
	User   string `json:"user"`

	tmpl *template.Template
}

// Set is every prompt in one file, with templates parsed up front.
type Set struct {
	file    string
	prompts map[string]*Prompt
}

// Load reads filename (e.g. "generation.json") from the embedded files and
// parses every user template.
func Load(filename string) (*Set, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]*Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	for task, p := range prompts {
		if p == nil || p.User == "" {
			return nil, fmt.Errorf("prompt %s/%s has no user template", filename, task)
		}
		// missingkey=error turns a renamed placeholder into a render error
		// instead of "<no value>" reaching the model.
		p.tmpl, err = template.New(task).Option("missingkey=error").Parse(p.User)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s/%s: %w", filename, task, err)
		}
	}
	return &Set{file: filename, prompts: prompts}, nil
}

// MustLoad is Load for prompt files required at startup. It panics on error.
func MustLoad(filename string) *Set {
	s, err := Load(filename)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	return s
}

// Get returns the prompt for task.
func (s *Set) Get(task string) (*Prompt, error) {
	p, ok := s.prompts[task]
	if !ok {
		return nil, fmt.Errorf("prompt %q not found in %s", task, s.file)
	}
	return p, nil
}

// Render fills the user template of task from data.
func (s *Set) Render(task string, data map[string]string) (string, error) {
	p, err := s.Get(task)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", s.file, task, err)
	}
	return buf.String(), nil
}

// Tasks returns the task names in the file, sorted.
func (s *Set) Tasks() []string {
	tasks := make([]string, 0, len(s.prompts))
	for task := range s.prompts {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	return tasks
}
