package quiz

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dotcommander/scorecard/internal/lead"
	"gopkg.in/yaml.v3"
)

// AnswerSheet is a completed (or partial) submission read from a file.
type AnswerSheet struct {
	Lead    *lead.Lead `json:"lead,omitempty" yaml:"lead,omitempty"`
	Answers Answers    `json:"answers" yaml:"answers"`
}

// ParseCatalog decodes a YAML or JSON catalog definition and validates it.
func ParseCatalog(data []byte) (*Catalog, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	return New(def)
}

// ReadCatalogFile loads a catalog definition from path.
func ReadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseAnswerSheet decodes a YAML or JSON answer sheet.
func ParseAnswerSheet(data []byte) (AnswerSheet, error) {
	var sheet AnswerSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return AnswerSheet{}, fmt.Errorf("error parsing answers: %w", err)
	}
	if sheet.Answers == nil {
		sheet.Answers = Answers{}
	}
	return sheet, nil
}

// ReadAnswerSheet loads an answer sheet from path.
func ReadAnswerSheet(path string) (AnswerSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AnswerSheet{}, fmt.Errorf("error reading answers %s: %w", path, err)
	}
	sheet, err := ParseAnswerSheet(data)
	if err != nil {
		return AnswerSheet{}, fmt.Errorf("%s: %w", path, err)
	}
	return sheet, nil
}

// ParseAnswerFlags turns "q1=15" pairs into Answers. Later pairs win.
func ParseAnswerFlags(pairs []string) (Answers, error) {
	answers := make(Answers, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid answer %q: expected <question>=<score>", pair)
		}
		score, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid answer %q: score must be an integer", pair)
		}
		answers[id] = score
	}
	return answers, nil
}

// Merge returns a copy of a overlaid with b.
func (a Answers) Merge(b Answers) Answers {
	out := make(Answers, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
