package cue

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Document kinds understood by the validator.
const (
	KindCatalog = "catalog"
	KindAnswers = "answers"
	KindLead    = "lead"
)

// ValidationError represents a validation error
type ValidationError struct {
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"` // dotted field path inside the document
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"` // error, warning
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// Validator handles CUE validation. It is safe for concurrent use; calls
// share one cue.Context and are serialized.
type Validator struct {
	mu      sync.Mutex // guards ctx and every value built from it
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded schema file.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), instErr)
		}

		// catalog.cue -> catalog
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// ValidateCatalog validates a decoded catalog definition
func (v *Validator) ValidateCatalog(data map[string]any) ([]ValidationError, error) {
	return v.validate(KindCatalog, data)
}

// ValidateAnswers validates a decoded answer sheet. An embedded lead is
// checked against the lead schema as well.
func (v *Validator) ValidateAnswers(data map[string]any) ([]ValidationError, error) {
	errs, err := v.validate(KindAnswers, data)
	if err != nil {
		return nil, err
	}
	if l, ok := data["lead"].(map[string]any); ok {
		leadErrs, err := v.validate(KindLead, l)
		if err != nil {
			return nil, err
		}
		for i := range leadErrs {
			leadErrs[i].Path = joinPath("lead", leadErrs[i].Path)
		}
		errs = append(errs, leadErrs...)
	}
	return errs, nil
}

// ValidateLead validates decoded lead details
func (v *Validator) ValidateLead(data map[string]any) ([]ValidationError, error) {
	return v.validate(KindLead, data)
}

func (v *Validator) validate(kind string, data map[string]any) ([]ValidationError, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	schema, ok := v.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("schema %q not loaded", kind)
	}

	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	// catalog -> #Catalog
	def := schema.LookupPath(cue.ParsePath("#" + strings.ToUpper(kind[:1]) + kind[1:]))
	if !def.Exists() {
		return nil, fmt.Errorf("schema %q has no definition", kind)
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrorsFromCUE(err), nil
	}

	// Concreteness catches missing required fields.
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrorsFromCUE(err), nil
	}
	return nil, nil
}

// extractErrorsFromCUE splits a CUE error into one ValidationError per problem
func extractErrorsFromCUE(err error) []ValidationError {
	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		ve := ValidationError{
			Path:     strings.Join(e.Path(), "."),
			Message:  e.Error(),
			Severity: "error",
		}
		if pos := e.Position(); pos.IsValid() {
			ve.Line = pos.Line()
			ve.Column = pos.Column()
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error(), Severity: "error"})
	}
	return out
}

func joinPath(prefix, p string) string {
	if p == "" {
		return prefix
	}
	return prefix + "." + p
}

// DecodeDocument parses a YAML or JSON document into a generic map
func DecodeDocument(content []byte) (map[string]any, error) {
	var data map[string]any
	if err := yamlv3.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("error parsing document: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}

// DetectKind guesses whether a decoded document is a catalog or an answer sheet.
func DetectKind(data map[string]any) string {
	if _, ok := data["questions"]; ok {
		return KindCatalog
	}
	if _, ok := data["answers"]; ok {
		return KindAnswers
	}
	if _, ok := data["email"]; ok {
		return KindLead
	}
	return KindAnswers
}

// ValidateFile decodes content and validates it as kind. An empty kind is
// detected from the document.
func (v *Validator) ValidateFile(file string, content []byte, kind string) ([]ValidationError, error) {
	data, err := DecodeDocument(content)
	if err != nil {
		return []ValidationError{{
			File:     file,
			Message:  err.Error(),
			Severity: "error",
		}}, nil
	}
	if kind == "" {
		kind = DetectKind(data)
	}

	var errs []ValidationError
	switch kind {
	case KindCatalog:
		errs, err = v.ValidateCatalog(data)
	case KindAnswers:
		errs, err = v.ValidateAnswers(data)
	case KindLead:
		errs, err = v.ValidateLead(data)
	default:
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
	if err != nil {
		return nil, err
	}
	for i := range errs {
		errs[i].File = file
	}
	return errs, nil
}
