package cli

import (
	"time"

	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/discovery"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// ValidateFiles checks each document against its CUE schema and, when the
// schema passes, against the structural rules the engine relies on: catalog
// invariants for catalogs, known questions and option scores for answer
// sheets (checked against catalog).
func ValidateFiles(validator *cue.Validator, catalog *quiz.Catalog, files []discovery.File) *ValidationSummary {
	start := time.Now()
	engine := scoring.NewEngine(catalog, scoring.WithStrict(true))

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateFile(validator, engine, file))
	}
	return NewValidationSummary(start, results)
}

func validateFile(validator *cue.Validator, engine *scoring.Engine, file discovery.File) ValidationResult {
	result := ValidationResult{
		File:    file.RelPath,
		Type:    file.Type.String(),
		Success: true,
	}

	kind := cue.KindAnswers
	if file.Type == discovery.FileTypeCatalog {
		kind = cue.KindCatalog
	}

	schemaErrs, err := validator.ValidateFile(file.RelPath, file.Contents, kind)
	if err != nil {
		schemaErrs = append(schemaErrs, cue.ValidationError{File: file.RelPath, Message: err.Error(), Severity: "error"})
	}
	result.Errors = append(result.Errors, schemaErrs...)

	if !hasErrors(result.Errors) {
		result.Errors = append(result.Errors, structuralErrors(engine, file)...)
	}

	result.Success = !hasErrors(result.Errors)
	return result
}

func structuralErrors(engine *scoring.Engine, file discovery.File) []cue.ValidationError {
	if file.Type == discovery.FileTypeCatalog {
		if _, err := quiz.ParseCatalog(file.Contents); err != nil {
			return toValidationErrors(file.RelPath, err)
		}
		return nil
	}

	sheet, err := quiz.ParseAnswerSheet(file.Contents)
	if err != nil {
		return toValidationErrors(file.RelPath, err)
	}
	errs := toValidationErrors(file.RelPath, engine.Validate(sheet.Answers))
	if sheet.Lead != nil {
		errs = append(errs, toValidationErrors(file.RelPath, sheet.Lead.Validate())...)
	}
	return errs
}
