package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

// ParseDocument loads a configuration-set document from disk, validates it,
// and returns the resulting model. Unknown top-level keys are rejected so a
// misspelled field fails loudly instead of silently applying nothing.
func ParseDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, hosterrors.NewParseError(path, 0, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, hosterrors.NewParseError(path, documentLine(err), err)
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// documentLine digs the offending line number out of a yaml.v3 error.
// Type errors carry one "line N: ..." message per bad field; syntax errors
// embed the position in their text. The first located line wins; zero means
// the error carries no position.
func documentLine(err error) int {
	if err == nil {
		return 0
	}

	messages := []string{err.Error()}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		messages = typeErr.Errors
	}

	for _, message := range messages {
		offset := strings.Index(message, "line ")
		if offset < 0 {
			continue
		}

		var line int
		if _, scanErr := fmt.Sscanf(message[offset:], "line %d", &line); scanErr == nil && line > 0 {
			return line
		}
	}

	return 0
}
