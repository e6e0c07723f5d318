// Package examfile reads exams written as YAML files for the command line exporter.
package examfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/gabarito/layout"
)

// questionNamespace seeds the deterministic IDs given to questions without one.
var questionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ByLCY/gabarito/question"))

// Load reads an exam file from disk.
func Load(path string) (layout.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Document{}, fmt.Errorf("failed to read exam: %w", err)
	}
	return Parse(data)
}

// Parse decodes an exam. Questions without an id get a stable one derived from
// their position and statement, so the same file always yields the same ids.
func Parse(data []byte) (layout.Document, error) {
	var doc layout.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layout.Document{}, fmt.Errorf("failed to parse exam: %w", err)
	}
	if doc.Version != nil && strings.TrimSpace(*doc.Version) == "" {
		doc.Version = nil
	}
	for i := range doc.Questions {
		q := &doc.Questions[i]
		q.Statement = strings.TrimSpace(q.Statement)
		if q.ID == "" {
			q.ID = QuestionID(i, q.Statement)
		}
	}
	return doc, nil
}

// QuestionID returns the deterministic id for the question at index.
func QuestionID(index int, statement string) string {
	return uuid.NewSHA1(questionNamespace, []byte(strconv.Itoa(index)+"\x00"+statement)).String()
}
