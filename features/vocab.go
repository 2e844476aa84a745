package features

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Vocabulary maps composed "{feature}_{value}" keys to one-hot vector
// indices. Keys are unique; indices lie in [0, VectorLength).
type Vocabulary map[string]int

// vocabSchema constrains the vocabulary document shape before it is
// accepted: a "vocab_mapping" object whose entries carry an integer index.
const vocabSchema = `{
	"type": "object",
	"required": ["vocab_mapping"],
	"properties": {
		"vocab_mapping": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"required": ["index"],
				"properties": {
					"index": {"type": "integer", "minimum": 0}
				}
			}
		}
	}
}`

// LoadVocabulary reads and validates the vocabulary JSON document.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary validates the document against the vocabulary schema and
// extracts the key-to-index mapping.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(vocabSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate vocabulary document: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("invalid vocabulary document: %s", result.Errors()[0])
	}

	var doc struct {
		VocabMapping map[string]struct {
			Index int `json:"index"`
		} `json:"vocab_mapping"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary document: %w", err)
	}

	vocab := make(Vocabulary, len(doc.VocabMapping))
	for key, entry := range doc.VocabMapping {
		vocab[key] = entry.Index
	}
	return vocab, nil
}
