package profile

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/types"
)

// DecodeResume decodes a stored parser output after validating it against the
// resume schema. Empty input means no parsed resume and returns nil, nil.
func DecodeResume(raw []byte) (*types.Resume, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if err := schemas.Validate(schemas.Resume, raw); err != nil {
		return nil, err
	}
	var resume types.Resume
	if err := json.Unmarshal(raw, &resume); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	return &resume, nil
}
