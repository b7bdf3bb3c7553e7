package docstore

import (
	"encoding/json"
	"fmt"
)

// MergeFields overlays top-level fields onto an existing JSON document and
// returns the merged document. A nil existing document is treated as empty,
// so a merge against a missing document creates it from the fields alone.
// Shared by backends without a native merge operation.
func MergeFields(existing json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	doc := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal existing document: %w", err)
		}
	}

	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged document: %w", err)
	}
	return merged, nil
}
