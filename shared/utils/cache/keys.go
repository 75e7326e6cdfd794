package cache

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// InitialGeneration is used while an organization has no generation stored.
const InitialGeneration = "0"

// ProjectGenerationKey holds the organization's cache generation. Writes
// replace it, which orphans every project entry filled under the old value.
func ProjectGenerationKey(orgID uuid.UUID) string {
	return fmt.Sprintf("projects:gen:%s", orgID)
}

// ProjectListPrefix is shared by every list entry of one organization.
func ProjectListPrefix(orgID uuid.UUID) string {
	return fmt.Sprintf("projects:list:%s:", orgID)
}

// ProjectListKey encodes the generation and the normalized list input into
// the key. input must marshal deterministically, so pass a struct rather
// than a map.
func ProjectListKey(orgID uuid.UUID, generation string, input interface{}) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	return ProjectListPrefix(orgID) + generation + ":" + string(encoded), nil
}

func ProjectKey(orgID uuid.UUID, generation string, projectID uuid.UUID) string {
	return fmt.Sprintf("projects:get:%s:%s:%s", orgID, generation, projectID)
}
