package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	groundcheck "github.com/ashita-ai/groundcheck"
)

// memoryFile accepts both supported shapes: a bare JSON array of memory
// objects, or an object with a "memories" key.
type memoryFile struct {
	Memories []memoryEntry `json:"memories"`
}

// memoryEntry is one memory as it appears on disk. Trust is a pointer so
// an absent field defaults to 1.0 while an explicit 0.0 survives.
type memoryEntry struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Trust     *float64 `json:"trust"`
	Timestamp *int64   `json:"timestamp"`
}

// loadMemories reads a memory file and applies defaults: trust 1.0 when
// absent, a generated id when absent. Malformed shapes and out-of-range
// trust are rejected.
func loadMemories(path string) ([]groundcheck.Memory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read memories: %w", err)
	}

	var entries []memoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		var doc memoryFile
		if err2 := json.Unmarshal(raw, &doc); err2 != nil {
			return nil, fmt.Errorf("parse memories %s: %w", path, err)
		}
		if doc.Memories == nil {
			return nil, fmt.Errorf("parse memories %s: expected an array or an object with a \"memories\" key", path)
		}
		entries = doc.Memories
	}

	out := make([]groundcheck.Memory, 0, len(entries))
	for i, e := range entries {
		if e.Text == "" {
			return nil, fmt.Errorf("parse memories %s: entry %d has no text", path, i)
		}
		trust := 1.0
		if e.Trust != nil {
			trust = *e.Trust
		}
		if trust < 0 || trust > 1 {
			return nil, fmt.Errorf("parse memories %s: entry %d: trust %v outside [0,1]", path, i, trust)
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, groundcheck.Memory{
			ID:        id,
			Text:      e.Text,
			Trust:     trust,
			Timestamp: e.Timestamp,
		})
	}
	return out, nil
}
