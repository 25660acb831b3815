package gameplan

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// DecodeResult carries either the decoded substitution list or the parse
// failure, so callers render an empty rotation entry instead of crashing on
// a malformed stored blob.
type DecodeResult struct {
	Substitutions []PlannedSubstitution
	Err           error
}

// OK reports whether the blob decoded cleanly.
func (r DecodeResult) OK() bool {
	return r.Err == nil
}

func EncodeSubstitutions(subs []PlannedSubstitution) (string, error) {
	if subs == nil {
		subs = []PlannedSubstitution{}
	}

	encoded, err := sonic.Marshal(subs)
	if err != nil {
		return "", fmt.Errorf("encode planned substitutions: %w", err)
	}
	return string(encoded), nil
}

func DecodeSubstitutions(raw string) DecodeResult {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DecodeResult{Substitutions: []PlannedSubstitution{}}
	}

	var subs []PlannedSubstitution
	if err := sonic.Unmarshal([]byte(raw), &subs); err != nil {
		return DecodeResult{
			Substitutions: []PlannedSubstitution{},
			Err:           fmt.Errorf("decode planned substitutions: %w", err),
		}
	}
	if subs == nil {
		subs = []PlannedSubstitution{}
	}

	return DecodeResult{Substitutions: subs}
}
