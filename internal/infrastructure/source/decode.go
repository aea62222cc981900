package source

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"mortgage_deals/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

var errUnexpectedPayload = errors.New("payload is neither an array nor a deals envelope")

// decodeCandidates accepts a JSON array of objects or {"deals": [...]}.
func decodeCandidates(raw []byte) ([]value.Candidate, error) {
	raw = bytes.TrimSpace(raw)

	switch {
	case len(raw) == 0:
		return nil, errUnexpectedPayload
	case raw[0] == '[':
		var candidates []value.Candidate
		if err := json.Unmarshal(raw, &candidates); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
		return dropNil(candidates), nil
	case raw[0] == '{':
		var envelope struct {
			Deals []value.Candidate `json:"deals"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
		if envelope.Deals == nil {
			return nil, errUnexpectedPayload
		}
		return dropNil(envelope.Deals), nil
	}

	return nil, errUnexpectedPayload
}

// dropNil removes JSON nulls inside the array.
func dropNil(candidates []value.Candidate) []value.Candidate {
	out := candidates[:0]
	for _, c := range candidates {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
