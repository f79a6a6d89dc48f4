package utils

import (
	"encoding/json"
	"fmt"
)

// ParseTradierResponse unwraps the two level envelope tradier puts around list results,
// e.g. {"positions": {"position": [...]}}. A single element is returned as an object
// instead of an array, and an empty list as the string "null".
func ParseTradierResponse[T any](response []byte) ([]T, error) {
	outer := make(map[string]json.RawMessage)
	if err := json.Unmarshal(response, &outer); err != nil {
		return nil, fmt.Errorf("ParseTradierResponse(): failed to unmarshal envelope: %w", err)
	}

	if len(outer) != 1 {
		return nil, fmt.Errorf("ParseTradierResponse(): expected 1 key in envelope, got %d", len(outer))
	}

	var body json.RawMessage
	for _, v := range outer {
		body = v
	}

	if string(body) == "\"null\"" || string(body) == "null" {
		return []T{}, nil
	}

	inner := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &inner); err != nil {
		return nil, fmt.Errorf("ParseTradierResponse(): failed to unmarshal body: %w", err)
	}

	if len(inner) != 1 {
		return nil, fmt.Errorf("ParseTradierResponse(): expected 1 key in body, got %d", len(inner))
	}

	var items json.RawMessage
	for _, v := range inner {
		items = v
	}

	var list []T
	if err := json.Unmarshal(items, &list); err == nil {
		return list, nil
	}

	var single T
	if err := json.Unmarshal(items, &single); err != nil {
		return nil, fmt.Errorf("ParseTradierResponse(): failed to unmarshal items: %w", err)
	}

	return []T{single}, nil
}
