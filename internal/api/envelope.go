package api

import (
	"context"
	"encoding/json"
	"net/http"

	"mercadillo/pkg/errors"
)

// The backend is mid-migration and list endpoints answer with either a bare
// array or a paginated envelope {results, count, next, previous}. Every list
// in the client decodes through this one boundary so nothing downstream ever
// sees both shapes.
type listEnvelope struct {
	Results  json.RawMessage `json:"results"`
	Count    int             `json:"count"`
	Next     string          `json:"next"`
	Previous string          `json:"previous"`
}

// decodeList unmarshals raw list JSON into out (a pointer to a slice) and
// returns the total count. For bare arrays the total is the slice length.
func decodeList(raw json.RawMessage, out interface{}) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	if raw[0] == '[' {
		if err := json.Unmarshal(raw, out); err != nil {
			return 0, errors.Internal("failed to decode list response", err)
		}
		return sliceLen(raw), nil
	}

	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return 0, errors.Internal("failed to decode list envelope", err)
	}
	if env.Results == nil {
		return 0, nil
	}
	if err := json.Unmarshal(env.Results, out); err != nil {
		return 0, errors.Internal("failed to decode envelope results", err)
	}
	count := env.Count
	if count == 0 {
		count = sliceLen(env.Results)
	}
	return count, nil
}

func sliceLen(raw json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}

// getList fetches endpoint and decodes either list shape into out.
func (c *Client) getList(ctx context.Context, endpoint string, out interface{}) (int, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return 0, err
	}
	return decodeList(raw, out)
}
