package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"coursepanel/internal/domain"
	models "coursepanel/internal/domain/models/catalog"
)

// maxReorderBody bounds reorder payloads
const maxReorderBody = 1 << 20

// decodeReorderPayload accepts either a bare array of {id, order} items
// or an object wrapping the array under key ("chapters" or "lessons").
func decodeReorderPayload(w http.ResponseWriter, r *http.Request, key string) ([]models.ReorderItem, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxReorderBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrValidation, err)
	}
	body = bytes.TrimSpace(body)

	raw := json.RawMessage(body)
	if len(body) > 0 && body[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
		}
		var ok bool
		if raw, ok = wrapper[key]; !ok {
			return nil, fmt.Errorf("%w: expected an array or an object with %q", domain.ErrValidation, key)
		}
	}

	var items []models.ReorderItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: reorder payload must be an array of {id, order}: %v", domain.ErrValidation, err)
	}
	return items, nil
}
