package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat decodes the request body into obj, accepting both an
// envelope ({"plan": {...}} for key "plan") and the flat object.
// The body is restored so it can be read again.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("corpo da requisição vazio")
	}

	var envelope map[string]json.RawMessage
	if json.Unmarshal(raw, &envelope) == nil {
		if nested, ok := envelope[key]; ok {
			raw = nested
		}
	}
	return json.Unmarshal(raw, obj)
}
