package gateway

import (
	"encoding/json"
	"strings"

	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	fhttp "github.com/shashiranjanraj/foodrun/pkg/http"
)

// fallbackMessage is used when an error body carries no usable message.
const fallbackMessage = "Request failed"

// normalize turns a non-2xx response into a RemoteError. The message comes
// from the body's detail/error/message field; validation-style sub-error
// arrays are joined with "; ". An unparseable body falls back to a generic
// message. The status code rides separately so display code can drop it.
func normalize(resp *fhttp.Response) error {
	msg := extractMessage(resp.Raw)
	if msg == "" {
		msg = fallbackMessage
	}
	return &apierr.RemoteError{Message: msg, StatusCode: resp.StatusCode}
}

func extractMessage(raw []byte) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "error", "message"} {
		field, ok := doc[key]
		if !ok {
			continue
		}
		if msg := fieldMessage(field); msg != "" {
			return msg
		}
	}
	return ""
}

// fieldMessage renders one error field: either a plain string or an array
// of sub-errors, each a string or an object with a msg/message key.
func fieldMessage(field json.RawMessage) string {
	var s string
	if json.Unmarshal(field, &s) == nil {
		return s
	}

	var items []json.RawMessage
	if json.Unmarshal(field, &items) != nil {
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		var str string
		if json.Unmarshal(item, &str) == nil {
			parts = append(parts, str)
			continue
		}
		var obj map[string]interface{}
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		if msg, ok := obj["msg"].(string); ok && msg != "" {
			parts = append(parts, msg)
		} else if msg, ok := obj["message"].(string); ok && msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}
