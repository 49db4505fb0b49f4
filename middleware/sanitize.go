package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// Sanitize trims leading and trailing whitespace from every string value in
// the request's path parameters, query string and JSON body before any
// validation runs. Non-string values and malformed bodies pass through
// untouched; binding reports those later.
func Sanitize() gin.HandlerFunc {
	return func(c *gin.Context) {
		for i, p := range c.Params {
			c.Params[i].Value = strings.TrimSpace(p.Value)
		}

		query := c.Request.URL.Query()
		changed := false
		for _, values := range query {
			for i, v := range values {
				trimmed := strings.TrimSpace(v)
				if trimmed != v {
					values[i] = trimmed
					changed = true
				}
			}
		}
		if changed {
			c.Request.URL.RawQuery = query.Encode()
		}

		// Any body that decodes as a JSON object gets trimmed, whatever the
		// declared content type: the validators bind JSON regardless of the
		// header, so sanitization has to keep pace.
		if c.Request.Body != nil {
			raw, err := io.ReadAll(c.Request.Body)
			if err == nil {
				if len(bytes.TrimSpace(raw)) > 0 {
					var body map[string]any
					if json.Unmarshal(raw, &body) == nil {
						trimStrings(body)
						if rewritten, err := json.Marshal(body); err == nil {
							raw = rewritten
						}
					}
				}
				c.Request.Body = io.NopCloser(bytes.NewReader(raw))
				c.Request.ContentLength = int64(len(raw))
			}
		}

		c.Next()
	}
}

// trimStrings rewrites string values in place, descending into arrays and
// the objects they hold so embedded song payloads are trimmed too.
func trimStrings(fields map[string]any) {
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			fields[key] = strings.TrimSpace(v)
		case []any:
			for i, item := range v {
				switch it := item.(type) {
				case string:
					v[i] = strings.TrimSpace(it)
				case map[string]any:
					trimStrings(it)
				}
			}
		}
	}
}
