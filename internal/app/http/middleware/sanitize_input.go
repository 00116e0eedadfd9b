package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeAndCleanInputMiddleware strips markup from every string in a JSON
// body, including strings nested in objects and arrays. Password fields are
// left untouched because they are hashed exactly as typed.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		var body interface{}
		if err := dec.Decode(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		newBody, err := json.Marshal(sanitizeValue(body))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

func sanitizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return sanitizeString(t)
	case map[string]interface{}:
		for k, val := range t {
			if isSecretKey(k) {
				continue
			}
			t[k] = sanitizeValue(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = sanitizeValue(val)
		}
		return t
	default:
		return v
	}
}

// sanitizeString removes tags but keeps plain text readable: the policy
// entity-encodes what it leaves behind, so the result is decoded again.
// Encoded markup in the input is decoded first so it cannot survive as tags.
func sanitizeString(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(s)))
}

func isSecretKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "password")
}
