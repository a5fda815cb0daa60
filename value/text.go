package value

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
)

// Text renders a plain scalar as a string.
// Handles: string, []byte, json.Number, numeric types, bool, time.Time, nil
func Text(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case json.Number:
		return val.String()
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// TextOption configures text extraction behavior.
type TextOption func(*textConfig)

type textConfig struct {
	stripHTML          bool
	collapseWhitespace bool
}

// WithStripHTML removes HTML tags from text.
func WithStripHTML() TextOption {
	return func(c *textConfig) {
		c.stripHTML = true
	}
}

// WithCollapseWhitespace normalizes whitespace to single spaces.
func WithCollapseWhitespace() TextOption {
	return func(c *textConfig) {
		c.collapseWhitespace = true
	}
}

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

func textOf(v any, opts ...TextOption) string {
	cfg := &textConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	s := Text(v)
	if cfg.stripHTML {
		s = htmlTagRegex.ReplaceAllString(s, "")
		s = html.UnescapeString(s)
	}
	if cfg.collapseWhitespace {
		s = multiSpaceRegex.ReplaceAllString(s, " ")
	}
	return strings.TrimSpace(s)
}
