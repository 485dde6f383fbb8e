package scene

import (
	"net/url"
	"strconv"
	"strings"

	"venueops-sim/internal/config"
)

// Unseeded is the seed value that lets the image service pick its own.
const Unseeded = -1

// BuildImageURL composes the image endpoint for prompt. The prompt becomes a
// single path segment with every reserved byte percent-encoded; query keys
// keep a fixed order.
func BuildImageURL(cfg config.Client, prompt string, seed int) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(cfg.BaseURL, "/"))
	b.WriteString("/image/")
	b.WriteString(escapeSegment(prompt))
	b.WriteString("?model=")
	b.WriteString(url.QueryEscape(cfg.ImageModel))
	b.WriteString("&width=")
	b.WriteString(strconv.Itoa(cfg.ImageWidth))
	b.WriteString("&height=")
	b.WriteString(strconv.Itoa(cfg.ImageHeight))
	b.WriteString("&seed=")
	b.WriteString(strconv.Itoa(seed))
	b.WriteString("&safe=false&enhance=true")
	return b.String()
}

// escapeSegment leaves only RFC 3986 unreserved characters as-is.
// QueryEscape already encodes every reserved byte and only differs by
// writing spaces as '+'; a literal '+' has become %2B by then.
func escapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
