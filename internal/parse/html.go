package parse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser extracts visible text from a static HTML document. Pages that
// require client-side rendering fail here; headless rendering is outside
// this capability.
type HTMLParser struct{}

// Parse reads the HTML at path and returns its visible text.
func (p *HTMLParser) Parse(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open html: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	text := CollapseWhitespace(doc.Find("body").Text())
	if text == "" {
		text = CollapseWhitespace(doc.Text())
	}
	if text == "" {
		return "", errors.New("html contains no visible text")
	}
	return text, nil
}

// CollapseWhitespace squeezes runs of whitespace into single spaces while
// keeping line boundaries.
func CollapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			out = append(out, strings.Join(fields, " "))
		}
	}
	return strings.Join(out, "\n")
}
