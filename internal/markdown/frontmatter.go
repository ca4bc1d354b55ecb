package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the optional YAML header of a devlog file.
type Frontmatter struct {
	Title string   `yaml:"title"`
	Date  string   `yaml:"date,omitempty"`
	Tags  []string `yaml:"tags,omitempty"`
	Theme string   `yaml:"theme,omitempty"` // Overrides the renderer's code theme
}

// parseFrontmatter splits a leading "---" YAML block from the body.
// Documents without one return an empty Frontmatter and the full source.
func parseFrontmatter(src []byte) (Frontmatter, []byte, error) {
	var meta Frontmatter

	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return meta, src, nil
	}

	parts := bytes.SplitN(normalized, []byte("---\n"), 3)
	if len(parts) < 3 {
		return meta, nil, fmt.Errorf("invalid frontmatter: missing closing ---")
	}

	if err := yaml.Unmarshal(parts[1], &meta); err != nil {
		return meta, nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	return meta, parts[2], nil
}
