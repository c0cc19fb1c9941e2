package legaldocs

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the metadata block at the top of a document source file.
// Version is normalized to a string: legal sources declare it either as a
// number (1, 2.0) or a string ("2.0-beta"), and both must round-trip into
// acceptance records unchanged.
type FrontMatter struct {
	Title     string
	Version   string
	Semver    string
	ValidFrom string
}

type frontMatterYAML struct {
	Title     string     `yaml:"title"`
	Version   flexScalar `yaml:"version"`
	Semver    string     `yaml:"semver"`
	ValidFrom string     `yaml:"valid_from"`
}

// flexScalar accepts a YAML scalar of any primitive type and keeps its
// canonical string form.
type flexScalar string

func (f *flexScalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar, got %v", node.Kind)
	}
	*f = flexScalar(strings.TrimSpace(node.Value))
	return nil
}

// ParseFrontMatter splits a document that starts with `---` YAML fences into
// its metadata and body. A document without a front matter block is returned
// whole as body with empty metadata.
func ParseFrontMatter(content []byte) (FrontMatter, []byte, error) {
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return FrontMatter{}, normalized, nil
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return FrontMatter{}, nil, fmt.Errorf("unterminated front matter block")
	}
	var meta frontMatterYAML
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}
	body := bytes.TrimLeft(parts[1], "\n")
	return FrontMatter{
		Title:     meta.Title,
		Version:   string(meta.Version),
		Semver:    meta.Semver,
		ValidFrom: meta.ValidFrom,
	}, body, nil
}
