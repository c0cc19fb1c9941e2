package legaldocs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/marketbridge-backend/internal/apierr"
	"github.com/yungbote/marketbridge-backend/internal/logger"
)

// RenderedDocument is ephemeral render output; nothing here is persisted.
// Version is what downstream acceptance records store, so the front matter
// override in Render must stay.
type RenderedDocument struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Version   string `json:"version"`
	Checksum  string `json:"checksum"`
	ValidFrom string `json:"valid_from,omitempty"`
	HTML      string `json:"html"`
}

type Renderer struct {
	log   *logger.Logger
	store *Store
}

func NewRenderer(log *logger.Logger, store *Store) *Renderer {
	return &Renderer{
		log:   log.With("service", "LegalDocRenderer"),
		store: store,
	}
}

var placeholderRE = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.-]+)\s*\}\}`)

// Render resolves kind (and an optional explicit version, "" for the
// manifest's current one) into a displayable document.
//
// The checksum is computed over the raw pre-substitution source bytes, not
// the rendered output: it tracks changes to the legal text itself and stays
// stable when only a variable set changes. Do not "fix" this into a
// rendered-output hash; every stored acceptance checksum depends on it.
func (r *Renderer) Render(kind, explicitVersion string) (*RenderedDocument, error) {
	manifest, err := r.store.Manifest()
	if err != nil {
		return nil, err
	}
	entry, ok := manifest[kind]
	if !ok {
		return nil, apierr.New(http.StatusNotFound, "unknown_type", fmt.Errorf("unknown document kind %q", kind))
	}

	version := entry.Current
	if strings.TrimSpace(explicitVersion) != "" {
		v, convErr := strconv.Atoi(strings.TrimSpace(explicitVersion))
		if convErr != nil {
			return nil, apierr.New(http.StatusNotFound, "version_not_found", fmt.Errorf("non-numeric version %q for kind %q", explicitVersion, kind))
		}
		version = v
	}
	file, ok := entry.Files[version]
	if !ok {
		return nil, apierr.New(http.StatusNotFound, "version_not_found", fmt.Errorf("kind %q has no file mapping for version %d", kind, version))
	}

	raw, err := r.store.src.ReadFile(r.store.DocPath(file.Path))
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, "file_missing", fmt.Errorf("read document source %q: %w", file.Path, err))
	}
	checksum := ChecksumBytes(raw)

	meta, body, err := ParseFrontMatter(raw)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "file_missing", fmt.Errorf("document source %q: %w", file.Path, err))
	}

	vars, err := r.store.VariableSet(file.Vars)
	if err != nil {
		return nil, err
	}

	title := Substitute(meta.Title, vars)
	if strings.TrimSpace(title) == "" {
		title = entry.Title
	}
	validFrom := Substitute(meta.ValidFrom, vars)
	rendered := Substitute(string(body), vars)

	// Front matter wins over the manifest's numeric version.
	docVersion := meta.Version
	if docVersion == "" {
		docVersion = strconv.Itoa(version)
	}

	return &RenderedDocument{
		Kind:      kind,
		Title:     title,
		Version:   docVersion,
		Checksum:  checksum,
		ValidFrom: validFrom,
		HTML:      ToHTML(title, rendered),
	}, nil
}

// Substitute replaces every {{a.b.c}} occurrence by walking the dotted path
// through the variable set. A missing path — including a too-short path or a
// non-map value partway down — substitutes the empty string. Swallowing the
// miss is deliberate: a degraded document beats a broken legal page.
func Substitute(text string, vars map[string]interface{}) string {
	if text == "" {
		return ""
	}
	return placeholderRE.ReplaceAllStringFunc(text, func(m string) string {
		match := placeholderRE.FindStringSubmatch(m)
		if len(match) != 2 {
			return ""
		}
		return lookupPath(vars, match[1])
	})
}

func lookupPath(vars map[string]interface{}, dotted string) string {
	var current interface{} = vars
	for _, segment := range strings.Split(dotted, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = node[segment]
		if !ok {
			return ""
		}
	}
	switch v := current.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}, []interface{}:
		// A path that stops at a container has no scalar to print.
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func ChecksumBytes(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ToHTML converts the substituted body into displayable HTML: a synthesized
// top-level heading from the title, then escaped paragraphs.
func ToHTML(title, body string) string {
	var b strings.Builder
	b.WriteString("<h1>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</h1>\n")

	trimmed := strings.TrimSpace(normalizeText(body))
	if trimmed == "" {
		return b.String()
	}
	paragraphs := strings.Split(trimmed, "\n\n")
	for _, p := range paragraphs {
		escaped := html.EscapeString(strings.TrimSpace(p))
		escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
		b.WriteString("<p>")
		b.WriteString(escaped)
		b.WriteString("</p>\n")
	}
	return b.String()
}

func normalizeText(in string) string {
	s := strings.ReplaceAll(in, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.Join(lines, "\n")
}
