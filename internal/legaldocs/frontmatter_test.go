package legaldocs

import (
	"strings"
	"testing"
)

func TestParseFrontMatter(t *testing.T) {
	cases := []struct {
		name        string
		content     string
		wantTitle   string
		wantVersion string
		wantBody    string
		wantErr     bool
	}{
		{
			name:        "string_version",
			content:     "---\ntitle: Vendor Terms\nversion: \"2.0\"\n---\nBody text.\n",
			wantTitle:   "Vendor Terms",
			wantVersion: "2.0",
			wantBody:    "Body text.\n",
		},
		{
			name:        "numeric_version",
			content:     "---\ntitle: Vendor Terms\nversion: 2\n---\nBody text.\n",
			wantTitle:   "Vendor Terms",
			wantVersion: "2",
			wantBody:    "Body text.\n",
		},
		{
			name:        "float_version",
			content:     "---\nversion: 1.5\n---\nx\n",
			wantVersion: "1.5",
			wantBody:    "x\n",
		},
		{
			name:     "no_front_matter_returns_whole_body",
			content:  "Just a body with no fences.\n",
			wantBody: "Just a body with no fences.\n",
		},
		{
			name:    "unterminated_block",
			content: "---\ntitle: broken\nno closing fence\n",
			wantErr: true,
		},
		{
			name:        "crlf_normalized",
			content:     "---\r\ntitle: T\r\nversion: \"1.0\"\r\n---\r\nline\r\n",
			wantTitle:   "T",
			wantVersion: "1.0",
			wantBody:    "line\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta, body, err := ParseFrontMatter([]byte(tc.content))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got meta=%+v body=%q", meta, body)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if meta.Title != tc.wantTitle {
				t.Fatalf("title=%q, want %q", meta.Title, tc.wantTitle)
			}
			if meta.Version != tc.wantVersion {
				t.Fatalf("version=%q, want %q", meta.Version, tc.wantVersion)
			}
			if string(body) != tc.wantBody {
				t.Fatalf("body=%q, want %q", string(body), tc.wantBody)
			}
		})
	}
}

func TestParseFrontMatterOptionalFields(t *testing.T) {
	content := "---\ntitle: T\nversion: \"3.1\"\nsemver: 3.1.0\nvalid_from: \"{{dates.effective}}\"\n---\nbody\n"
	meta, _, err := ParseFrontMatter([]byte(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Semver != "3.1.0" {
		t.Fatalf("semver=%q, want 3.1.0", meta.Semver)
	}
	if !strings.Contains(meta.ValidFrom, "dates.effective") {
		t.Fatalf("valid_from=%q, want raw placeholder preserved", meta.ValidFrom)
	}
}
