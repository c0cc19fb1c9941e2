package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/marketbridge-backend/internal/apierr"
	"github.com/yungbote/marketbridge-backend/internal/legaldocs"
	"github.com/yungbote/marketbridge-backend/internal/logger"
)

type DocumentMetadata struct {
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Version   string `json:"version,omitempty"`
	Checksum  string `json:"checksum,omitempty"`
	PublicURL string `json:"public_url,omitempty"`
	Code      string `json:"code,omitempty"`
}

type DocumentService interface {
	// Metadata resolves each kind independently: a kind that fails to
	// resolve degrades to a per-entry code instead of failing the batch.
	Metadata(kinds []string) []DocumentMetadata
	Rendered(kind, version string) (*legaldocs.RenderedDocument, error)
}

type documentService struct {
	log           *logger.Logger
	renderer      *legaldocs.Renderer
	publicBaseURL string
}

func NewDocumentService(log *logger.Logger, renderer *legaldocs.Renderer, publicBaseURL string) DocumentService {
	serviceLog := log.With("service", "DocumentService")
	return &documentService{
		log:           serviceLog,
		renderer:      renderer,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (ds *documentService) Metadata(kinds []string) []DocumentMetadata {
	out := make([]DocumentMetadata, 0, len(kinds))
	for _, kind := range kinds {
		kind = strings.TrimSpace(kind)
		if kind == "" {
			continue
		}
		doc, err := ds.renderer.Render(kind, "")
		if err != nil {
			code := "doc_not_found"
			var ae *apierr.Error
			if errors.As(err, &ae) && ae.Code != "" {
				code = ae.Code
			}
			ds.log.Debug("Document metadata resolution failed", "kind", kind, "code", code)
			out = append(out, DocumentMetadata{Type: kind, Code: code})
			continue
		}
		out = append(out, DocumentMetadata{
			Type:      kind,
			Title:     doc.Title,
			Version:   doc.Version,
			Checksum:  doc.Checksum,
			PublicURL: fmt.Sprintf("%s/api/legal/documents/%s", ds.publicBaseURL, kind),
		})
	}
	return out
}

func (ds *documentService) Rendered(kind, version string) (*legaldocs.RenderedDocument, error) {
	return ds.renderer.Render(kind, version)
}
