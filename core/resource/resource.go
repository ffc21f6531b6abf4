// Package resource loads and attaches document resources: media files
// referenced by a score, either linked by URL or embedded with their
// content carried along. Embedded content is content-hashed so bundles can
// deduplicate and verify it.
package resource

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/score"
)

// Controller attaches resources to documents. It satisfies the importer's
// ResourceImporter interface.
type Controller struct{}

// NewController creates a resource controller.
func NewController() *Controller { return &Controller{} }

// ImportResource attaches one resource to doc. Linked resources keep only
// their URL; embedded resources are read from the local path and carried
// with the document, content-hashed with SHA-256 and BLAKE3.
func (c *Controller) ImportResource(name, url string, linked bool, doc *score.Document, t score.ResourceType) (*score.Resource, error) {
	if doc == nil {
		return nil, errors.NewValidation("document", "no document to attach the resource to")
	}
	if t == score.ResourceUndefined {
		t = TypeFromURL(url)
	}
	r := &score.Resource{
		ID:     uuid.NewString(),
		Name:   name,
		URL:    url,
		Linked: linked,
		Type:   t,
	}
	if !linked {
		content, err := os.ReadFile(url)
		if err != nil {
			return nil, errors.NewIO("read", url, err)
		}
		r.Content = content
		sum := sha256.Sum256(content)
		r.SHA256 = hex.EncodeToString(sum[:])
		b3 := blake3.Sum256(content)
		r.BLAKE3 = hex.EncodeToString(b3[:])
	}
	doc.AddResource(r)
	return r, nil
}

// WriteContent writes an embedded resource's content into dir, named by its
// base file name, and returns the written path. Linked resources are an
// error.
func (c *Controller) WriteContent(r *score.Resource, dir string) (string, error) {
	if r.Linked {
		return "", errors.NewValidation("resource", "linked resource has no embedded content")
	}
	name := filepath.Base(r.URL)
	if name == "." || name == string(filepath.Separator) {
		name = r.ID
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, r.Content, 0644); err != nil {
		return "", errors.NewIO("write", path, err)
	}
	return path, nil
}

// Verify recomputes the content hashes of an embedded resource and reports
// whether they still match.
func Verify(r *score.Resource) bool {
	if r.Linked {
		return true
	}
	sum := sha256.Sum256(r.Content)
	if hex.EncodeToString(sum[:]) != r.SHA256 {
		return false
	}
	b3 := blake3.Sum256(r.Content)
	return hex.EncodeToString(b3[:]) == r.BLAKE3
}

// TypeFromURL guesses the resource type from the file extension.
func TypeFromURL(url string) score.ResourceType {
	switch strings.ToLower(filepath.Ext(url)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".bmp":
		return score.ResourceImage
	case ".wav", ".ogg", ".mp3", ".flac", ".mid", ".midi":
		return score.ResourceSound
	case ".pdf", ".txt", ".md", ".ly", ".xml":
		return score.ResourceDocument
	default:
		return score.ResourceOther
	}
}
