// Package bundle reads and writes score bundles: a single archive carrying
// the CanorusML score, its embedded resources and a manifest. Bundles are
// tar streams compressed with xz by default (gzip is also read and, for
// .gz paths, written).
package bundle

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/tactus/partita/core/canorusml"
	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/score"
)

const (
	// FormatVersion is written into every manifest.
	FormatVersion = "1"

	manifestName = "manifest.json"
	scoreName    = "score.xml"
	resourceDir  = "resources"
)

// ManifestResource describes one embedded resource file in the bundle.
type ManifestResource struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Manifest is the manifest.json structure of a bundle.
type Manifest struct {
	Version   string             `json:"version"`
	Title     string             `json:"title,omitempty"`
	Composer  string             `json:"composer,omitempty"`
	Sheets    int                `json:"sheets"`
	CreatedAt string             `json:"created_at,omitempty"`
	Resources []ManifestResource `json:"resources,omitempty"`
}

// Write stores doc as a bundle at path. Embedded resources are written
// under resources/ and listed in the manifest with their content hashes;
// linked resources stay URL-only inside the score.
func Write(doc *score.Document, path string) error {
	scoreXML, err := canorusml.ExportString(doc)
	if err != nil {
		return err
	}

	manifest := Manifest{
		Version:   FormatVersion,
		Title:     doc.Title,
		Composer:  doc.Composer,
		Sheets:    len(doc.Sheets()),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	type entry struct {
		name    string
		content []byte
	}
	var entries []entry

	for _, r := range doc.Resources() {
		if r.Linked {
			continue
		}
		file := resourceDir + "/" + baseName(r)
		manifest.Resources = append(manifest.Resources, ManifestResource{
			Name:   r.Name,
			File:   file,
			SHA256: r.SHA256,
			BLAKE3: r.BLAKE3,
			Type:   r.Type.String(),
		})
		entries = append(entries, entry{name: file, content: r.Content})
	}

	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}

	var compressor io.WriteCloser
	if strings.HasSuffix(path, ".gz") {
		compressor = gzip.NewWriter(f)
	} else {
		compressor, err = xz.NewWriter(f)
		if err != nil {
			f.Close()
			return errors.Wrap(err, "xz writer")
		}
	}

	tw := tar.NewWriter(compressor)
	now := time.Now()
	writeOne := func(name string, content []byte) error {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content)), ModTime: now}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		_, err := tw.Write(content)
		return err
	}

	werr := writeOne(manifestName, manifestJSON)
	if werr == nil {
		werr = writeOne(scoreName, []byte(scoreXML))
	}
	for _, e := range entries {
		if werr != nil {
			break
		}
		werr = writeOne(e.name, e.content)
	}

	if err := tw.Close(); werr == nil {
		werr = err
	}
	if err := compressor.Close(); werr == nil {
		werr = err
	}
	if err := f.Close(); werr == nil {
		werr = err
	}
	if werr != nil {
		os.Remove(path)
		return errors.NewIO("write", path, werr)
	}
	return nil
}

func baseName(r *score.Resource) string {
	name := filepath.Base(r.URL)
	if name == "." || name == "/" || name == "" {
		name = r.ID
	}
	return name
}

// Read loads a bundle: the score document plus its manifest. Embedded
// resource content is reattached to the document's resource records and
// verified against the manifest hashes.
func Read(path string) (*score.Document, *Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	tr, err := decompress(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open bundle %s", path)
	}

	var manifest *Manifest
	var scoreXML []byte
	contents := make(map[string][]byte)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewIO("read", path, err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, nil, errors.NewIO("read", path, err)
		}
		switch {
		case hdr.Name == manifestName:
			var m Manifest
			if err := json.Unmarshal(data, &m); err != nil {
				return nil, nil, errors.NewParse("bundle manifest", path, err.Error())
			}
			manifest = &m
		case hdr.Name == scoreName:
			scoreXML = data
		case strings.HasPrefix(hdr.Name, resourceDir+"/"):
			contents[hdr.Name] = data
		}
	}

	if manifest == nil {
		return nil, nil, errors.NewParse("bundle", path, "missing "+manifestName)
	}
	if scoreXML == nil {
		return nil, nil, errors.NewParse("bundle", path, "missing "+scoreName)
	}

	res, err := canorusml.Import(bytes.NewReader(scoreXML))
	if err != nil {
		return nil, nil, err
	}
	doc := res.Document

	for _, mr := range manifest.Resources {
		content, ok := contents[mr.File]
		if !ok {
			return nil, nil, errors.NewNotFound("bundle resource", mr.File)
		}
		sum := sha256.Sum256(content)
		if mr.SHA256 != "" && hex.EncodeToString(sum[:]) != mr.SHA256 {
			return nil, nil, errors.NewValidation(mr.File, "content hash mismatch")
		}
		for _, r := range doc.Resources() {
			if r.Name == mr.Name && !r.Linked {
				r.Content = content
				r.SHA256 = mr.SHA256
				r.BLAKE3 = mr.BLAKE3
			}
		}
	}

	return doc, manifest, nil
}

// ReadManifest loads only the manifest of a bundle.
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	tr, err := decompress(f)
	if err != nil {
		return nil, errors.Wrapf(err, "open bundle %s", path)
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		if hdr.Name != manifestName {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		var m Manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, errors.NewParse("bundle manifest", path, err.Error())
		}
		return &m, nil
	}
	return nil, errors.NewParse("bundle", path, "missing "+manifestName)
}

var (
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	gzipMagic = []byte{0x1f, 0x8b}
)

// decompress sniffs the compression from magic bytes rather than the file
// extension and returns a tar reader over the decompressed stream.
func decompress(r io.Reader) (*tar.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(magic, xzMagic):
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(xzr), nil
	case bytes.HasPrefix(magic, gzipMagic):
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(gzr), nil
	default:
		// plain tar
		return tar.NewReader(br), nil
	}
}
