package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

// Entry pairs a known identity with its reference embedding.
type Entry struct {
	Identity  string
	Embedding []float64
}

// Gallery is the fixed set of known (identity, embedding) reference pairs.
// Built once at startup and read-only afterwards.
type Gallery struct {
	entries []Entry
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Load reads every image file in dir and embeds the first face found in
// each. The identity label is the filename without its extension. Any
// unreadable image, or one with zero detected faces, aborts the load: a
// reference image is assumed to contain exactly one clear face.
func Load(ctx context.Context, dir string, p provider.FaceProvider) (*Gallery, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.ErrGalleryLoad.WithError(fmt.Errorf("read dir %s: %w", dir, err))
	}

	names := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ErrGalleryLoad.WithError(fmt.Errorf("read %s: %w", path, err))
		}

		faces, err := p.DetectFaces(ctx, data)
		if err != nil {
			return nil, domain.ErrGalleryLoad.WithError(fmt.Errorf("detect faces in %s: %w", path, err))
		}
		if len(faces) == 0 {
			return nil, domain.ErrGalleryLoad.WithError(fmt.Errorf("no face detected in %s", path))
		}

		// First face only; reference images hold a single subject.
		entries = append(entries, Entry{
			Identity:  strings.TrimSuffix(name, filepath.Ext(name)),
			Embedding: faces[0].Embedding,
		})
	}

	return &Gallery{entries: entries}, nil
}

// FromEntries builds a gallery from pre-computed pairs, e.g. enrollments
// loaded from the database.
func FromEntries(entries []Entry) *Gallery {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Gallery{entries: copied}
}

// Entries returns the gallery pairs in load order.
func (g *Gallery) Entries() []Entry {
	return g.entries
}

// Size returns the number of known identities.
func (g *Gallery) Size() int {
	return len(g.entries)
}

// Identities returns the labels in load order.
func (g *Gallery) Identities() []string {
	ids := make([]string, len(g.entries))
	for i, e := range g.entries {
		ids[i] = e.Identity
	}
	return ids
}
