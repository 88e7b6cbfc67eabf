package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// File is a generated document on disk. Remove deletes it together with the
// temporary directory it was written to.
type File struct {
	Path string
	dir  string
}

// WriteResumePDF renders text and writes it to a fresh temporary directory
// under base (the system temp dir when empty). The file name is derived from
// the company and job title so the employer sees a meaningful attachment.
func WriteResumePDF(base, company, title, text string) (*File, error) {
	data, err := RenderPDF(text)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(base, "apply-agent-")
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(dir, FileName(company, title, ".pdf"))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write resume PDF: %w", err)
	}
	return &File{Path: path, dir: dir}, nil
}

// Remove deletes the file and its directory. It is safe to call more than once.
func (f *File) Remove() error {
	if f == nil || f.dir == "" {
		return nil
	}
	if err := os.RemoveAll(f.dir); err != nil {
		return fmt.Errorf("failed to remove artifact %s: %w", f.Path, err)
	}
	f.dir = ""
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FileName builds "resume_<company>_<title><ext>" with both parts slugged.
func FileName(company, title, ext string) string {
	parts := []string{"resume"}
	for _, s := range []string{company, title} {
		if slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "_"), "_"); slug != "" {
			parts = append(parts, slug)
		}
	}
	return strings.Join(parts, "_") + ext
}
