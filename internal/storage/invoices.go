// Package storage keeps teacher-uploaded invoice PDFs. It writes to local
// disk and hands out public URLs; the interface is small enough that an
// object-storage bucket can take its place without touching callers.
package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

type InvoiceStore struct {
	dir     string
	baseURL string
}

func NewInvoiceStore(dir, baseURL string) (*InvoiceStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("invoice dir: %w", err)
	}
	return &InvoiceStore{dir: dir, baseURL: baseURL}, nil
}

// Dir is the filesystem root, exposed so the HTTP layer can serve it.
func (s *InvoiceStore) Dir() string { return s.dir }

// Save writes the PDF and returns its public URL. One file per
// teacher-month: re-uploads overwrite.
func (s *InvoiceStore) Save(tenantID, teacherID uuid.UUID, monthYear string, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%s.pdf", teacherID, monthYear)
	tenantDir := filepath.Join(s.dir, tenantID.String())
	if err := os.MkdirAll(tenantDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(tenantDir, name), data, 0o644); err != nil {
		return "", err
	}
	return path.Join(s.baseURL, tenantID.String(), name), nil
}
