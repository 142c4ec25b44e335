package out

import (
	"errors"
	"fmt"
	"os"

	"rsc.io/pdf"

	apperrors "kgview/internal/platform/errors"
)

// PDFProbe opens a document locally before it is uploaded so unreadable
// files fail fast.
type PDFProbe struct{}

func NewPDFProbe() PDFProbe { return PDFProbe{} }

func (PDFProbe) PageCount(path string) (pages int, err error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
	}
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat pdf: %w", err)
	}

	// rsc.io/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: malformed pdf %s: %v", apperrors.ErrInvalidInput, path, r)
		}
	}()
	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("%w: read pdf %s: %v", apperrors.ErrInvalidInput, path, err)
	}
	return doc.NumPage(), nil
}
