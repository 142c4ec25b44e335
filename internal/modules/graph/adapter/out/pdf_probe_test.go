package out_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphadapter "kgview/internal/modules/graph/adapter/out"
	apperrors "kgview/internal/platform/errors"
)

// minimalPDF builds a valid document with the given number of empty pages.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestPDFProbePageCount(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, minimalPDF(3), 0o644))

	pages, err := graphadapter.NewPDFProbe().PageCount(path)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestPDFProbeErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	probe := graphadapter.NewPDFProbe()

	_, err := probe.PageCount(filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	junk := filepath.Join(dir, "junk.pdf")
	require.NoError(t, os.WriteFile(junk, []byte("not a pdf at all"), 0o644))
	_, err = probe.PageCount(junk)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
