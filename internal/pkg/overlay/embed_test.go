package overlay

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPDF(t *testing.T, dir string, pages int) string {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, "page")
	}
	path := filepath.Join(dir, "source.pdf")
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, leftRightImage(40, 20)))
	require.NoError(t, f.Close())
	return path
}

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	tempDir := t.TempDir()
	return NewManager(ManagerConfig{
		Options: DefaultOptions(),
		TempDir: tempDir,
	}), tempDir
}

func TestEmbedder_Save(t *testing.T) {
	dir := t.TempDir()
	src := writeTestPDF(t, dir, 2)
	sig := writeTestPNG(t, dir, "signature.png")
	m, tempDir := newTestManager(t)
	ctx := context.Background()

	s, err := m.Open(src)
	require.NoError(t, err)
	assert.InDelta(t, 595.28, s.PageSize().Width, 0.01)

	good, err := m.AddImage(ctx, s.ID(), sig)
	require.NoError(t, err)
	assert.Equal(t, 40.0, good.Width)
	_, err = s.Rotate(good.ID, 45)
	require.NoError(t, err)

	// файл пропадает после добавления: ошибка только для этого изображения
	gone := writeTestPNG(t, dir, "stamp.png")
	bad, err := m.AddImage(ctx, s.ID(), gone)
	require.NoError(t, err)
	require.NoError(t, os.Remove(gone))

	out := filepath.Join(dir, "signed", "out.pdf")
	report, err := m.Save(ctx, s.ID(), out)
	require.NoError(t, err)

	assert.Equal(t, out, report.Output)
	assert.Equal(t, 2, report.Pages)
	require.Len(t, report.Embedded, 1)
	assert.Equal(t, good.ID, report.Embedded[0])
	require.Len(t, report.Failed, 1)
	assert.Equal(t, bad.ID, report.Failed[0].ID)

	assert.FileExists(t, out)
	pages, err := PageCountOf(out)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	leftovers, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files must be removed")
}

func TestEmbedder_SaveErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeTestPDF(t, dir, 1)
	m, tempDir := newTestManager(t)
	ctx := context.Background()

	s, err := m.Open(src)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.pdf")
	_, err = m.Save(ctx, s.ID(), out)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = s.Add(filepath.Join(dir, "missing.png"), 10, 10)
	require.NoError(t, err)
	_, err = m.Save(ctx, s.ID(), out)
	assert.ErrorIs(t, err, ErrNothingEmbedded)
	assert.NoFileExists(t, out)

	leftovers, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
