package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner scripts external command behavior per binary name.
type stubRunner struct {
	calls []string
	run   map[string]func(args []string) ([]byte, []byte, error)
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	fn, ok := s.run[name]
	if !ok {
		return nil, nil, fmt.Errorf("unexpected command %q", name)
	}
	return fn(args)
}

func newTestExtractor(stub *stubRunner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = stub
	return e
}

func TestExtract_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Invoice No: INV-1\r\nTotal (INR)  100.00\n"), 0o644))

	stub := &stubRunner{}
	res, err := newTestExtractor(stub).Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "plain-text", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "Invoice No: INV-1\nTotal (INR) 100.00", res.Text)
	assert.Empty(t, stub.calls)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	_, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), "scan.docx")
	assert.Error(t, err)
}

func TestExtract_PDFTextLayer(t *testing.T) {
	stub := &stubRunner{run: map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func(args []string) ([]byte, []byte, error) {
			assert.Contains(t, args, "-layout")
			assert.Equal(t, "-", args[len(args)-1])
			return []byte("Purchase Order No: PO-9001\fPage two\n"), nil, nil
		},
	}}
	res, err := newTestExtractor(stub).Extract(context.Background(), "order.pdf")
	require.NoError(t, err)

	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "PO-9001")
	assert.Equal(t, []string{"pdftotext"}, stub.calls)
}

func TestExtract_PDFFallsBackToOCR(t *testing.T) {
	stub := &stubRunner{}
	stub.run = map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func([]string) ([]byte, []byte, error) {
			return []byte("  \n"), nil, nil // empty text layer
		},
		"pdftoppm": func(args []string) ([]byte, []byte, error) {
			prefix := args[len(args)-1]
			for i := 1; i <= 2; i++ {
				if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
					return nil, nil, err
				}
			}
			return nil, nil, nil
		},
		"tesseract": func(args []string) ([]byte, []byte, error) {
			page := filepath.Base(args[0])
			return []byte("ocr text from " + page), nil, nil
		},
	}

	res, err := newTestExtractor(stub).Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "ocr text from page-1.png")
	assert.Contains(t, res.Text, "ocr text from page-2.png")
	assert.Contains(t, res.Warnings, "pdf text layer empty, falling back to ocr")
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, stub.calls)
}

func TestExtract_PDFOCRFailure(t *testing.T) {
	stub := &stubRunner{run: map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func([]string) ([]byte, []byte, error) {
			return nil, []byte("broken pdf"), fmt.Errorf("exit status 1")
		},
		"pdftoppm": func([]string) ([]byte, []byte, error) {
			return nil, []byte("broken pdf"), fmt.Errorf("exit status 1")
		},
	}}
	_, err := newTestExtractor(stub).Extract(context.Background(), "broken.pdf")
	assert.Error(t, err)
}

func TestExtract_MaxPagesCapsOCR(t *testing.T) {
	stub := &stubRunner{}
	stub.run = map[string]func([]string) ([]byte, []byte, error){
		"pdftotext": func([]string) ([]byte, []byte, error) { return nil, nil, nil },
		"pdftoppm": func(args []string) ([]byte, []byte, error) {
			prefix := args[len(args)-1]
			for i := 1; i <= 5; i++ {
				if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
					return nil, nil, err
				}
			}
			return nil, nil, nil
		},
		"tesseract": func([]string) ([]byte, []byte, error) { return []byte("page text"), nil, nil },
	}

	e := NewExtractor(Config{MaxPages: 2}, nil)
	e.runner = stub
	res, err := e.Extract(context.Background(), "long.pdf")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []string{"pdftotext", "pdftoppm", "tesseract", "tesseract"}, stub.calls)
}
