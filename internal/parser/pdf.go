package parser

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// pdfText extracts the plain text of a PDF, one page per paragraph block.
// When the library cannot read the file and fallback is set, pdftotext is
// tried instead.
func pdfText(data []byte, fallback bool) (string, error) {
	pages, err := pdfPages(data)
	if err != nil && fallback {
		pages, err = pdftotextPages(data)
	}
	if err != nil {
		return "", err
	}
	// A blank line keeps two pages from sharing a paragraph.
	return strings.Join(pages, "\n\n"), nil
}

func pdfPages(data []byte) ([]string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// pdftotextPages shells out to poppler's pdftotext, which needs a file.
func pdftotextPages(data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "pechaform-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(strings.TrimRight(string(out), "\f"), "\f"), nil
}
