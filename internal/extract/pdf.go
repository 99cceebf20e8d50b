package extract

import (
	"bytes"
	"fmt"
	"strings"

	pdfx "github.com/ledongthuc/pdf"
)

func pdfText(data []byte, maxPages int) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract: malformed pdf: %v", r)
		}
	}()
	r, err := pdfx.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: open pdf: %w", err)
	}
	pages := min(r.NumPage(), maxPages)
	var out strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract: page %d: %w", i, err)
		}
		if t := strings.TrimSpace(txt); t != "" {
			out.WriteString(t)
			out.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(out.String()), nil
}
