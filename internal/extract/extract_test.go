package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	for _, tc := range []struct {
		data, name, ctype string
		want              Format
	}{
		{"%PDF-1.7 ...", "", "", FormatPDF},
		{"x", "scan.PDF", "", FormatPDF},
		{"x", "", "application/pdf", FormatPDF},
		{"<p>hi</p>", "page.htm", "", FormatHTML},
		{"<!doctype html><html><body>x</body></html>", "upload.bin", "", FormatHTML},
		{"hello", "notes.md", "", FormatPlain},
		{"hello", "", "text/plain; charset=utf-8", FormatPlain},
		{"1\n00:00:01,000 --> 00:00:02,000\nhi", "call.srt", "", FormatPlain},
	} {
		got, err := Detect([]byte(tc.data), tc.name, tc.ctype)
		if err != nil || got != tc.want {
			t.Errorf("Detect(%q, %q, %q) = %q, %v, want %q", tc.data, tc.name, tc.ctype, got, err, tc.want)
		}
	}
	if _, err := Detect([]byte{0x89, 'P', 'N', 'G'}, "a.png", "image/png"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Detect png = %v, want ErrUnsupported", err)
	}
}

func TestTextHTML(t *testing.T) {
	doc := `<html><head><title>T</title><style>p{}</style></head>
<body><h1>Standup</h1><p>Alice:   shipped   the parser.</p><script>alert(1)</script><p>Bob: blocked.</p></body></html>`
	got, err := Text([]byte(doc), "notes.html", "", Limits{})
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "Standup\nAlice: shipped the parser.\nBob: blocked."
	if got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestTextPlain(t *testing.T) {
	got, err := Text([]byte("  Meeting notes about Q3 roadmap\n"), "q3.txt", "", Limits{})
	if err != nil || got != "Meeting notes about Q3 roadmap" {
		t.Fatalf("Text = %q, %v", got, err)
	}
	if _, err := Text([]byte("   \n"), "empty.txt", "", Limits{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("blank text = %v, want ErrEmpty", err)
	}
}

func TestTextLimits(t *testing.T) {
	_, err := Text([]byte(strings.Repeat("a", 11)), "a.txt", "", Limits{MaxBytes: 10})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestTextMalformedPDF(t *testing.T) {
	if _, err := Text([]byte("%PDF-1.4 not really a pdf"), "x.pdf", "", Limits{}); err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}
