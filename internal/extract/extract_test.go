package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	docx "github.com/fumiama/go-docx"
)

// buildSimplePDF assembles a one-page PDF showing the given text, computing
// the cross-reference offsets as it writes so the fixture stays valid.
func buildSimplePDF(text string) []byte {
	var buf bytes.Buffer
	var offsets []int
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	addObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n")
	addObj("4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	addObj(fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream))

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	content := "The sky is blue.\nSecond line.\n"
	got, err := Extract(File{Name: "notes.txt", MIME: "text/plain", Data: []byte(content)})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != content {
		t.Fatalf("expected exact decoded content %q, got %q", content, got)
	}
}

func TestExtractPlainTextWithCharset(t *testing.T) {
	got, err := Extract(File{Name: "notes.txt", MIME: "text/plain; charset=utf-8", Data: []byte("hello")})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestExtractWhitespaceOnlyText(t *testing.T) {
	_, err := Extract(File{Name: "blank.txt", MIME: "text/plain", Data: []byte("  \n\t \n")})
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract(File{Name: "movie.mp4", MIME: "video/mp4", Data: []byte("....")})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractPDFWithText(t *testing.T) {
	data := buildSimplePDF("SkyIsBlue")
	got, err := Extract(File{Name: "sky.pdf", MIME: MIMEPDF, Data: data})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(got, "SkyIsBlue") {
		t.Fatalf("page text missing from extraction: %q", got)
	}
}

func TestExtractDocxParagraphs(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	para := w.AddParagraph()
	para.AddText("GrassIsGreen")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("failed to build docx fixture: %v", err)
	}

	got, err := Extract(File{Name: "grass.docx", MIME: MIMEDocx, Data: buf.Bytes()})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(got, "GrassIsGreen") {
		t.Fatalf("paragraph text missing from extraction: %q", got)
	}
}

func TestExtractBrokenPDF(t *testing.T) {
	_, err := Extract(File{Name: "x.pdf", MIME: MIMEPDF, Data: []byte("not a pdf at all")})
	if err == nil {
		t.Fatalf("expected error for broken pdf")
	}
	if errors.Is(err, ErrUnsupported) {
		t.Fatalf("broken pdf is not an unsupported type: %v", err)
	}
}

func TestDetectMIMEByExtension(t *testing.T) {
	cases := map[string]string{
		"a.txt":       MIMEText,
		"report.PDF":  MIMEPDF,
		"letter.docx": MIMEDocx,
	}
	for name, want := range cases {
		if got := DetectMIME(name, nil); got != want {
			t.Errorf("DetectMIME(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDetectMIMESniffsText(t *testing.T) {
	got := DetectMIME("blob", []byte("just some plain prose without an extension"))
	if !strings.HasPrefix(got, "text/") {
		t.Fatalf("expected texty MIME, got %q", got)
	}
}

func TestExtractMissingMIMEFallsBackToName(t *testing.T) {
	got, err := Extract(File{Name: "story.txt", MIME: "", Data: []byte("once upon a time")})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "once upon a time" {
		t.Fatalf("unexpected content: %q", got)
	}
}
