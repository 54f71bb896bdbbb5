package extract

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// MIME types with a dedicated extraction path.
const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupported means the MIME type has no extraction path at all.
	ErrUnsupported = errors.New("unsupported file type")
	// ErrNoText means a recognized type yielded nothing, e.g. a scanned PDF.
	ErrNoText = errors.New("no extractable text")
)

// File is an uploaded file: declared MIME type plus raw bytes.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Extract turns an uploaded file into plain text. A successful result is
// never blank: files that decode to whitespace only report ErrNoText.
func Extract(f File) (string, error) {
	m := f.MIME
	if m == "" {
		m = DetectMIME(f.Name, f.Data)
	}

	var (
		text string
		err  error
	)
	switch {
	case strings.HasPrefix(m, "text/"):
		text = string(f.Data)
	case strings.EqualFold(m, MIMEPDF):
		text, err = extractPDF(f.Data)
	case strings.EqualFold(m, MIMEDocx):
		text, err = extractDocx(f.Data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, m)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= rdr.NumPage(); i++ {
		pg := rdr.Page(i)
		txt, err := pg.GetPlainText(nil)
		if err != nil {
			// image-only or broken page, skip
			continue
		}
		if strings.TrimSpace(txt) == "" {
			continue
		}
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}

	var paras []string
	for _, it := range doc.Document.Body.Items {
		p, ok := it.(*docx.Paragraph)
		if !ok {
			continue
		}
		if s := strings.TrimSpace(p.String()); s != "" {
			paras = append(paras, s)
		}
	}
	return strings.Join(paras, "\n"), nil
}

// DetectMIME resolves the MIME type for uploads that did not declare one.
// Known extensions win over content sniffing: a docx is a zip container and
// would otherwise sniff as application/zip.
func DetectMIME(name string, head []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return MIMEText
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDocx
	}
	if len(head) > 512 {
		head = head[:512]
	}
	if m := http.DetectContentType(head); m != "application/octet-stream" {
		return m
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return "application/octet-stream"
}
