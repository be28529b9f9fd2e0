// Package resume handles uploaded resume files: text extraction for the AI
// parser and optional archival of the original in object storage.
package resume

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePlain = "text/plain"
	mimePDF   = "application/pdf"
	mimeDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DetectMime normalizes an upload's content type. Browsers and multipart
// writers frequently send application/octet-stream or append charset
// parameters, so the filename extension wins when the header is generic.
func DetectMime(filename, header string) string {
	mime := strings.TrimSpace(header)
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if mime != "" && mime != "application/octet-stream" {
		return mime
	}
	switch strings.ToLower(path.Ext(filename)) {
	case ".txt":
		return mimePlain
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDocx
	default:
		return mime
	}
}

// ExtractText pulls plain text out of a resume file. Supported types:
// text/plain, PDF, and DOCX.
func ExtractText(mime string, data []byte) (string, error) {
	switch mime {
	case mimePlain:
		return string(data), nil
	case mimePDF:
		return extractPDF(data)
	case mimeDocx:
		return extractDocx(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", mime)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, _ := page.GetPlainText(nil)
		text.WriteString(content)
	}
	return text.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()
	return doc.Editable().GetContent(), nil
}

func readAll(r io.Reader) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return buf.Bytes(), nil
}
