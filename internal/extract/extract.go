// Package extract pulls plain text out of uploaded resume files.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/jainamshah2028/ai-resume-grader/internal/model"
)

// MIME types accepted for resume uploads.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// Common extraction errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
)

// DetectFormat determines the resume format from the declared content
// type, falling back to the file extension and magic bytes. Returns
// ErrUnsupportedFormat when nothing matches.
func DetectFormat(filename, contentType string, data []byte) (model.ResumeFormat, error) {
	switch normalizeContentType(contentType) {
	case MimePDF:
		return model.FormatPDF, nil
	case MimeDOCX:
		return model.FormatDOCX, nil
	case MimeText:
		return model.FormatText, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return model.FormatPDF, nil
	case ".docx":
		return model.FormatDOCX, nil
	case ".txt", ".text", ".md":
		return model.FormatText, nil
	}

	// Last resort: sniff magic bytes.
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return model.FormatPDF, nil
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		// DOCX is a zip container.
		return model.FormatDOCX, nil
	}

	return "", ErrUnsupportedFormat
}

// Text extracts plain text from resume file bytes in the given format.
// Returns ErrEmptyDocument when extraction yields only whitespace.
func Text(format model.ResumeFormat, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch format {
	case model.FormatPDF:
		text, err = pdfText(data)
	case model.FormatDOCX:
		text, err = docxText(data)
	case model.FormatText:
		text = strings.ToValidUTF8(string(data), "")
	default:
		return "", ErrUnsupportedFormat
	}

	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

// pdfText extracts text from every non-null page of a PDF.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages; a partially scanned resume is
			// still worth analyzing.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// docxText extracts the document body text from a DOCX container.
func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

// normalizeContentType strips parameters like "; charset=utf-8".
func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
