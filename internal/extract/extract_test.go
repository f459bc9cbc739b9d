package extract

import (
	"errors"
	"testing"

	"github.com/jainamshah2028/ai-resume-grader/internal/model"
)

func TestDetectFormat_ByContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        model.ResumeFormat
	}{
		{"pdf", "application/pdf", model.FormatPDF},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", model.FormatDOCX},
		{"text", "text/plain", model.FormatText},
		{"text with charset", "text/plain; charset=utf-8", model.FormatText},
		{"uppercase", "APPLICATION/PDF", model.FormatPDF},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DetectFormat("resume.bin", tt.contentType, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected format %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDetectFormat_ByExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     model.ResumeFormat
	}{
		{"resume.pdf", model.FormatPDF},
		{"Resume.DOCX", model.FormatDOCX},
		{"resume.txt", model.FormatText},
		{"notes.md", model.FormatText},
	}

	for _, tt := range tests {
		got, err := DetectFormat(tt.filename, "application/octet-stream", nil)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tt.filename, err)
		}
		if got != tt.want {
			t.Errorf("%s: expected format %q, got %q", tt.filename, tt.want, got)
		}
	}
}

func TestDetectFormat_ByMagicBytes(t *testing.T) {
	t.Parallel()

	got, err := DetectFormat("resume", "", []byte("%PDF-1.7 rest of file"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != model.FormatPDF {
		t.Errorf("expected pdf, got %q", got)
	}

	got, err = DetectFormat("resume", "", []byte("PK\x03\x04zipdata"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != model.FormatDOCX {
		t.Errorf("expected docx, got %q", got)
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := DetectFormat("resume.exe", "application/octet-stream", []byte{0x4d, 0x5a})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestText_PlainText(t *testing.T) {
	t.Parallel()

	text, err := Text(model.FormatText, []byte("Go developer with Postgres experience"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "Go developer with Postgres experience" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestText_InvalidUTF8Stripped(t *testing.T) {
	t.Parallel()

	text, err := Text(model.FormatText, []byte("caf\xff\xfe latte"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "caf latte" {
		t.Errorf("expected invalid bytes stripped, got %q", text)
	}
}

func TestText_EmptyDocument(t *testing.T) {
	t.Parallel()

	_, err := Text(model.FormatText, []byte("   \n\t  "))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestText_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Text(model.ResumeFormat("rtf"), []byte("{\\rtf1}"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestText_CorruptPDF(t *testing.T) {
	t.Parallel()

	_, err := Text(model.FormatPDF, []byte("%PDF-1.7 truncated garbage"))
	if err == nil {
		t.Error("expected error for corrupt PDF, got nil")
	}
}

func TestText_CorruptDOCX(t *testing.T) {
	t.Parallel()

	_, err := Text(model.FormatDOCX, []byte("PK\x03\x04 not a real zip"))
	if err == nil {
		t.Error("expected error for corrupt DOCX, got nil")
	}
}
