package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	data := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Opening hours:</w:t></w:r><w:r><w:t> 9am to 10pm</w:t></w:r></w:p>
    <w:p><w:r><w:t>Closed on Mondays</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := ExtractText(data)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	want := "Opening hours: 9am to 10pm\nClosed on Mondays"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestExtractTextMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.Close()

	if _, err := ExtractText(buf.Bytes()); !errors.Is(err, ErrNoDocument) {
		t.Errorf("err = %v, want ErrNoDocument", err)
	}
}

func TestExtractTextNotAZip(t *testing.T) {
	if _, err := ExtractText([]byte("plain text, not a docx")); err == nil {
		t.Error("expected error for non-zip input")
	}
}
