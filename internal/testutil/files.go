package testutil

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
)

// PDFContent - минимальное содержимое, которое распознается как application/pdf
var PDFContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// NewFileHeader собирает *multipart.FileHeader так же, как его получает gin из формы
func NewFileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Ошибка создания части файла: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Ошибка записи файла: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Ошибка закрытия multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	if err != nil {
		t.Fatalf("Ошибка создания запроса: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("Ошибка разбора multipart: %v", err)
	}
	t.Cleanup(func() { req.MultipartForm.RemoveAll() })

	headers := req.MultipartForm.File[field]
	if len(headers) == 0 {
		t.Fatalf("Файл %s не найден в форме", field)
	}
	return headers[0]
}
