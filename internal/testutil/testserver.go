package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestServer - httptest-сервер поверх собранного роутера
type TestServer struct {
	Server *httptest.Server
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	t.Helper()
	ts := &TestServer{Server: httptest.NewServer(handler)}
	t.Cleanup(ts.Server.Close)
	return ts
}

// SendRequest отправляет JSON-запрос; token уходит в заголовке Authorization
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.do(t, req)
}

// MultipartFile - файл для SendMultipart
type MultipartFile struct {
	Field    string
	Filename string
	Content  []byte
}

// SendMultipart отправляет multipart/form-data (отклик с резюме, профиль)
func (ts *TestServer) SendMultipart(t *testing.T, method, path, token string, fields map[string]string, file *MultipartFile) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("Ошибка записи поля %s: %v", k, err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			t.Fatalf("Ошибка создания части файла: %v", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			t.Fatalf("Ошибка записи файла: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Ошибка закрытия multipart: %v", err)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBody)
}

// DecodeJSON разбирает тело ответа в v
func DecodeJSON(t *testing.T, body string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), v); err != nil {
		t.Fatalf("Не удалось распарсить JSON %q: %v", body, err)
	}
}
