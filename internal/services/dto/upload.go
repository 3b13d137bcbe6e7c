package dto

// StoredFile - результат сохранения файла в хранилище
type StoredFile struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
