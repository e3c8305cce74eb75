package dto

type ImageUploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
