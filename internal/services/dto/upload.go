package dto

type UploadedImage struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type BatchUploadResponse struct {
	Images []UploadedImage `json:"images"`
}
