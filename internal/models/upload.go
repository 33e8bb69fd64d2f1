package models

// Upload is a binary asset (image or video) referenced by drawing elements.
// Assets are immutable once stored.
type Upload struct {
	ID          string `json:"id"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"-"`
}
