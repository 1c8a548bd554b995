package domain

// MaxImageBytes caps uploaded picture/screenshot payloads.
const MaxImageBytes = 5_242_880

// ImageBlob stores an uploaded image inline with its entity.
type ImageBlob struct {
	Data      []byte
	MimeType  string
	SizeBytes int64
}
