package repository

import "github.com/spec-kit/bug-tracker/internal/domain"

// blobColumns flattens an optional image into its three nullable columns.
func blobColumns(blob *domain.ImageBlob) ([]byte, *string, *int64) {
	if blob == nil {
		return nil, nil, nil
	}
	mime := blob.MimeType
	size := blob.SizeBytes
	return blob.Data, &mime, &size
}

// blobFromColumns rebuilds an optional image from scanned columns.
func blobFromColumns(data []byte, mime *string, size *int64) *domain.ImageBlob {
	if len(data) == 0 || mime == nil {
		return nil
	}
	blob := &domain.ImageBlob{Data: data, MimeType: *mime}
	if size != nil {
		blob.SizeBytes = *size
	}
	return blob
}
