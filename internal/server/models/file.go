package models

import "time"

// StoredFile describes server-side metadata for an uploaded file. The
// bytes themselves live in object storage under ServerFileName.
type StoredFile struct {
	// ID is the server-generated record identifier.
	ID string
	// Dir is the local staging directory the upload passed through.
	Dir string
	// Encoding is the transfer encoding reported by the client.
	Encoding string
	// Mimetype is the content type reported by the client.
	Mimetype string
	// UploadedFileName is the original client-side file name.
	UploadedFileName string
	// ServerFileName is the generated collision-free object-storage key.
	ServerFileName string
	// Creator is the email of the uploading account.
	Creator string
	// ProjectID optionally associates the file with a project pack.
	ProjectID *int64
	// CreatedAt is the upload completion time.
	CreatedAt time.Time
}
