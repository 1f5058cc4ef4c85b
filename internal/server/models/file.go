// Package models defines server-side data models held by the credential store.
package models

import "time"

// File is a stored upload. Content is never held in plaintext.
type File struct {
	// ID is the random identifier the file is keyed by.
	ID string
	// OriginalName is the filename supplied at upload time.
	OriginalName string
	// MimeType is the declared content type.
	MimeType string
	// Size is the byte length of the plaintext content.
	Size int64

	// Ciphertext is the content sealed under the per-file key.
	Ciphertext []byte
	// WrappedKey is the per-file key sealed under the master key.
	WrappedKey []byte
	// Compressed marks content that was zstd-compressed before sealing.
	Compressed bool

	CreatedAt time.Time
}

// FileInfo is the listing view of a File; it never carries content.
type FileInfo struct {
	ID           string
	OriginalName string
	MimeType     string
	Size         int64
}

func (f *File) Info() FileInfo {
	return FileInfo{ID: f.ID, OriginalName: f.OriginalName, MimeType: f.MimeType, Size: f.Size}
}
