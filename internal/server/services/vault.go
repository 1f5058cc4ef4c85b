package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/server/models"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/files"
	"github.com/google/uuid"
)

const (
	defaultMimeType = "application/octet-stream"

	// masterKeyInfo separates the file master key from anything else that
	// might be derived from the same operator secret.
	masterKeyInfo = "gophvault file master key v1"
)

// RetrievedFile is a decrypted file ready to be sent to the caller.
type RetrievedFile struct {
	ID           string
	OriginalName string
	MimeType     string
	Content      []byte
}

// VaultService encrypts uploads before storing them and decrypts on retrieval.
// Every file gets its own random key, wrapped under a master key derived from
// the operator-configured secret.
type VaultService struct {
	files     files.Repository
	masterKey []byte
	maxSize   int64
	newID     func() string
	now       func() time.Time
}

func NewVaultService(repo files.Repository, encryptionSecret string, maxUploadBytes int64) (*VaultService, error) {
	key, err := cryptox.DeriveKey([]byte(encryptionSecret), masterKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("deriving master key: %w", err)
	}
	return &VaultService{
		files:     repo,
		masterKey: key,
		maxSize:   maxUploadBytes,
		newID:     uuid.NewString,
		now:       time.Now,
	}, nil
}

// Store encrypts content and saves it under a fresh identifier. declaredSize
// may be 0; otherwise it must equal len(content). Faults after validation are
// reported as common.ErrStorage.
func (s *VaultService) Store(ctx context.Context, content []byte, filename, mimeType string, declaredSize int64) (*models.FileInfo, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: no file uploaded", common.ErrValidation)
	}
	size := int64(len(content))
	if declaredSize != 0 && declaredSize != size {
		return nil, fmt.Errorf("%w: declared size %d does not match content size %d", common.ErrValidation, declaredSize, size)
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, s.maxSize)
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	id := s.newID()
	payload, compressed := compress(content)

	enc, err := cryptox.EncryptFile(s.masterKey, payload, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	f := &models.File{
		ID:           id,
		OriginalName: filename,
		MimeType:     mimeType,
		Size:         size,
		Ciphertext:   enc.Ciphertext,
		WrappedKey:   enc.WrappedKey,
		Compressed:   compressed,
		CreatedAt:    s.now(),
	}
	if err := s.files.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	info := f.Info()
	return &info, nil
}

// Retrieve decrypts the file stored under id. It returns common.ErrNotFound
// for an unknown id and common.ErrRetrieval when decryption fails, e.g. after
// the encryption secret changed.
func (s *VaultService) Retrieve(ctx context.Context, id string) (*RetrievedFile, error) {
	f, err := s.files.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrRetrieval, err)
	}

	payload, err := cryptox.DecryptFile(s.masterKey, &cryptox.EncryptedFile{
		Ciphertext: f.Ciphertext,
		WrappedKey: f.WrappedKey,
	}, []byte(f.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRetrieval, err)
	}

	content := payload
	if f.Compressed {
		content, err = decompress(payload, f.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrRetrieval, err)
		}
	}

	return &RetrievedFile{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Content:      content,
	}, nil
}

// List returns a restartable snapshot of stored files in upload order.
func (s *VaultService) List(ctx context.Context) (iter.Seq[models.FileInfo], error) {
	seq, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRetrieval, err)
	}
	return seq, nil
}
