package workflow

import (
	"bytes"
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"gorm.io/gorm"
)

const pdfMimeType = "application/pdf"

type UploadDocumentInput struct {
	FileName string
	MimeType string
	Content  []byte
}

// UploadDocument validates the PDF, stores its bytes in blob storage and records the document.
// The bytes are also kept on the row as a fallback when blob storage is unreachable.
func (s *Service) UploadDocument(ctx context.Context, caller Identity, input UploadDocumentInput) (*model.Document, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(filepath.Base(input.FileName))
	if name == "" || name == "." {
		return nil, invalidInput("document", "file name is required")
	}
	if len(input.Content) == 0 {
		return nil, invalidInput("document", "file is empty")
	}
	if s.opts.MaxDocumentSize > 0 && int64(len(input.Content)) > s.opts.MaxDocumentSize {
		return nil, invalidInput("document", "file exceeds the maximum size of %d bytes", s.opts.MaxDocumentSize)
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") && !strings.HasPrefix(input.MimeType, pdfMimeType) {
		return nil, invalidInput("document", "only pdf documents are supported")
	}

	pageCount, err := s.countPages(input.Content)
	if err != nil {
		return nil, invalidInput("document", "invalid pdf: %v", err)
	}

	objectKey := util.ToDocumentObjectKey(caller.ID, name)
	document := &model.Document{
		OwnerID:      caller.ID,
		FileName:     path.Base(objectKey),
		OriginalName: name,
		MimeType:     pdfMimeType,
		Size:         int64(len(input.Content)),
		PageCount:    pageCount,
		ObjectKey:    objectKey,
		FileContent:  input.Content,
	}

	if s.storage != nil {
		bucket, err := s.storage.Put(ctx, objectKey, bytes.NewReader(input.Content), int64(len(input.Content)), pdfMimeType)
		if err != nil {
			// the cached copy on the row still serves the file
			s.logger.Warnf("Blob storage upload of %s failed, keeping database copy only: %v", objectKey, err)
		} else {
			document.BucketName = bucket
		}
	}

	if _, err := s.repo.Document.Create(ctx, nil, document); err != nil {
		if document.BucketName != "" {
			if rmErr := s.storage.Remove(ctx, document.BucketName, objectKey); rmErr != nil {
				s.logger.Warnf("Failed to clean up orphaned object %s: %v", objectKey, rmErr)
			}
		}
		return nil, fromRepo("create document", err, "document not found")
	}

	document.FileContent = nil
	return document, nil
}

func (s *Service) GetDocument(ctx context.Context, caller Identity, documentId string) (*model.Document, error) {
	return s.authorizeDocument(ctx, nil, caller, documentId, constant.DocumentRead)
}

func (s *Service) ListDocuments(ctx context.Context, caller Identity, page, pageSize uint) ([]model.Document, int64, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, 0, err
	}

	documents, total, err := s.repo.Document.ListByOwner(ctx, nil, caller.ID, page, pageSize)
	if err != nil {
		return nil, 0, fromRepo("list documents", err, "document not found")
	}
	return documents, total, nil
}

type DocumentFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// OpenDocumentFile streams the document bytes from blob storage, falling back to the cached copy.
func (s *Service) OpenDocumentFile(ctx context.Context, caller Identity, documentId string) (*DocumentFile, error) {
	document, err := s.authorizeDocument(ctx, nil, caller, documentId, constant.DocumentRead)
	if err != nil {
		return nil, err
	}

	file := &DocumentFile{
		Name:        document.OriginalName,
		ContentType: document.MimeType,
		Size:        document.Size,
	}

	if s.storage != nil && document.BucketName != "" {
		rc, err := s.storage.Get(ctx, document.BucketName, document.ObjectKey)
		if err == nil {
			file.Content = rc
			return file, nil
		}
		s.logger.Warnf("Blob storage read of %s failed, serving cached copy: %v", document.ObjectKey, err)
	}

	content, err := s.repo.Document.GetFileContent(ctx, nil, document.ID)
	if err != nil {
		return nil, fromRepo("read document", err, "document not found")
	}
	if len(content) == 0 {
		return nil, infrastructure("read document", io.ErrUnexpectedEOF)
	}

	file.Content = io.NopCloser(bytes.NewReader(content))
	file.Size = int64(len(content))
	return file, nil
}

// DeleteDocument removes the document with its fields and roles. Documents with contracts stay.
func (s *Service) DeleteDocument(ctx context.Context, caller Identity, documentId string) error {
	var document *model.Document

	err := s.repo.WithTx(nil, func(tx *gorm.DB) error {
		var err error
		document, err = s.authorizeDocument(ctx, tx, caller, documentId, constant.DocumentDelete)
		if err != nil {
			return err
		}

		if err := s.lockUncontracted(ctx, tx, documentId, "document is referenced by a contract and cannot be deleted"); err != nil {
			return err
		}

		if err := s.repo.Document.Delete(ctx, tx, documentId); err != nil {
			return fromRepo("delete document", err, "document not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.storage != nil && document.BucketName != "" {
		if err := s.storage.Remove(ctx, document.BucketName, document.ObjectKey); err != nil {
			s.logger.Warnf("Failed to remove object %s of deleted document %s: %v", document.ObjectKey, documentId, err)
		}
	}

	return nil
}

// DocumentStatus is derived, never stored: draft, templated once fields exist, contracted once a contract exists.
func (s *Service) DocumentStatus(ctx context.Context, caller Identity, documentId string) (constant.DocumentStatus, error) {
	if _, err := s.authorizeDocument(ctx, nil, caller, documentId, constant.DocumentRead); err != nil {
		return "", err
	}

	contracts, err := s.repo.Contract.CountByDocument(ctx, nil, documentId)
	if err != nil {
		return "", fromRepo("count contracts", err, "document not found")
	}
	if contracts > 0 {
		return constant.DocumentStatusContracted, nil
	}

	fields, err := s.repo.SignatureField.CountByDocument(ctx, nil, documentId)
	if err != nil {
		return "", fromRepo("count fields", err, "document not found")
	}
	if fields > 0 {
		return constant.DocumentStatusTemplated, nil
	}

	return constant.DocumentStatusDraft, nil
}
