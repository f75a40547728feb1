package workflow

import (
	"context"
	"time"

	"github.com/SeakMengs/AutoSign/internal/constant"
	filestorage "github.com/SeakMengs/AutoSign/internal/file_storage"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/notifier"
	"github.com/SeakMengs/AutoSign/internal/repository"
	"github.com/SeakMengs/AutoSign/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	AllowMultipleContractsPerDocument bool
	// Upper bound of an uploaded document in bytes, 0 means unlimited.
	MaxDocumentSize int64
	// Base of the signing links sent to signers.
	FrontendURL string
}

// Service is the signing workflow engine. It is the only writer of contract and signer status.
type Service struct {
	repo     *repository.Repository
	storage  filestorage.BlobStore
	notifier notifier.Notifier
	logger   *zap.SugaredLogger
	opts     Options

	now        func() time.Time
	countPages func(data []byte) (int, error)
}

func NewService(repo *repository.Repository, storage filestorage.BlobStore, n notifier.Notifier, logger *zap.SugaredLogger, opts Options) *Service {
	if logger == nil {
		logger = util.NewLogger()
	}

	return &Service{
		repo:       repo,
		storage:    storage,
		notifier:   n,
		logger:     logger,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
		countPages: filestorage.GetPdfPageCount,
	}
}

func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) requireIdentity(caller Identity) error {
	if caller.ID == "" {
		return forbidden("authentication required")
	}
	return nil
}

// documentRoles resolves what the caller is to the document: owner, admin, signer on one of its contracts.
func (s *Service) documentRoles(ctx context.Context, tx *gorm.DB, caller Identity, document *model.Document) ([]constant.DocumentRole, error) {
	var roles []constant.DocumentRole

	if caller.ID != "" && document.OwnerID == caller.ID {
		roles = append(roles, constant.DocumentRoleOwner)
	}
	if caller.IsAdmin() {
		roles = append(roles, constant.DocumentRoleAdmin)
	}
	if len(roles) > 0 {
		return roles, nil
	}

	isSigner, err := s.repo.ContractSigner.ExistsOnDocument(ctx, tx, document.ID, caller.ID, caller.normalizedEmail())
	if err != nil {
		return nil, fromRepo("resolve document role", err, "document not found")
	}
	if isSigner {
		roles = append(roles, constant.DocumentRoleSigner)
	}

	return roles, nil
}

// authorizeDocument loads the document and checks that the caller holds every permission.
func (s *Service) authorizeDocument(ctx context.Context, tx *gorm.DB, caller Identity, documentId string, permissions ...constant.DocumentPermission) (*model.Document, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, err
	}

	document, err := s.repo.Document.GetById(ctx, tx, documentId)
	if err != nil {
		return nil, fromRepo("get document", err, "document not found")
	}

	roles, err := s.documentRoles(ctx, tx, caller, document)
	if err != nil {
		return nil, err
	}

	if !util.HasPermission(roles, permissions) {
		return nil, forbidden("you do not have permission to access this document")
	}

	return document, nil
}

// ensureNotContracted guards template edits; a contract freezes the document's fields and roles.
func (s *Service) ensureNotContracted(ctx context.Context, tx *gorm.DB, documentId string) error {
	return s.lockUncontracted(ctx, tx, documentId, "document already has a contract, its template can no longer change")
}

// lockUncontracted holds the document row, the same lock CreateContract takes, while it counts contracts.
func (s *Service) lockUncontracted(ctx context.Context, tx *gorm.DB, documentId, conflictMessage string) error {
	if _, err := s.repo.Document.LockById(ctx, tx, documentId); err != nil {
		return fromRepo("lock document", err, "document not found")
	}

	count, err := s.repo.Contract.CountByDocument(ctx, tx, documentId)
	if err != nil {
		return fromRepo("count contracts", err, "document not found")
	}
	if count > 0 {
		return conflict(conflictMessage)
	}
	return nil
}
