package repository

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

type Repository struct {
	// DB can be used for transaction. Example usage:
	// r.DB.Transaction(func(tx *gorm.DB) error { ... })
	// Then pass tx to the repository functions so every call joins the same transaction.
	DB             *gorm.DB
	Document       *DocumentRepository
	SignerRole     *SignerRoleRepository
	SignatureField *SignatureFieldRepository
	Contract       *ContractRepository
	ContractSigner *ContractSignerRepository
	Signature      *SignatureRepository
	ContractEvent  *ContractEventRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger) *baseRepository {
	return &baseRepository{db: db, logger: logger}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger) *Repository {
	br := newBaseRepository(db, logger)

	return &Repository{
		DB:             db,
		Document:       &DocumentRepository{baseRepository: br},
		SignerRole:     &SignerRoleRepository{baseRepository: br},
		SignatureField: &SignatureFieldRepository{baseRepository: br},
		Contract:       &ContractRepository{baseRepository: br},
		ContractSigner: &ContractSignerRepository{baseRepository: br},
		Signature:      &SignatureRepository{baseRepository: br},
		ContractEvent:  &ContractEventRepository{baseRepository: br},
	}
}

// WithTx runs fn in one transaction; returning an error from fn rolls everything back.
// Docs: https://gorm.io/docs/transactions.html#Transaction
func (r Repository) WithTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	return r.Document.withTx(db, fn)
}

func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	if db == nil {
		db = b.db
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx Transaction rolled back: %v", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}
