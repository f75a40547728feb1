package repository

import (
	"context"
	"strings"
	"time"

	constant "github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository struct {
	*baseRepository
}

func withDocumentMeta(db *gorm.DB) *gorm.DB {
	return db.Omit("file_content")
}

func (cr ContractRepository) Create(ctx context.Context, tx *gorm.DB, contract *model.Contract) (*model.Contract, error) {
	cr.logger.Debugf("Create contract %q on document %s", contract.Title, contract.DocumentID)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	// signers are provisioned separately, never through the association
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(contract).Error; err != nil {
		return contract, err
	}

	return contract, nil
}

// GetById loads the contract with its signers and the document metadata.
func (cr ContractRepository) GetById(ctx context.Context, tx *gorm.DB, contractId string) (*model.Contract, error) {
	cr.logger.Debugf("Get contract by id: %s", contractId)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var contract model.Contract
	if err := db.WithContext(ctx).Model(&model.Contract{}).
		Preload("Signers", func(db *gorm.DB) *gorm.DB {
			return db.Order("contract_signers.created_at asc, contract_signers.email asc")
		}).
		Preload("Document", withDocumentMeta).
		Where("id = ?", contractId).First(&contract).Error; err != nil {
		return nil, err
	}

	return &contract, nil
}

// LockById takes a row lock on the contract for the rest of the transaction (SELECT ... FOR UPDATE).
// Every signing transaction of a contract goes through here first, so they run one after another.
func (cr ContractRepository) LockById(ctx context.Context, tx *gorm.DB, contractId string) (*model.Contract, error) {
	cr.logger.Debugf("Lock contract: %s", contractId)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var contract model.Contract
	if err := db.WithContext(ctx).Model(&model.Contract{}).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", contractId).First(&contract).Error; err != nil {
		return nil, err
	}

	return &contract, nil
}

func (cr ContractRepository) CountByDocument(ctx context.Context, tx *gorm.DB, documentId string) (int64, error) {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.Contract{}).Where("document_id = ?", documentId).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// MarkCompleted moves a pending contract to completed. It reports whether this call did the transition.
func (cr ContractRepository) MarkCompleted(ctx context.Context, tx *gorm.DB, contractId string, completedAt time.Time) (bool, error) {
	cr.logger.Debugf("Mark contract %s completed", contractId)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	res := db.WithContext(ctx).Model(&model.Contract{}).
		Where("id = ? AND status = ?", contractId, constant.ContractStatusPending).
		Updates(map[string]any{
			"status":       constant.ContractStatusCompleted,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

// ListForUser returns contracts on documents the user owns or where the user is a signer, newest first.
func (cr ContractRepository) ListForUser(ctx context.Context, tx *gorm.DB, userId, email string, status []constant.ContractStatus, page, pageSize uint) ([]model.Contract, int64, error) {
	page, pageSize = util.NormalizePage(page, pageSize)
	cr.logger.Debugf("List contracts for user: %s, page: %d, pageSize: %d", userId, page, pageSize)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	scope := func(db *gorm.DB) *gorm.DB {
		query := db.Where(
			"contracts.document_id IN (?) OR contracts.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).Model(&model.Document{}).Select("id").Where("owner_id = ?", userId),
			db.Session(&gorm.Session{NewDB: true}).Model(&model.ContractSigner{}).Select("contract_id").
				Where("user_id = ? OR email = ?", userId, strings.ToLower(email)),
		)
		if len(status) > 0 {
			query = query.Where("contracts.status IN (?)", status)
		}
		return query
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.Contract{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contracts := []model.Contract{}
	if err := db.WithContext(ctx).Model(&model.Contract{}).Scopes(scope).
		Preload("Signers", func(db *gorm.DB) *gorm.DB {
			return db.Order("contract_signers.created_at asc, contract_signers.email asc")
		}).
		Preload("Document", withDocumentMeta).
		Order("contracts.created_at desc").
		Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).
		Find(&contracts).Error; err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}
