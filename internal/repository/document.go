package repository

import (
	"context"

	constant "github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository struct {
	*baseRepository
}

func (dr DocumentRepository) Create(ctx context.Context, tx *gorm.DB, document *model.Document) (*model.Document, error) {
	dr.logger.Debugf("Create document %s for owner %s", document.OriginalName, document.OwnerID)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Create(document).Error; err != nil {
		return document, err
	}

	return document, nil
}

// GetById never loads the cached file bytes, use GetFileContent for that.
func (dr DocumentRepository) GetById(ctx context.Context, tx *gorm.DB, documentId string) (*model.Document, error) {
	dr.logger.Debugf("Get document by id: %s", documentId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var document model.Document
	if err := db.WithContext(ctx).Model(&model.Document{}).Omit("file_content").
		Where("id = ?", documentId).First(&document).Error; err != nil {
		return nil, err
	}

	return &document, nil
}

// LockById reads the document with a row lock so concurrent contract creation on it serializes.
func (dr DocumentRepository) LockById(ctx context.Context, tx *gorm.DB, documentId string) (*model.Document, error) {
	dr.logger.Debugf("Lock document by id: %s", documentId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var document model.Document
	if err := db.WithContext(ctx).Model(&model.Document{}).Omit("file_content").
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id = ?", documentId).First(&document).Error; err != nil {
		return nil, err
	}

	return &document, nil
}

func (dr DocumentRepository) GetFileContent(ctx context.Context, tx *gorm.DB, documentId string) ([]byte, error) {
	dr.logger.Debugf("Get cached file content of document: %s", documentId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var document model.Document
	if err := db.WithContext(ctx).Model(&model.Document{}).Select("id", "file_content").
		Where("id = ?", documentId).First(&document).Error; err != nil {
		return nil, err
	}

	return document.FileContent, nil
}

func (dr DocumentRepository) ListByOwner(ctx context.Context, tx *gorm.DB, ownerId string, page, pageSize uint) ([]model.Document, int64, error) {
	page, pageSize = util.NormalizePage(page, pageSize)
	dr.logger.Debugf("List documents of owner: %s, page: %d, pageSize: %d", ownerId, page, pageSize)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var total int64
	if err := db.WithContext(ctx).Model(&model.Document{}).
		Where("owner_id = ?", ownerId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var documents []model.Document
	if err := db.WithContext(ctx).Model(&model.Document{}).Omit("file_content").
		Where("owner_id = ?", ownerId).
		Order("created_at desc").
		Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).
		Find(&documents).Error; err != nil {
		return nil, 0, err
	}

	return documents, total, nil
}

// Delete removes the document together with its fields and roles.
func (dr DocumentRepository) Delete(ctx context.Context, tx *gorm.DB, documentId string) error {
	dr.logger.Debugf("Delete document: %s", documentId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return dr.withTx(db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.SignatureField{}).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.SignerRole{}).Error; err != nil {
			return err
		}

		res := tx.WithContext(ctx).Where("id = ?", documentId).Delete(&model.Document{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
