package repository

import (
	"context"
	"strings"

	constant "github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
)

type SignatureFieldRepository struct {
	*baseRepository
}

func (sfr SignatureFieldRepository) Create(ctx context.Context, tx *gorm.DB, field *model.SignatureField) (*model.SignatureField, error) {
	sfr.logger.Debugf("Create %s field on document %s page %d", field.FieldType, field.DocumentID, field.PageNumber)

	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Create(field).Error; err != nil {
		return field, err
	}

	return field, nil
}

func (sfr SignatureFieldRepository) GetById(ctx context.Context, tx *gorm.DB, fieldId string) (*model.SignatureField, error) {
	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var field model.SignatureField
	if err := db.WithContext(ctx).Where("id = ?", fieldId).First(&field).Error; err != nil {
		return nil, err
	}

	return &field, nil
}

// ListByDocument returns fields in reading order: page, then top to bottom, then left to right.
func (sfr SignatureFieldRepository) ListByDocument(ctx context.Context, tx *gorm.DB, documentId string) ([]model.SignatureField, error) {
	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	fields := []model.SignatureField{}
	if err := db.WithContext(ctx).Where("document_id = ?", documentId).
		Order("page_number asc, position_y asc, position_x asc").
		Find(&fields).Error; err != nil {
		return nil, err
	}

	return fields, nil
}

// ListForSigner returns the fields bound to the role, or addressed to the email when the field has no role.
func (sfr SignatureFieldRepository) ListForSigner(ctx context.Context, tx *gorm.DB, documentId string, roleId *string, email string) ([]model.SignatureField, error) {
	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Where("document_id = ?", documentId)
	if roleId != nil && *roleId != "" {
		query = query.Where("(role_id = ? OR (role_id IS NULL AND LOWER(signer_email) = ?))", *roleId, strings.ToLower(email))
	} else {
		query = query.Where("role_id IS NULL AND LOWER(signer_email) = ?", strings.ToLower(email))
	}

	fields := []model.SignatureField{}
	if err := query.Order("page_number asc, position_y asc, position_x asc").Find(&fields).Error; err != nil {
		return nil, err
	}

	return fields, nil
}

func (sfr SignatureFieldRepository) CountByDocument(ctx context.Context, tx *gorm.DB, documentId string) (int64, error) {
	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.SignatureField{}).Where("document_id = ?", documentId).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (sfr SignatureFieldRepository) CountByRole(ctx context.Context, tx *gorm.DB, roleId string) (int64, error) {
	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.SignatureField{}).Where("role_id = ?", roleId).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Update overwrites the editable columns, zero values included.
func (sfr SignatureFieldRepository) Update(ctx context.Context, tx *gorm.DB, field *model.SignatureField) (*model.SignatureField, error) {
	sfr.logger.Debugf("Update field %s", field.ID)

	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.SignatureField{}).Where("id = ?", field.ID).
		Select("role_id", "field_type", "is_required", "label", "signer_email", "signer_name",
			"page_number", "position_x", "position_y", "width", "height").
		Updates(field).Error; err != nil {
		return field, err
	}

	return field, nil
}

func (sfr SignatureFieldRepository) Delete(ctx context.Context, tx *gorm.DB, fieldId string) error {
	sfr.logger.Debugf("Delete field %s", fieldId)

	db := sfr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Where("id = ?", fieldId).Delete(&model.SignatureField{}).Error
}
