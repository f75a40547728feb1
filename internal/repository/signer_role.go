package repository

import (
	"context"

	constant "github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
)

type SignerRoleRepository struct {
	*baseRepository
}

func (srr SignerRoleRepository) Create(ctx context.Context, tx *gorm.DB, role *model.SignerRole) (*model.SignerRole, error) {
	srr.logger.Debugf("Create signer role %q on document %s", role.Label, role.DocumentID)

	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Create(role).Error; err != nil {
		return role, err
	}

	return role, nil
}

func (srr SignerRoleRepository) GetById(ctx context.Context, tx *gorm.DB, roleId string) (*model.SignerRole, error) {
	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var role model.SignerRole
	if err := db.WithContext(ctx).Where("id = ?", roleId).First(&role).Error; err != nil {
		return nil, err
	}

	return &role, nil
}

func (srr SignerRoleRepository) ListByDocument(ctx context.Context, tx *gorm.DB, documentId string) ([]model.SignerRole, error) {
	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var roles []model.SignerRole
	if err := db.WithContext(ctx).Where("document_id = ?", documentId).
		Order("sort_order asc, created_at asc").
		Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

func (srr SignerRoleRepository) NextSortOrder(ctx context.Context, tx *gorm.DB, documentId string) (int, error) {
	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.SignerRole{}).Where("document_id = ?", documentId).Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count) + 1, nil
}

func (srr SignerRoleRepository) Delete(ctx context.Context, tx *gorm.DB, roleId string) error {
	srr.logger.Debugf("Delete signer role: %s", roleId)

	db := srr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Where("id = ?", roleId).Delete(&model.SignerRole{}).Error
}
