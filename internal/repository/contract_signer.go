package repository

import (
	"context"
	"time"

	constant "github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
)

type ContractSignerRepository struct {
	*baseRepository
}

func (csr ContractSignerRepository) CreateMany(ctx context.Context, tx *gorm.DB, signers []*model.ContractSigner) ([]*model.ContractSigner, error) {
	csr.logger.Debugf("Create %d contract signers", len(signers))

	db := csr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Create(&signers).Error; err != nil {
		return signers, err
	}

	return signers, nil
}

func (csr ContractSignerRepository) GetById(ctx context.Context, tx *gorm.DB, signerId string) (*model.ContractSigner, error) {
	db := csr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var signer model.ContractSigner
	if err := db.WithContext(ctx).Where("id = ?", signerId).First(&signer).Error; err != nil {
		return nil, err
	}

	return &signer, nil
}

// MarkSigned flips a pending signer to signed. false means the signer was already signed.
func (csr ContractSignerRepository) MarkSigned(ctx context.Context, tx *gorm.DB, signerId string, signedAt time.Time) (bool, error) {
	csr.logger.Debugf("Mark contract signer %s signed", signerId)

	db := csr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	res := db.WithContext(ctx).Model(&model.ContractSigner{}).
		Where("id = ? AND status = ?", signerId, constant.SignerStatusPending).
		Updates(map[string]any{
			"status":    constant.SignerStatusSigned,
			"signed_at": signedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

func (csr ContractSignerRepository) CountUnsigned(ctx context.Context, tx *gorm.DB, contractId string) (int64, error) {
	db := csr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.ContractSigner{}).
		Where("contract_id = ? AND status <> ?", contractId, constant.SignerStatusSigned).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (csr ContractSignerRepository) ListByContract(ctx context.Context, tx *gorm.DB, contractId string) ([]model.ContractSigner, error) {
	db := csr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	signers := []model.ContractSigner{}
	if err := db.WithContext(ctx).Where("contract_id = ?", contractId).
		Order("created_at asc, email asc").
		Find(&signers).Error; err != nil {
		return nil, err
	}

	return signers, nil
}

// ExistsOnDocument reports whether the user (by id or email) is a signer on any contract of the document.
func (csr ContractSignerRepository) ExistsOnDocument(ctx context.Context, tx *gorm.DB, documentId, userId, email string) (bool, error) {
	db := csr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.ContractSigner{}).
		Joins("JOIN contracts ON contracts.id = contract_signers.contract_id").
		Where("contracts.document_id = ?", documentId).
		Where("contract_signers.user_id = ? OR contract_signers.email = ?", userId, email).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
