package repository

import (
	"context"

	constant "github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SignatureRepository only inserts and reads; signatures are never updated or deleted.
type SignatureRepository struct {
	*baseRepository
}

func (sr SignatureRepository) Create(ctx context.Context, tx *gorm.DB, signature *model.Signature) (*model.Signature, error) {
	sr.logger.Debugf("Create signature for contract signer %s", signature.ContractSignerID)

	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(signature).Error; err != nil {
		return signature, err
	}

	return signature, nil
}

func (sr SignatureRepository) ListByContract(ctx context.Context, tx *gorm.DB, contractId string) ([]model.Signature, error) {
	db := sr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	signatures := []model.Signature{}
	if err := db.WithContext(ctx).Model(&model.Signature{}).
		Joins("JOIN contract_signers ON contract_signers.id = signatures.contract_signer_id").
		Where("contract_signers.contract_id = ?", contractId).
		Preload("Signer").
		Order("signatures.created_at asc").
		Find(&signatures).Error; err != nil {
		return nil, err
	}

	return signatures, nil
}
