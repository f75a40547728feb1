package repository

import (
	"context"
	"encoding/json"
	"fmt"

	constant "github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContractEventRepository struct {
	*baseRepository
}

// Append chains a new event after the latest one of the contract. The caller must hold the
// contract row lock (or have just created the contract) so sequences cannot interleave.
func (cer ContractEventRepository) Append(ctx context.Context, tx *gorm.DB, contractId string, action constant.ContractAction, actorEmail string, metadata map[string]any) (*model.ContractEvent, error) {
	cer.logger.Debugf("Append %s event to contract %s", action, contractId)

	db := cer.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var last model.ContractEvent
	if err := db.WithContext(ctx).Where("contract_id = ?", contractId).
		Order("sequence desc").Limit(1).
		Find(&last).Error; err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event metadata: %w", err)
	}

	event := &model.ContractEvent{
		ContractID: contractId,
		Sequence:   last.Sequence + 1,
		Action:     action,
		ActorEmail: actorEmail,
		Metadata:   datatypes.JSON(raw),
		PrevHash:   last.Hash,
	}
	event.Hash = event.ComputeHash()

	if err := db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}

	return event, nil
}

func (cer ContractEventRepository) ListByContract(ctx context.Context, tx *gorm.DB, contractId string) ([]model.ContractEvent, error) {
	db := cer.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	events := []model.ContractEvent{}
	if err := db.WithContext(ctx).Where("contract_id = ?", contractId).
		Order("sequence asc").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
