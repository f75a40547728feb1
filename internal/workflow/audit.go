package workflow

import (
	"context"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
)

type AuditTrail struct {
	Events []model.ContractEvent `json:"events"`
	Valid  bool                  `json:"valid"`
	// Position (1-based) of the first event whose link does not verify, 0 when the chain is intact.
	BrokenAt int `json:"brokenAt,omitempty"`
}

// VerifyChain recomputes every hash and checks each event points at its predecessor.
func VerifyChain(events []model.ContractEvent) (bool, int) {
	prevHash := ""
	for i, event := range events {
		if event.Sequence != i+1 || event.PrevHash != prevHash || event.Hash != event.ComputeHash() {
			return false, i + 1
		}
		prevHash = event.Hash
	}
	return true, 0
}

func (s *Service) VerifyAuditTrail(ctx context.Context, access ContractAccess, contractId string) (*AuditTrail, error) {
	if _, err := s.loadContract(ctx, access, contractId, constant.ContractRead); err != nil {
		return nil, err
	}

	events, err := s.repo.ContractEvent.ListByContract(ctx, nil, contractId)
	if err != nil {
		return nil, fromRepo("list audit events", err, "contract not found")
	}

	valid, brokenAt := VerifyChain(events)
	if !valid {
		s.logger.Warnf("Audit chain of contract %s is broken at sequence %d", contractId, brokenAt)
	}

	return &AuditTrail{Events: events, Valid: valid, BrokenAt: brokenAt}, nil
}
