package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/metrics"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
)

type SubmitSignatureInput struct {
	// Optional, when set the signer must belong to this contract.
	ContractID       string
	ContractSignerID string
	SignatureInput
}

type SubmitResult struct {
	Signature *model.Signature `json:"signature"`
	Contract  *ContractDetail  `json:"contract,omitempty"`
	// Completed is true only for the submission that moved the contract to completed.
	Completed bool `json:"completed"`
}

// SubmitSignature records a signer's signature and re-evaluates completion, all in one transaction.
//
// The contract row is locked first, so every signing transaction of a contract runs after the
// previous one committed. Under that lock the signer is re-read, the ledger entry is appended,
// the signer is flipped with a guarded update, and the unsigned signers are counted. When none
// are left the contract is completed with a guarded update as well, so only one caller ever
// observes the transition. Any failure rolls the whole unit back.
func (s *Service) SubmitSignature(ctx context.Context, input SubmitSignatureInput) (*SubmitResult, error) {
	result, err := s.submitSignature(ctx, input)
	if err != nil {
		metrics.IncSignatureRejected(rejectionReason(err))
		if KindOf(err) == KindInfrastructureFailure {
			s.logger.Errorf("Signature submission for signer %s failed: %v", input.ContractSignerID, err)
		} else {
			s.logger.Debugf("Signature submission for signer %s rejected: %v", input.ContractSignerID, err)
		}
		return nil, err
	}

	metrics.IncSignatureSubmitted()
	if result.Completed {
		metrics.IncContractCompleted()
	}

	contract, err := s.repo.Contract.GetById(ctx, nil, result.contractId)
	if err != nil {
		// already committed, the caller still gets the signature
		s.logger.Warnf("Failed to reload contract %s after signing: %v", result.contractId, err)
	} else {
		result.Contract = newContractDetail(contract)
	}

	return &result.SubmitResult, nil
}

type submitOutcome struct {
	SubmitResult
	contractId string
}

func (s *Service) submitSignature(ctx context.Context, input SubmitSignatureInput) (*submitOutcome, error) {
	signerId := strings.TrimSpace(input.ContractSignerID)
	if signerId == "" {
		return nil, invalidInput("signerId", "signerId is required")
	}
	if err := input.SignatureInput.validate(); err != nil {
		return nil, err
	}

	outcome := &submitOutcome{}
	err := s.repo.WithTx(nil, func(tx *gorm.DB) error {
		signer, err := s.resolveSigner(ctx, tx, signerId)
		if err != nil {
			return err
		}
		if input.ContractID != "" && signer.ContractID != input.ContractID {
			return signerNotFound()
		}

		contract, err := s.repo.Contract.LockById(ctx, tx, signer.ContractID)
		if err != nil {
			return fromRepo("lock contract", err, "contract not found")
		}

		// re-read under the lock, a concurrent submission may have flipped it meanwhile
		signer, err = s.resolveSigner(ctx, tx, signerId)
		if err != nil {
			return err
		}
		if signer.IsSigned() || contract.IsCompleted() {
			return alreadySigned()
		}

		document, err := s.repo.Document.GetById(ctx, tx, contract.DocumentID)
		if err != nil {
			return fromRepo("get document", err, "document not found")
		}
		if err := input.Box.validate(document.PageCount); err != nil {
			return err
		}

		signature, err := s.appendSignature(ctx, tx, signer, input.SignatureInput)
		if err != nil {
			return err
		}

		now := s.now()
		flipped, err := s.repo.ContractSigner.MarkSigned(ctx, tx, signer.ID, now)
		if err != nil {
			return fromRepo("mark signer signed", err, "signer not found")
		}
		if !flipped {
			return alreadySigned()
		}

		if _, err := s.repo.ContractEvent.Append(ctx, tx, contract.ID, constant.ContractActionSignatureSubmitted, signer.Email, map[string]any{
			"signerId":    signer.ID,
			"signatureId": signature.ID,
			"dataHash":    signature.DataHash,
			"pageNumber":  signature.PageNumber,
		}); err != nil {
			return fromRepo("append audit event", err, "contract not found")
		}

		unsigned, err := s.repo.ContractSigner.CountUnsigned(ctx, tx, contract.ID)
		if err != nil {
			return fromRepo("count unsigned signers", err, "contract not found")
		}

		completed := false
		if unsigned == 0 {
			completed, err = s.repo.Contract.MarkCompleted(ctx, tx, contract.ID, now)
			if err != nil {
				return fromRepo("complete contract", err, "contract not found")
			}
		}

		if completed {
			if _, err := s.repo.ContractEvent.Append(ctx, tx, contract.ID, constant.ContractActionCompleted, signer.Email, map[string]any{
				"completedBy": signer.ID,
			}); err != nil {
				return fromRepo("append audit event", err, "contract not found")
			}
		}

		outcome.Signature = signature
		outcome.Completed = completed
		outcome.contractId = contract.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Completed {
		s.logger.Infof("Contract %s completed by signer %s", outcome.contractId, signerId)
	}
	return outcome, nil
}

func (s *Service) resolveSigner(ctx context.Context, tx *gorm.DB, signerId string) (*model.ContractSigner, error) {
	signer, err := s.repo.ContractSigner.GetById(ctx, tx, signerId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, signerNotFound()
		}
		return nil, fromRepo("get signer", err, "signer not found")
	}
	return signer, nil
}

func rejectionReason(err error) string {
	switch KindOf(err) {
	case KindAlreadySigned:
		return metrics.RejectAlreadySigned
	case KindNotFound:
		return metrics.RejectNotFound
	case KindInvalidInput:
		return metrics.RejectInvalidInput
	case KindForbidden:
		return metrics.RejectForbidden
	}
	return metrics.RejectInternal
}
