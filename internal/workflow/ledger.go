package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
)

// roughly a 4MB data URL
const maxSignatureDataLength = 4 << 20

type SignatureInput struct {
	Box
	SignatureData string
	IPAddress     string
	UserAgent     string
}

func (si SignatureInput) validate() error {
	if strings.TrimSpace(si.SignatureData) == "" {
		return invalidInput("signatureData", "signature data is required")
	}
	if len(si.SignatureData) > maxSignatureDataLength {
		return invalidInput("signatureData", "signature data is too large")
	}
	return si.Box.validate(0)
}

func hashSignatureData(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// appendSignature writes the immutable ledger entry for a pending signer. A signer that is
// already signed, or already has an entry, gets AlreadySigned and nothing is written.
func (s *Service) appendSignature(ctx context.Context, tx *gorm.DB, signer *model.ContractSigner, input SignatureInput) (*model.Signature, error) {
	if signer.IsSigned() {
		return nil, alreadySigned()
	}

	signature := &model.Signature{
		BaseBoxModel:     input.Box.toModel(),
		ContractSignerID: signer.ID,
		SignatureData:    input.SignatureData,
		DataHash:         hashSignatureData(input.SignatureData),
		IPAddress:        input.IPAddress,
		UserAgent:        input.UserAgent,
	}

	if _, err := s.repo.Signature.Create(ctx, tx, signature); err != nil {
		if isUniqueViolation(err) {
			return nil, alreadySigned()
		}
		return nil, fromRepo("append signature", err, "signer not found")
	}

	return signature, nil
}

// ListSignatures returns the ledger entries of a contract with the name, email and signing time of each signer.
func (s *Service) ListSignatures(ctx context.Context, access ContractAccess, contractId string) ([]model.Signature, error) {
	if _, err := s.loadContract(ctx, access, contractId, constant.ContractRead); err != nil {
		return nil, err
	}

	signatures, err := s.repo.Signature.ListByContract(ctx, nil, contractId)
	if err != nil {
		return nil, fromRepo("list signatures", err, "contract not found")
	}
	return signatures, nil
}
