package workflow

import (
	"context"
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/metrics"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/util"
	"gorm.io/gorm"
)

type CreateContractInput struct {
	DocumentID  string
	Title       string
	Description string
	Signers     []SignerInput
}

// CreateContract creates the contract and provisions its signers in one transaction,
// then invites every signer. Invitation failures are logged, never returned.
func (s *Service) CreateContract(ctx context.Context, caller Identity, input CreateContractInput) (*model.Contract, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalidInput("title", "title is required")
	}
	if len(title) > 200 {
		return nil, invalidInput("title", "title must be at most 200 characters")
	}
	if strings.TrimSpace(input.DocumentID) == "" {
		return nil, invalidInput("documentId", "documentId is required")
	}

	parties, err := normalizeParties(input.Signers)
	if err != nil {
		return nil, err
	}

	contract := &model.Contract{
		DocumentID:  input.DocumentID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      constant.ContractStatusPending,
		CreatedByID: caller.ID,
	}

	err = s.repo.WithTx(nil, func(tx *gorm.DB) error {
		if _, err := s.authorizeDocument(ctx, tx, caller, input.DocumentID, constant.ContractCreate); err != nil {
			return err
		}

		// serializes concurrent contract creation on the same document
		document, err := s.repo.Document.LockById(ctx, tx, input.DocumentID)
		if err != nil {
			return fromRepo("lock document", err, "document not found")
		}

		if !s.opts.AllowMultipleContractsPerDocument {
			count, err := s.repo.Contract.CountByDocument(ctx, tx, document.ID)
			if err != nil {
				return fromRepo("count contracts", err, "document not found")
			}
			if count > 0 {
				return conflict("document already has a contract")
			}
		}

		roles, err := s.repo.SignerRole.ListByDocument(ctx, tx, document.ID)
		if err != nil {
			return fromRepo("list roles", err, "document not found")
		}
		if err := bindRoles(parties, roles); err != nil {
			return err
		}

		if _, err := s.repo.Contract.Create(ctx, tx, contract); err != nil {
			return fromRepo("create contract", err, "document not found")
		}

		signers, err := s.provision(ctx, tx, contract.ID, parties)
		if err != nil {
			return err
		}
		contract.Signers = signers

		if _, err := s.repo.ContractEvent.Append(ctx, tx, contract.ID, constant.ContractActionCreated, caller.normalizedEmail(), map[string]any{
			"documentId":  document.ID,
			"signerCount": len(signers),
		}); err != nil {
			return fromRepo("append audit event", err, "contract not found")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncContractCreated()
	s.logger.Infof("Contract %s created on document %s with %d signers", contract.ID, contract.DocumentID, len(contract.Signers))

	s.inviteSigners(ctx, contract)

	return contract, nil
}

type ContractDetail struct {
	*model.Contract
	SignerCount int `json:"signerCount"`
	SignedCount int `json:"signedCount"`
}

func newContractDetail(contract *model.Contract) *ContractDetail {
	detail := &ContractDetail{Contract: contract, SignerCount: len(contract.Signers)}
	for _, signer := range contract.Signers {
		if signer.IsSigned() {
			detail.SignedCount++
		}
	}
	return detail
}

func (s *Service) contractRoles(contract *model.Contract, access ContractAccess) []constant.DocumentRole {
	var roles []constant.DocumentRole

	if caller := access.Caller; caller != nil && caller.ID != "" {
		if contract.Document != nil && contract.Document.OwnerID == caller.ID {
			roles = append(roles, constant.DocumentRoleOwner)
		}
		if caller.IsAdmin() {
			roles = append(roles, constant.DocumentRoleAdmin)
		}
	}

	for _, signer := range contract.Signers {
		if access.SignerID != "" && signer.ID == access.SignerID {
			roles = append(roles, constant.DocumentRoleSigner)
			break
		}
		if caller := access.Caller; caller != nil {
			if (signer.UserID != nil && caller.ID != "" && *signer.UserID == caller.ID) ||
				(caller.Email != "" && signer.Email == caller.normalizedEmail()) {
				roles = append(roles, constant.DocumentRoleSigner)
				break
			}
		}
	}

	return roles
}

func (s *Service) loadContract(ctx context.Context, access ContractAccess, contractId string, permissions ...constant.DocumentPermission) (*model.Contract, error) {
	contract, err := s.repo.Contract.GetById(ctx, nil, contractId)
	if err != nil {
		return nil, fromRepo("get contract", err, "contract not found")
	}

	if !util.HasPermission(s.contractRoles(contract, access), permissions) {
		return nil, forbidden("you do not have permission to access this contract")
	}
	return contract, nil
}

// GetContract returns the contract with its signers, the document metadata and signing progress.
func (s *Service) GetContract(ctx context.Context, access ContractAccess, contractId string) (*ContractDetail, error) {
	contract, err := s.loadContract(ctx, access, contractId, constant.ContractRead)
	if err != nil {
		return nil, err
	}
	return newContractDetail(contract), nil
}

// ListContracts returns contracts on the caller's documents and contracts the caller signs, newest first.
func (s *Service) ListContracts(ctx context.Context, caller Identity, status []constant.ContractStatus, page, pageSize uint) ([]ContractDetail, int64, error) {
	if err := s.requireIdentity(caller); err != nil {
		return nil, 0, err
	}

	contracts, total, err := s.repo.Contract.ListForUser(ctx, nil, caller.ID, caller.normalizedEmail(), status, page, pageSize)
	if err != nil {
		return nil, 0, fromRepo("list contracts", err, "contract not found")
	}

	details := make([]ContractDetail, 0, len(contracts))
	for i := range contracts {
		details = append(details, *newContractDetail(&contracts[i]))
	}
	return details, total, nil
}

func findSigner(contract *model.Contract, signerId string) (*model.ContractSigner, error) {
	for i := range contract.Signers {
		if contract.Signers[i].ID == signerId {
			return &contract.Signers[i], nil
		}
	}
	return nil, signerNotFound()
}

// SignerFields returns the fields the signer is expected to fill: those of its role, or addressed to its email.
func (s *Service) SignerFields(ctx context.Context, access ContractAccess, contractId, signerId string) ([]model.SignatureField, error) {
	contract, err := s.loadContract(ctx, access, contractId, constant.ContractRead)
	if err != nil {
		return nil, err
	}

	signer, err := findSigner(contract, signerId)
	if err != nil {
		return nil, err
	}

	fields, err := s.repo.SignatureField.ListForSigner(ctx, nil, contract.DocumentID, signer.RoleID, signer.Email)
	if err != nil {
		return nil, fromRepo("list signer fields", err, "document not found")
	}
	return fields, nil
}

// SigningLink returns the link a signer follows, for the document owner to share by other means.
func (s *Service) SigningLink(ctx context.Context, caller Identity, contractId, signerId string) (string, error) {
	if err := s.requireIdentity(caller); err != nil {
		return "", err
	}

	contract, err := s.loadContract(ctx, ContractAccess{Caller: &caller}, contractId, constant.ContractSignerLinkGet)
	if err != nil {
		return "", err
	}

	signer, err := findSigner(contract, signerId)
	if err != nil {
		return "", err
	}

	return util.GetSigningLink(s.opts.FrontendURL, contract.ID, signer.ID), nil
}
