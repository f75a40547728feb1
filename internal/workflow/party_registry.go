package workflow

import (
	"context"
	"net/mail"
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/model"
	"gorm.io/gorm"
)

type SignerInput struct {
	Email  string
	Name   string
	UserID string
	RoleID string
}

// normalizeParties trims and lower-cases the list and rejects it when empty, incomplete or duplicated.
func normalizeParties(signers []SignerInput) ([]SignerInput, error) {
	if len(signers) == 0 {
		return nil, invalidPartyList("at least one signer is required")
	}

	seen := make(map[string]struct{}, len(signers))
	parties := make([]SignerInput, 0, len(signers))
	for i, signer := range signers {
		party := SignerInput{
			Email:  normalizeEmail(signer.Email),
			Name:   strings.TrimSpace(signer.Name),
			UserID: strings.TrimSpace(signer.UserID),
			RoleID: strings.TrimSpace(signer.RoleID),
		}

		if party.Email == "" {
			return nil, invalidPartyList("signer %d has no email", i+1)
		}
		if addr, err := mail.ParseAddress(party.Email); err != nil || addr.Address != party.Email {
			return nil, invalidPartyList("signer %d has an invalid email %q", i+1, party.Email)
		}
		if party.Name == "" {
			return nil, invalidPartyList("signer %s has no name", party.Email)
		}
		if len(party.Name) > 100 {
			return nil, invalidPartyList("name of signer %s must be at most 100 characters", party.Email)
		}
		if _, dup := seen[party.Email]; dup {
			return nil, invalidPartyList("duplicate signer email %s", party.Email)
		}
		seen[party.Email] = struct{}{}

		parties = append(parties, party)
	}

	return parties, nil
}

// bindRoles checks that every template role of the document is taken by exactly one party.
// Without roles, parties must not name one.
func bindRoles(parties []SignerInput, roles []model.SignerRole) error {
	known := make(map[string]string, len(roles))
	for _, role := range roles {
		known[role.ID] = role.Label
	}

	bound := make(map[string]string, len(roles))
	for _, party := range parties {
		if party.RoleID == "" {
			if len(roles) > 0 {
				return invalidPartyList("signer %s must be bound to one of the document's roles", party.Email)
			}
			continue
		}

		label, ok := known[party.RoleID]
		if !ok {
			return invalidPartyList("role %s of signer %s does not belong to this document", party.RoleID, party.Email)
		}
		if other, taken := bound[party.RoleID]; taken {
			return invalidPartyList("role %q is bound to both %s and %s", label, other, party.Email)
		}
		bound[party.RoleID] = party.Email
	}

	for _, role := range roles {
		if _, ok := bound[role.ID]; !ok {
			return invalidPartyList("role %q has no signer", role.Label)
		}
	}

	return nil
}

// provision creates one pending signer per party. It only runs inside the contract creation
// transaction, so a failure leaves neither the contract nor any of its signers behind.
func (s *Service) provision(ctx context.Context, tx *gorm.DB, contractId string, parties []SignerInput) ([]model.ContractSigner, error) {
	rows := make([]*model.ContractSigner, 0, len(parties))
	for _, party := range parties {
		signer := &model.ContractSigner{
			ContractID: contractId,
			Email:      party.Email,
			Name:       party.Name,
			Status:     constant.SignerStatusPending,
		}
		if party.UserID != "" {
			userId := party.UserID
			signer.UserID = &userId
		}
		if party.RoleID != "" {
			roleId := party.RoleID
			signer.RoleID = &roleId
		}
		rows = append(rows, signer)
	}

	if _, err := s.repo.ContractSigner.CreateMany(ctx, tx, rows); err != nil {
		if isUniqueViolation(err) {
			return nil, invalidPartyList("duplicate signer email")
		}
		return nil, fromRepo("provision signers", err, "contract not found")
	}

	signers := make([]model.ContractSigner, len(rows))
	for i, row := range rows {
		signers[i] = *row
	}
	return signers, nil
}
