package workflow

import (
	"context"
	"fmt"

	"github.com/SeakMengs/AutoSign/internal/metrics"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/notifier"
	"github.com/SeakMengs/AutoSign/internal/util"
)

// inviteSigners runs after the contract is committed. A failed invitation is logged and counted only.
func (s *Service) inviteSigners(ctx context.Context, contract *model.Contract) {
	if s.notifier == nil {
		s.logger.Debugf("No notifier configured, skipping invitations for contract %s", contract.ID)
		return
	}

	for _, signer := range contract.Signers {
		invitation := notifier.Invitation{
			Email:            signer.Email,
			Name:             signer.Name,
			ContractTitle:    contract.Title,
			SigningLink:      util.GetSigningLink(s.opts.FrontendURL, contract.ID, signer.ID),
			ContractID:       contract.ID,
			ContractSignerID: signer.ID,
		}

		if err := s.sendInvitation(ctx, invitation); err != nil {
			metrics.IncNotificationFailed()
			s.logger.Warnf("Invitation for %s on contract %s was not sent: %v", signer.Email, contract.ID, err)
			continue
		}
	}
}

// sendInvitation turns a notifier panic into an error so the committed contract is still returned.
func (s *Service) sendInvitation(ctx context.Context, invitation notifier.Invitation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panicked: %v", r)
		}
	}()

	return s.notifier.SendInvitation(ctx, invitation)
}
