package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SeakMengs/AutoSign/internal/mailer"
	"github.com/SeakMengs/AutoSign/internal/queue"
	"go.uber.org/zap"
)

// Invitation asks one signer to open their signing link.
type Invitation struct {
	Email            string
	Name             string
	ContractTitle    string
	SigningLink      string
	ContractID       string
	ContractSignerID string
}

func (i Invitation) mailData() mailer.SigningInvitationData {
	return mailer.SigningInvitationData{
		RecipientName:    i.Name,
		ContractTitle:    i.ContractTitle,
		SigningLink:      i.SigningLink,
		ContractID:       i.ContractID,
		ContractSignerID: i.ContractSignerID,
	}
}

// Notifier delivers invitations. Delivery is best effort: callers log the error and move on.
type Notifier interface {
	SendInvitation(ctx context.Context, invitation Invitation) error
}

// MailNotifier sends the invitation mail from the calling process.
type MailNotifier struct {
	mailer mailer.Client
	logger *zap.SugaredLogger
}

func NewMailNotifier(client mailer.Client, logger *zap.SugaredLogger) *MailNotifier {
	return &MailNotifier{mailer: client, logger: logger}
}

func (mn *MailNotifier) SendInvitation(ctx context.Context, invitation Invitation) error {
	status, err := mn.mailer.Send(mailer.SIGNING_INVITATION_TEMPLATE, invitation.Name, invitation.Email, invitation.mailData())
	if err != nil {
		return fmt.Errorf("failed to send invitation to %s: %w", invitation.Email, err)
	}

	// 200 in sandbox, 202 once SendGrid accepted the mail
	if status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("failed to send invitation to %s: mail provider responded %d", invitation.Email, status)
	}

	mn.logger.Debugf("Invitation mailed to %s for contract %s", invitation.Email, invitation.ContractID)
	return nil
}

type Publisher interface {
	Publish(routingKey queue.QueueName, body []byte) error
}

// QueueNotifier hands the invitation to the mail queue; cmd/mail_consumer delivers it.
type QueueNotifier struct {
	publisher Publisher
	logger    *zap.SugaredLogger
}

func NewQueueNotifier(publisher Publisher, logger *zap.SugaredLogger) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, logger: logger}
}

func (qn *QueueNotifier) SendInvitation(ctx context.Context, invitation Invitation) error {
	job, err := queue.NewSigningInvitationMailJob(invitation.Email, invitation.Name, invitation.mailData())
	if err != nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal invitation job: %w", err)
	}

	if err := qn.publisher.Publish(queue.QueueMail, body); err != nil {
		return fmt.Errorf("failed to queue invitation to %s: %w", invitation.Email, err)
	}

	qn.logger.Debugf("Invitation queued for %s on contract %s", invitation.Email, invitation.ContractID)
	return nil
}
