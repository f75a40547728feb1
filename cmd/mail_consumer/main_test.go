package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/SeakMengs/AutoSign/internal/config"
	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/database"
	"github.com/SeakMengs/AutoSign/internal/mailer"
	"github.com/SeakMengs/AutoSign/internal/model"
	"github.com/SeakMengs/AutoSign/internal/queue"
	"github.com/SeakMengs/AutoSign/internal/repository"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent   []string
	status int
}

func (m *fakeMailer) Send(templateFile, toUsername, toEmail string, data any) (int, error) {
	m.sent = append(m.sent, toEmail)
	return m.status, nil
}

func newConsumerContext(t *testing.T) (*queue.MailConsumerContext, *fakeMailer, *model.ContractSigner) {
	t.Helper()

	db, err := database.ConnectReturnGormDB(config.DatabaseConfig{DB_TYPE: "sqlite", DB_DATABASE: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { database.Close(db) })

	logger := util.NewLogger()
	repo := repository.NewRepository(db, logger)
	ctx := context.Background()

	document := &model.Document{OwnerID: "owner-1", FileName: "a.pdf", OriginalName: "a.pdf", MimeType: "application/pdf", PageCount: 1}
	_, err = repo.Document.Create(ctx, nil, document)
	require.NoError(t, err)

	contract := &model.Contract{DocumentID: document.ID, Title: "Lease", Status: constant.ContractStatusPending, CreatedByID: "owner-1"}
	_, err = repo.Contract.Create(ctx, nil, contract)
	require.NoError(t, err)

	signer := &model.ContractSigner{ContractID: contract.ID, Email: "a@x.com", Name: "A", Status: constant.SignerStatusPending}
	_, err = repo.ContractSigner.CreateMany(ctx, nil, []*model.ContractSigner{signer})
	require.NoError(t, err)

	mail := &fakeMailer{status: http.StatusAccepted}
	return &queue.MailConsumerContext{Logger: logger, Repository: repo, Mailer: mail}, mail, signer
}

func invitationJob(t *testing.T, signer *model.ContractSigner, toEmail string) queue.MailJobPayload {
	t.Helper()
	job, err := queue.NewSigningInvitationMailJob(toEmail, signer.Name, mailer.SigningInvitationData{
		RecipientName:    signer.Name,
		ContractTitle:    "Lease",
		SigningLink:      util.GetSigningLink("http://localhost:5174", signer.ContractID, signer.ID),
		ContractID:       signer.ContractID,
		ContractSignerID: signer.ID,
	})
	require.NoError(t, err)
	return job
}

func TestMailJobHandlerSendsToPendingSigner(t *testing.T) {
	app, mail, signer := newConsumerContext(t)

	requeue, err := mailJobHandler(context.Background(), invitationJob(t, signer, "a@x.com"), app)
	require.NoError(t, err)
	assert.False(t, requeue)
	assert.Equal(t, []string{"a@x.com"}, mail.sent)
}

func TestMailJobHandlerSkipsSignedSigner(t *testing.T) {
	app, mail, signer := newConsumerContext(t)

	_, err := app.Repository.ContractSigner.MarkSigned(context.Background(), nil, signer.ID, time.Now())
	require.NoError(t, err)

	requeue, err := mailJobHandler(context.Background(), invitationJob(t, signer, "a@x.com"), app)
	require.NoError(t, err)
	assert.False(t, requeue)
	assert.Empty(t, mail.sent)
}

func TestMailJobHandlerRejectsMismatchedRecipient(t *testing.T) {
	app, mail, signer := newConsumerContext(t)

	requeue, err := mailJobHandler(context.Background(), invitationJob(t, signer, "mallory@x.com"), app)
	require.Error(t, err)
	assert.False(t, requeue)
	assert.Empty(t, mail.sent)
}

func TestMailJobHandlerRequeuesOnProviderFailure(t *testing.T) {
	app, mail, signer := newConsumerContext(t)
	mail.status = http.StatusBadGateway

	requeue, err := mailJobHandler(context.Background(), invitationJob(t, signer, "a@x.com"), app)
	require.Error(t, err)
	assert.True(t, requeue)
}

func TestMailJobHandlerUnknownTemplate(t *testing.T) {
	app, _, _ := newConsumerContext(t)

	requeue, err := mailJobHandler(context.Background(), queue.MailJobPayload{TemplateFile: "unknown.tmpl"}, app)
	require.Error(t, err)
	assert.False(t, requeue)
}
