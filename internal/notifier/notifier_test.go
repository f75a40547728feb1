package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/SeakMengs/AutoSign/internal/mailer"
	"github.com/SeakMengs/AutoSign/internal/queue"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	status int
	err    error
	sentTo []string
	data   []any
}

func (m *fakeMailer) Send(templateFile, toUsername, toEmail string, data any) (int, error) {
	m.sentTo = append(m.sentTo, toEmail)
	m.data = append(m.data, data)
	return m.status, m.err
}

type fakePublisher struct {
	queue  queue.QueueName
	bodies [][]byte
	err    error
}

func (p *fakePublisher) Publish(routingKey queue.QueueName, body []byte) error {
	p.queue = routingKey
	p.bodies = append(p.bodies, body)
	return p.err
}

var invitation = Invitation{
	Email:            "bob@example.com",
	Name:             "Bob",
	ContractTitle:    "Lease",
	SigningLink:      "http://localhost:5174/sign/c1?signer=s2",
	ContractID:       "c1",
	ContractSignerID: "s2",
}

func TestMailNotifierSends(t *testing.T) {
	m := &fakeMailer{status: http.StatusAccepted}
	n := NewMailNotifier(m, util.NewLogger())

	require.NoError(t, n.SendInvitation(context.Background(), invitation))
	assert.Equal(t, []string{"bob@example.com"}, m.sentTo)

	data, ok := m.data[0].(mailer.SigningInvitationData)
	require.True(t, ok)
	assert.Equal(t, invitation.SigningLink, data.SigningLink)
}

func TestMailNotifierReportsProviderFailure(t *testing.T) {
	n := NewMailNotifier(&fakeMailer{status: http.StatusUnauthorized}, util.NewLogger())
	assert.Error(t, n.SendInvitation(context.Background(), invitation))

	n = NewMailNotifier(&fakeMailer{status: -1, err: errors.New("network")}, util.NewLogger())
	assert.Error(t, n.SendInvitation(context.Background(), invitation))
}

func TestQueueNotifierPublishesMailJob(t *testing.T) {
	p := &fakePublisher{}
	n := NewQueueNotifier(p, util.NewLogger())

	require.NoError(t, n.SendInvitation(context.Background(), invitation))
	assert.Equal(t, queue.QueueMail, p.queue)
	require.Len(t, p.bodies, 1)

	var job queue.MailJobPayload
	require.NoError(t, json.Unmarshal(p.bodies[0], &job))
	assert.Equal(t, "bob@example.com", job.ToEmail)
	assert.Equal(t, mailer.SIGNING_INVITATION_TEMPLATE, job.TemplateFile)
}

func TestQueueNotifierSurfacesPublishError(t *testing.T) {
	n := NewQueueNotifier(&fakePublisher{err: errors.New("channel closed")}, util.NewLogger())
	assert.ErrorContains(t, n.SendInvitation(context.Background(), invitation), "channel closed")
}
