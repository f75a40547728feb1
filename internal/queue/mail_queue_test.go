package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SeakMengs/AutoSign/internal/mailer"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	published [][]byte
	acked     int
	nacked    int
}

func (b *fakeBroker) Publish(routingKey QueueName, body []byte) error {
	b.published = append(b.published, body)
	return nil
}

func (b *fakeBroker) Ack(delivery amqp091.Delivery) error {
	b.acked++
	return nil
}

func (b *fakeBroker) Nack(delivery amqp091.Delivery, requeue bool) error {
	b.nacked++
	return nil
}

func newDelivery(t *testing.T, job MailJobPayload) amqp091.Delivery {
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return amqp091.Delivery{Body: body}
}

func testConsumerContext() *MailConsumerContext {
	return &MailConsumerContext{Logger: util.NewLogger()}
}

func TestNewSigningInvitationMailJob(t *testing.T) {
	job, err := NewSigningInvitationMailJob("alice@example.com", "Alice", mailer.SigningInvitationData{
		RecipientName: "Alice",
		ContractTitle: "Lease",
		SigningLink:   "http://localhost/sign/c1?signer=s1",
	})
	require.NoError(t, err)

	assert.Equal(t, mailer.SIGNING_INVITATION_TEMPLATE, job.TemplateFile)
	assert.Equal(t, 0, job.Try)

	var data mailer.SigningInvitationData
	require.NoError(t, json.Unmarshal(job.Data, &data))
	assert.Equal(t, "Lease", data.ContractTitle)
}

func TestProcessMailJobAcksOnSuccess(t *testing.T) {
	broker := &fakeBroker{}
	job, _ := NewMailJobPayload("a@example.com", "A", mailer.SIGNING_INVITATION_TEMPLATE, map[string]string{})

	processMailJob(context.Background(), broker, 1, newDelivery(t, job), func(ctx context.Context, p MailJobPayload, app *MailConsumerContext) (bool, error) {
		return false, nil
	}, testConsumerContext())

	assert.Equal(t, 1, broker.acked)
	assert.Empty(t, broker.published)
}

func TestProcessMailJobRequeuesWithIncrementedTry(t *testing.T) {
	broker := &fakeBroker{}
	job, _ := NewMailJobPayload("a@example.com", "A", mailer.SIGNING_INVITATION_TEMPLATE, map[string]string{})

	processMailJob(context.Background(), broker, 1, newDelivery(t, job), func(ctx context.Context, p MailJobPayload, app *MailConsumerContext) (bool, error) {
		return true, errors.New("smtp down")
	}, testConsumerContext())

	require.Len(t, broker.published, 1)
	var requeued MailJobPayload
	require.NoError(t, json.Unmarshal(broker.published[0], &requeued))
	assert.Equal(t, 1, requeued.Try)
	assert.Equal(t, 1, broker.acked)
}

func TestProcessMailJobDropsAfterMaxRetry(t *testing.T) {
	broker := &fakeBroker{}
	job, _ := NewMailJobPayload("a@example.com", "A", mailer.SIGNING_INVITATION_TEMPLATE, map[string]string{})
	job.Try = MAX_QUEUE_RETRY

	processMailJob(context.Background(), broker, 1, newDelivery(t, job), func(ctx context.Context, p MailJobPayload, app *MailConsumerContext) (bool, error) {
		return true, errors.New("smtp down")
	}, testConsumerContext())

	assert.Empty(t, broker.published)
	assert.Equal(t, 1, broker.nacked)
}

func TestProcessMailJobRejectsGarbage(t *testing.T) {
	broker := &fakeBroker{}

	processMailJob(context.Background(), broker, 1, amqp091.Delivery{Body: []byte("{not json")}, func(ctx context.Context, p MailJobPayload, app *MailConsumerContext) (bool, error) {
		t.Fatal("handler must not run")
		return false, nil
	}, testConsumerContext())

	assert.Equal(t, 1, broker.nacked)
}
