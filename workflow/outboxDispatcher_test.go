package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	fail bool
	got  []config.DocumentEventMessage
}

func (p *fakePublisher) publish(_ context.Context, msg config.DocumentEventMessage) (string, error) {
	if p.fail {
		return "", errors.New("broker unavailable")
	}
	p.got = append(p.got, msg)
	return "msg-" + msg.DocumentId, nil
}

func newTestDispatcher(t *testing.T, pub *fakePublisher) (*OutboxDispatcher, *DocumentWorkflow) {
	t.Helper()
	w := newTestWorkflow(t)
	d := NewOutboxDispatcher(w.DB, w.Logger)
	d.Publish = pub.publish
	d.Now = func() time.Time { return testNow }
	d.MaxAttempts = 2
	return d, w
}

func TestOutboxDispatcher_PublishesPendingEvents(t *testing.T) {
	pub := &fakePublisher{}
	d, w := newTestDispatcher(t, pub)

	q, err := w.CreateQuote(actorCtx("E1", true), &models.NewQuote{RelatedTo: models.RelatedToCustomer("C1")})
	require.NoError(t, err)

	sent, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, pub.got, 1)
	assert.Equal(t, q.ID, pub.got[0].DocumentId)
	assert.Equal(t, "Quote", pub.got[0].Kind)
	assert.Equal(t, "created", pub.got[0].Action)
	assert.Equal(t, "corr-E1", pub.got[0].CorrelationId)

	var rec models.DocumentEventRecord
	require.NoError(t, w.DB.First(&rec).Error)
	assert.Equal(t, models.OutboxPublishStatusSent, rec.PublishStatus)
	require.NotNil(t, rec.PubSubMessageId)
	assert.Equal(t, "msg-"+q.ID, *rec.PubSubMessageId)
	assert.Equal(t, 1, rec.PublishAttempts)

	sent, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Len(t, pub.got, 1)
}

func TestOutboxDispatcher_RetriesThenDead(t *testing.T) {
	pub := &fakePublisher{fail: true}
	d, w := newTestDispatcher(t, pub)

	_, err := w.CreateQuote(actorCtx("E1", true), &models.NewQuote{RelatedTo: models.RelatedToCustomer("C1")})
	require.NoError(t, err)

	_, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)

	var rec models.DocumentEventRecord
	require.NoError(t, w.DB.First(&rec).Error)
	assert.Equal(t, models.OutboxPublishStatusFailed, rec.PublishStatus)
	require.NotNil(t, rec.LastPublishError)
	assert.Equal(t, "broker unavailable", *rec.LastPublishError)
	require.NotNil(t, rec.NextAttemptAt)
	assert.True(t, rec.NextAttemptAt.Equal(testNow.Add(d.InitialBackoff)))

	// not due yet
	sent, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	require.NoError(t, w.DB.First(&rec).Error)
	assert.Equal(t, 1, rec.PublishAttempts)

	d.Now = func() time.Time { return testNow.Add(time.Hour) }
	_, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.DB.First(&rec).Error)
	assert.Equal(t, models.OutboxPublishStatusDead, rec.PublishStatus)
	assert.Equal(t, 2, rec.PublishAttempts)
}

func TestRetryBackoff(t *testing.T) {
	assert.Equal(t, 5*time.Second, retryBackoff(5*time.Second, 1))
	assert.Equal(t, 20*time.Second, retryBackoff(5*time.Second, 3))
	assert.Equal(t, 10*time.Minute, retryBackoff(5*time.Second, 30))
}
