package helpers_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-service-ext/pkg/helpers"
)

type roleChanged struct {
	Kind   string `json:"type"`
	RoleID string `json:"role_id"`
}

func (e roleChanged) EventType() string { return e.Kind }

func TestEncodePublishingTypedEvent(t *testing.T) {
	msg, err := helpers.EncodePublishing(roleChanged{Kind: "role.deleted", RoleID: "r1"}, "user-service-ext")
	require.NoError(t, err)

	require.Equal(t, "application/json", msg.ContentType)
	require.Equal(t, amqp.Persistent, msg.DeliveryMode)
	require.Equal(t, "role.deleted", msg.Type)
	require.Equal(t, "user-service-ext", msg.AppId)
	_, err = uuid.Parse(msg.MessageId)
	require.NoError(t, err)
	require.False(t, msg.Timestamp.IsZero())
	require.JSONEq(t, `{"type":"role.deleted","role_id":"r1"}`, string(msg.Body))
}

func TestEncodePublishingPlainBody(t *testing.T) {
	msg, err := helpers.EncodePublishing(map[string]string{"k": "v"}, "")
	require.NoError(t, err)
	require.Empty(t, msg.Type)

	_, err = helpers.EncodePublishing(make(chan int), "")
	var jerr *json.UnsupportedTypeError
	require.ErrorAs(t, err, &jerr)
}

func TestPublishJSONWithoutConnection(t *testing.T) {
	var p *helpers.RabbitPublisher
	require.Error(t, p.PublishJSON(context.Background(), roleChanged{}))
	require.Error(t, (&helpers.RabbitPublisher{}).PublishJSON(context.Background(), roleChanged{}))
}
