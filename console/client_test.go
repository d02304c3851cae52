package console

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetStats(t *testing.T) {
	b := newBackend()
	defer b.Close()
	b.respond(http.StatusOK, `{"nome":"emails","estado":"ACTIVE","criado":"2024-05-01T12:00:00Z","regiao":"r1","mensagens":3,"consumidores":2}`)

	stats, err := NewClient(b.URL, 0).GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "emails", stats.Nome)
	assert.Equal(t, "ACTIVE", stats.Estado)
	assert.Equal(t, "2024-05-01T12:00:00Z", stats.Criado)
	assert.Equal(t, "r1", stats.Regiao)
	assert.Equal(t, 3, stats.Mensagens)
	assert.Equal(t, 2, stats.Consumidores)
}

func TestClientReadsErrorBodyOnFailure(t *testing.T) {
	b := newBackend()
	defer b.Close()
	b.respond(http.StatusInternalServerError, `{"error":"queue not found"}`)

	_, err := NewClient(b.URL, 0).GetStats(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "queue not found", apiErr.Message)
	assert.Equal(t, "queue not found", PublishErrorMessage(err))
}

func TestClientMalformedSuccessBody(t *testing.T) {
	b := newBackend()
	defer b.Close()
	b.respond(http.StatusOK, `{"message":`)

	_, err := NewClient(b.URL, 0).Publish(context.Background(), EndpointPublish, PublishPayload{Email: "a@b.c", Mensagem: "m"})

	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, GenericPublishErr, PublishErrorMessage(err))
}

func TestClientSuccessBodyMustBeObject(t *testing.T) {
	b := newBackend()
	defer b.Close()

	for _, body := range []string{`null`, `[1,2]`, `42`} {
		b.respond(http.StatusOK, body)

		_, err := NewClient(b.URL, 0).GetStats(context.Background())
		assert.ErrorIs(t, err, ErrMalformedResponse, "body %q", body)
	}
}

func TestClientPublishToChannel(t *testing.T) {
	b := newBackend()
	defer b.Close()
	b.respond(http.StatusOK, `{"message":"ok","id":"m-1"}`)

	msg, err := NewClient(b.URL, 0).Publish(context.Background(), EndpointChannel, PublishPayload{Email: "a@b.c", Mensagem: "m", Canal: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "ok", msg)

	reqs := b.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "c1", reqs[0].Body["canal"])
	assert.Equal(t, "application/json", reqs[0].Header.Get("Accept"))
}

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "unexpected status 502", (&APIError{Status: 502}).Error())
	assert.Equal(t, "status 400: bad", (&APIError{Status: 400, Message: "bad"}).Error())
	assert.Equal(t, GenericPublishErr, PublishErrorMessage(&APIError{Status: 502}))
	assert.Equal(t, GenericPublishErr, PublishErrorMessage(errors.New("dial tcp: refused")))
}
