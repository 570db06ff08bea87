package cms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/princinho/catalogsite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotes_SubmitSetsInitialStatus(t *testing.T) {
	fake := newFakeCMS(t)
	fake.respond(http.MethodPost, "/items/cotizaciones", http.StatusOK, `{"data":{"id":1}}`)
	quotes := NewQuotes(fake.client(), "read-token")

	company := "ACME"
	err := quotes.Submit(context.Background(), models.QuoteRequest{
		Name: "Ana", Email: "ana@example.com", Phone: "1155", Company: &company, Status: "otra",
	})
	require.NoError(t, err)

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Header.Get("Authorization"), "create is unauthenticated")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(reqs[0].Body), &body))
	assert.Equal(t, "nueva", body["estado"])
	assert.Equal(t, "ACME", body["empresa"])
	assert.Nil(t, body["comentarios"])
}

func TestQuotes_SubmitUpstreamError(t *testing.T) {
	fake := newFakeCMS(t)
	fake.respond(http.MethodPost, "/items/cotizaciones", http.StatusForbidden, `{"errors":[{"message":"no permission"}]}`)
	quotes := NewQuotes(fake.client(), "")

	err := quotes.Submit(context.Background(), models.QuoteRequest{Name: "Ana", Email: "a@b.c", Phone: "1"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
}

func TestQuotes_List(t *testing.T) {
	fake := newFakeCMS(t)
	fake.respond(http.MethodGet, "/items/cotizaciones", http.StatusOK,
		`{"data":[{"id":2,"nombre":"Beto","email":"b@x.com","telefono":"2","empresa":null,"estado":"nueva","date_created":"2026-03-02T10:00:00"},
		          {"id":1,"nombre":"Ana","email":"a@x.com","telefono":"1","estado":"nueva"}]}`)
	quotes := NewQuotes(fake.client(), "read-token")

	items, err := quotes.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Beto", items[0].Name)
	assert.Nil(t, items[0].Company)

	req := fake.recorded()[0]
	assert.Equal(t, "Bearer read-token", req.Header.Get("Authorization"))
	assert.Equal(t, "-date_created", req.Query.Get("sort"))
}

func TestQuotes_ListWithoutToken(t *testing.T) {
	fake := newFakeCMS(t)
	quotes := NewQuotes(fake.client(), "")

	assert.False(t, quotes.CanRead())
	_, err := quotes.List(context.Background())
	assert.ErrorIs(t, err, ErrReadTokenMissing)
	assert.Empty(t, fake.recorded())
}
