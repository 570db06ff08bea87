package cms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/princinho/catalogsite/models"
)

// QuotesCollection holds the submitted quote requests.
const QuotesCollection = "cotizaciones"

// ErrReadTokenMissing means the server has no token to read quote requests.
var ErrReadTokenMissing = errors.New("cms read token is not configured")

// Quotes forwards quote requests to the CMS and reads them back for admins.
type Quotes struct {
	col       *Collection
	readToken string
}

func NewQuotes(client *Client, readToken string) *Quotes {
	return &Quotes{col: client.Collection(QuotesCollection), readToken: readToken}
}

// CanRead reports whether a read token is configured.
func (q *Quotes) CanRead() bool {
	return q.readToken != ""
}

// Submit creates the quote request with the initial status. The create is
// unauthenticated: the CMS public role is allowed to insert quotes.
func (q *Quotes) Submit(ctx context.Context, req models.QuoteRequest) error {
	req.Status = models.QuoteStatusNew
	return q.col.InsertOne(ctx, req)
}

// List returns every quote request, newest first.
func (q *Quotes) List(ctx context.Context) ([]models.StoredQuoteRequest, error) {
	if !q.CanRead() {
		return nil, ErrReadTokenMissing
	}
	items := []models.StoredQuoteRequest{}
	query := NewQuery().SetSort("-date_created")
	if err := q.col.WithToken(q.readToken).Find(ctx, query, &items); err != nil {
		return nil, err
	}
	return items, nil
}
