package splitwise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/splitsync/splitwise-app-sheets/expenses"
	"github.com/splitsync/splitwise-app-sheets/logger"
)

const (
	BaseURL  = "https://secure.splitwise.com/api/v3.0"
	AuthURL  = "https://secure.splitwise.com/oauth/authorize"
	TokenURL = "https://secure.splitwise.com/oauth/token"
)

type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	APIKey         string
}

// Client is a read-only Splitwise API client authenticated with a personal API key.
type Client struct {
	client *http.Client
	base   string
}

type response struct {
	Expenses []expense `json:"expenses"`
	Error    string    `json:"error"`
}

type expense struct {
	ID          json.Number  `json:"id"`
	GroupID     *json.Number `json:"group_id"`
	Cost        amount       `json:"cost"`
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Category    *category    `json:"category"`
}

// amount is a cost as sent by Splitwise, either a decimal string or a JSON number. The
// text is kept exactly as received.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""

	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*a = amount(s)

	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid cost %s (%v)", b, err)
		}

		*a = amount(n.String())
	}

	return nil
}

type category struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

// NewClient returns a client that authenticates every request with the API key as an
// OAuth2 bearer token issued to the consumer key/secret application.
func NewClient(ctx context.Context, credentials Credentials) (*Client, error) {
	if strings.TrimSpace(credentials.ConsumerKey) == "" || strings.TrimSpace(credentials.ConsumerSecret) == "" {
		return nil, fmt.Errorf("missing Splitwise consumer key/secret (%w)", expenses.ErrAuthentication)
	}

	if strings.TrimSpace(credentials.APIKey) == "" {
		return nil, fmt.Errorf("missing Splitwise API key (%w)", expenses.ErrAuthentication)
	}

	config := oauth2.Config{
		ClientID:     credentials.ConsumerKey,
		ClientSecret: credentials.ConsumerSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
	}

	token := oauth2.Token{
		AccessToken: credentials.APIKey,
		TokenType:   "Bearer",
	}

	return &Client{
		client: config.Client(ctx, &token),
		base:   BaseURL,
	}, nil
}

// WithBaseURL returns a copy of the client that sends requests to an alternative API
// endpoint.
func (c *Client) WithBaseURL(base string) *Client {
	return &Client{
		client: c.client,
		base:   strings.TrimSuffix(base, "/"),
	}
}

// Fetch retrieves up to 'limit' expenses for a group, in the order returned by Splitwise.
func (c *Client) Fetch(ctx context.Context, groupID string, limit int) ([]expenses.Expense, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(groupID) == "" {
		return nil, fmt.Errorf("missing group ID (%w)", expenses.ErrConfig)
	}

	query := url.Values{}
	query.Set("group_id", strings.TrimSpace(groupID))
	query.Set("limit", strconv.Itoa(limit))

	uri := fmt.Sprintf("%v/get_expenses?%v", c.base, query.Encode())

	log.Debug().Str("url", uri).Msg("fetching expenses")

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid Splitwise request (%v) (%w)", err, expenses.ErrSourceUnavailable)
	}

	rq.Header.Set("Accept", "application/json")

	rs, err := c.client.Do(rq)
	if err != nil {
		return nil, fmt.Errorf("error retrieving expenses (%v) (%w)", err, expenses.ErrSourceUnavailable)
	}

	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading expenses (%v) (%w)", err, expenses.ErrSourceUnavailable)
	}

	reply := response{}
	decodeErr := json.Unmarshal(body, &reply)

	switch {
	case rs.StatusCode == http.StatusUnauthorized || rs.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("Splitwise rejected credentials: %v %v (%w)", rs.StatusCode, reply.Error, expenses.ErrAuthentication)

	case rs.StatusCode < 200 || rs.StatusCode > 299:
		return nil, fmt.Errorf("Splitwise request failed: %v %v (%w)", rs.StatusCode, reply.Error, expenses.ErrSourceUnavailable)

	case decodeErr != nil:
		return nil, fmt.Errorf("invalid Splitwise response (%v) (%w)", decodeErr, expenses.ErrSourceUnavailable)
	}

	list := make([]expenses.Expense, 0, len(reply.Expenses))
	for _, e := range reply.Expenses {
		list = append(list, e.toExpense())
	}

	return list, nil
}

func (e expense) toExpense() expenses.Expense {
	x := expenses.Expense{
		ID:          e.ID.String(),
		Cost:        string(e.Cost),
		Date:        e.Date,
		Description: e.Description,
	}

	if e.GroupID != nil {
		x.GroupID = e.GroupID.String()
	}

	if e.Category != nil {
		x.Category = &expenses.Category{
			ID:   e.Category.ID.String(),
			Name: e.Category.Name,
		}
	}

	return x
}
