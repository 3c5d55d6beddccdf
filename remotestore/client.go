package remotestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the hosted table store's REST interface. It carries two
// credentials: the anon key for read paths and the service role key for
// writes, mirroring the store's own permission split. Reads that fail with a
// permission-style error degrade to an empty result set so admin views stay
// available; writes always propagate their errors.
type Client struct {
	http       *resty.Client
	anonKey    string
	serviceKey string
}

// New builds a Client for the given REST base URL. Either key may be empty;
// operations needing a missing key fail with ErrNotConfigured.
func New(baseURL, anonKey, serviceKey string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{http: rc, anonKey: anonKey, serviceKey: serviceKey}
}

// Enabled reports whether the client has a base URL to talk to
func (c *Client) Enabled() bool {
	return c != nil && c.http.BaseURL != ""
}

// From starts a query against one remote table
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Query is a filtered operation against a single remote table. Filters use
// the store's native column operators (eq, in, is), so conditional updates
// like "set issued where status=available" execute as one atomic statement on
// the store side.
type Query struct {
	c      *Client
	table  string
	params url.Values
	admin  bool
}

// Admin switches the query to the service role key (required for writes to
// the voucher tables, which are RLS-protected for the anon key)
func (q *Query) Admin() *Query {
	q.admin = true
	return q
}

// Eq filters rows where col equals val
func (q *Query) Eq(col string, val any) *Query {
	q.params.Add(col, fmt.Sprintf("eq.%v", val))
	return q
}

// In filters rows where col is one of vals
func (q *Query) In(col string, vals ...string) *Query {
	q.params.Add(col, "in.("+strings.Join(vals, ",")+")")
	return q
}

// IsNull filters rows where col is null
func (q *Query) IsNull(col string) *Query {
	q.params.Add(col, "is.null")
	return q
}

// NotNull filters rows where col is not null
func (q *Query) NotNull(col string) *Query {
	q.params.Add(col, "not.is.null")
	return q
}

// OrderAsc orders results by col ascending
func (q *Query) OrderAsc(col string) *Query {
	q.params.Set("order", col+".asc")
	return q
}

// OrderDesc orders results by col descending
func (q *Query) OrderDesc(col string) *Query {
	q.params.Set("order", col+".desc")
	return q
}

// Limit caps the number of returned rows
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", fmt.Sprintf("%d", n))
	return q
}

func (q *Query) key() string {
	if q.admin {
		return q.c.serviceKey
	}
	return q.c.anonKey
}

func (q *Query) request(ctx context.Context) (*resty.Request, error) {
	if !q.c.Enabled() {
		return nil, ErrNotConfigured
	}
	key := q.key()
	if key == "" {
		return nil, ErrNotConfigured
	}
	return q.c.http.R().
		SetContext(ctx).
		SetHeader("apikey", key).
		SetHeader("Authorization", "Bearer "+key).
		SetQueryParamsFromValues(q.params), nil
}

func storeError(resp *resty.Response) error {
	se := &StoreError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), se); err != nil || se.Message == "" {
		se.Message = strings.TrimSpace(string(resp.Body()))
	}
	return se
}

// Select runs the query and decodes the matching rows into dest, which must
// be a pointer to a slice. Permission-style failures are logged and yield an
// empty result instead of an error.
func (q *Query) Select(ctx context.Context, dest any) error {
	req, err := q.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.Get("/" + q.table)
	if err != nil {
		return err
	}

	if resp.IsError() {
		serr := storeError(resp)
		if se, ok := serr.(*StoreError); ok && se.PermissionDenied() {
			log.Printf("[REMOTE-STORE] permissions issue reading %s, returning empty set: %v", q.table, se)
			return json.Unmarshal([]byte("[]"), dest)
		}
		return serr
	}

	return json.Unmarshal(resp.Body(), dest)
}

// Insert posts one or more rows and decodes the created rows into dest when
// dest is non-nil
func (q *Query) Insert(ctx context.Context, body any, dest any) error {
	req, err := q.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		Post("/" + q.table)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return storeError(resp)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), dest)
}

// Update patches all rows matching the filters and decodes the updated rows
// into dest when dest is non-nil. The filters travel with the PATCH, so a
// caller asking for "status=available" only wins rows that are still
// available at write time; zero returned rows means the precondition no
// longer held.
func (q *Query) Update(ctx context.Context, patch any, dest any) error {
	req, err := q.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Prefer", "return=representation").
		SetBody(patch).
		Patch("/" + q.table)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return storeError(resp)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(resp.Body(), dest)
}

// Delete is not translated for the voucher tables
func (q *Query) Delete(ctx context.Context) error {
	return ErrUnsupportedOperation
}
