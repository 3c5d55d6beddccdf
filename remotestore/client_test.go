package remotestore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vportal/remotestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func TestSelectDecodesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/voucher_codes", r.URL.Path)
		w.Write([]byte(`[{"id":1,"status":"available"},{"id":2,"status":"issued"}]`))
	}))
	defer srv.Close()

	client := remotestore.New(srv.URL, "anon-key", "service-key")

	var rows []testRow
	err := client.From("voucher_codes").Select(context.Background(), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "available", rows[0].Status)
}

func TestSelectFailsOpenOnPermissionDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"42501","message":"permission denied for table voucher_codes"}`))
	}))
	defer srv.Close()

	client := remotestore.New(srv.URL, "anon-key", "service-key")

	rows := []testRow{{ID: 99}}
	err := client.From("voucher_codes").Select(context.Background(), &rows)

	// reads degrade to an empty set instead of erroring
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSelectPropagatesNonPermissionErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"something broke"}`))
	}))
	defer srv.Close()

	client := remotestore.New(srv.URL, "anon-key", "service-key")

	var rows []testRow
	err := client.From("voucher_codes").Select(context.Background(), &rows)

	var se *remotestore.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestUpdatePermissionErrorsPropagate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"42501","message":"permission denied"}`))
	}))
	defer srv.Close()

	client := remotestore.New(srv.URL, "anon-key", "service-key")

	// writes never fail open
	err := client.From("voucher_codes").Admin().Eq("id", 1).
		Update(context.Background(), map[string]any{"status": "issued"}, nil)

	var se *remotestore.StoreError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.PermissionDenied())
}

func TestConditionalUpdateCarriesFilters(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Write([]byte(`[{"id":7,"status":"issued"}]`))
	}))
	defer srv.Close()

	client := remotestore.New(srv.URL, "anon-key", "service-key")

	var rows []testRow
	err := client.From("voucher_codes").Admin().
		Eq("id", 7).
		Eq("status", "available").
		Update(context.Background(), map[string]any{"status": "issued"}, &rows)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPatch, captured.Method)

	// the precondition travels with the write
	q := captured.URL.Query()
	assert.Equal(t, "eq.7", q.Get("id"))
	assert.Equal(t, "eq.available", q.Get("status"))
	assert.Equal(t, "return=representation", captured.Header.Get("Prefer"))

	// Admin queries authenticate with the service role key
	assert.Equal(t, "service-key", captured.Header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", captured.Header.Get("Authorization"))
}

func TestReadUsesAnonKey(t *testing.T) {
	var captured http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := remotestore.New(srv.URL, "anon-key", "service-key")

	var rows []testRow
	err := client.From("nx_voucher_requests").OrderDesc("request_date").Select(context.Background(), &rows)
	require.NoError(t, err)
	assert.Equal(t, "anon-key", captured.Get("apikey"))
}

func TestQueryOperatorEncoding(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := remotestore.New(srv.URL, "anon-key", "service-key")

	var rows []testRow
	err := client.From("nx_voucher_requests").Admin().
		In("status", "approved", "processed").
		IsNull("voucher_code").
		OrderAsc("id").
		Limit(1).
		Select(context.Background(), &rows)
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "in.(approved,processed)", q.Get("status"))
	assert.Equal(t, "is.null", q.Get("voucher_code"))
	assert.Equal(t, "id.asc", q.Get("order"))
	assert.Equal(t, "1", q.Get("limit"))
}

func TestDeleteUnsupported(t *testing.T) {
	client := remotestore.New("http://localhost:9", "anon-key", "service-key")
	err := client.From("voucher_codes").Delete(context.Background())
	assert.ErrorIs(t, err, remotestore.ErrUnsupportedOperation)
}

func TestMissingKeyNotConfigured(t *testing.T) {
	client := remotestore.New("http://localhost:9", "", "")
	var rows []testRow
	err := client.From("voucher_codes").Select(context.Background(), &rows)
	assert.ErrorIs(t, err, remotestore.ErrNotConfigured)

	disabled := remotestore.New("", "anon-key", "service-key")
	assert.False(t, disabled.Enabled())
	err = disabled.From("voucher_codes").Select(context.Background(), &rows)
	assert.ErrorIs(t, err, remotestore.ErrNotConfigured)
}
