package gateways_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citizenvoice/pqrs-dashboard-api/config"
	"github.com/citizenvoice/pqrs-dashboard-api/gateways"
	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

func newCaseService(backendURL string) gateways.CaseService {
	return gateways.NewCaseService(&config.Config{BackendURL: backendURL})
}

func TestListReturnsNormalizedCases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pqrs", r.URL.Path)
		w.Write([]byte(`[{"id":1,"subject":"a","status":"resolved"},{"id":2,"subject":"b","status":"bogus"}]`))
	}))
	defer srv.Close()

	cases, err := newCaseService(srv.URL).List(context.Background())

	assert.NoError(t, err)
	assert.Len(t, cases, 2)
	assert.Equal(t, models.StatusResolved, cases[0].Status)
	assert.Equal(t, models.StatusPending, cases[1].Status)
}

func TestGetEmptyIDFailsBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newCaseService(srv.URL).Get(context.Background(), "")

	assert.ErrorIs(t, err, gateways.ErrInvalidRequest)
	assert.False(t, called)
}

func TestGetEmptyObjectMeansNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newCaseService(srv.URL).Get(context.Background(), "42")

	assert.ErrorIs(t, err, gateways.ErrNotFound)
}

func TestGetUpstream404MeansNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newCaseService(srv.URL).Get(context.Background(), "42")

	assert.ErrorIs(t, err, gateways.ErrNotFound)
}

func TestGetUpstreamFailureCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"backend exploded"}`))
	}))
	defer srv.Close()

	_, err := newCaseService(srv.URL).Get(context.Background(), "42")

	upstream, ok := gateways.AsUpstream(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
	assert.Equal(t, "backend exploded", upstream.Body)
}

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pqrs/42", r.URL.Path)
		w.Write([]byte(`{"id":42,"subject":"pothole","tracking_number":"TRK-1"}`))
	}))
	defer srv.Close()

	record, err := newCaseService(srv.URL).Get(context.Background(), "42")

	assert.NoError(t, err)
	assert.Equal(t, 42, record.ID)
	assert.Equal(t, models.StatusPending, record.Status)
}

func TestUpdateEchoesSubmittedRecordOnAcknowledgement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte(`{"message":"updated"}`))
	}))
	defer srv.Close()

	record := models.Case{ID: 42, Subject: "pothole", TrackingNumber: "TRK-1", Status: models.StatusResolved}
	updated, err := newCaseService(srv.URL).Update(context.Background(), "42", record)

	assert.NoError(t, err)
	assert.Equal(t, "TRK-1", updated.TrackingNumber)
	assert.Equal(t, models.StatusResolved, updated.Status)
}

func TestUpdateReturnsBackendRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got models.Case
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		got.UpdatedAt = "2024-03-01 10:00:00"
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	record := models.Case{ID: 42, TrackingNumber: "TRK-1"}
	updated, err := newCaseService(srv.URL).Update(context.Background(), "42", record)

	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01 10:00:00", updated.UpdatedAt)
}

func TestSubscribePostsToken(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newCaseService(srv.URL).Subscribe(context.Background(), "tok-1")

	assert.NoError(t, err)
	assert.Equal(t, "tok-1", got["token"])
}

func TestSubscribeEmptyToken(t *testing.T) {
	err := newCaseService("http://unused").Subscribe(context.Background(), "")
	assert.ErrorIs(t, err, gateways.ErrInvalidRequest)
}

func TestNetworkFailureMapsToErrNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := newCaseService(srv.URL).List(context.Background())

	assert.ErrorIs(t, err, gateways.ErrNetwork)
}
