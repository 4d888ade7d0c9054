package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayScheduler/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, logger.NewNop())
}

func TestGetContact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/users/5/contact", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":5,"name":"Ana","phone":"+5511999990000","fcm_token":"tok"}`))
	})

	contact, err := client.GetContact(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "+5511999990000", contact.Phone)
	assert.Equal(t, "tok", contact.FCMToken)
}

func TestGetContact_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetContact(context.Background(), 5)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetVehicle_UnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := client.GetVehicle(context.Background(), 5, 11)

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGetVehicleWithGracefulDegradation(t *testing.T) {
	t.Run("not found is passed through", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.GetVehicleWithGracefulDegradation(context.Background(), 5, 11)
		assert.ErrorIs(t, err, ErrVehicleNotFound)
	})

	t.Run("outage is degraded", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.GetVehicleWithGracefulDegradation(context.Background(), 5, 11)
		assert.ErrorIs(t, err, ErrServiceDegraded)
	})

	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/internal/users/5/vehicles/11", r.URL.Path)
			_, _ = w.Write([]byte(`{"id":11,"user_id":5,"brand":"Fiat","model":"Uno","license_plate":"ABC1D23"}`))
		})

		v, err := client.GetVehicleWithGracefulDegradation(context.Background(), 5, 11)
		require.NoError(t, err)
		assert.Equal(t, "Fiat", v.Brand)
	})
}
