package woocommerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfloor/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remoteStore struct {
	server    *httptest.Server
	completed []int
}

// newRemoteStore serves a minimal WooCommerce orders API guarded by basic auth.
func newRemoteStore(t *testing.T) *remoteStore {
	t.Helper()
	rs := &remoteStore{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /wp-json/wc/v3/orders", func(w http.ResponseWriter, r *http.Request) {
		if !rs.authorized(w, r) {
			return
		}
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode([]Order{{
			ID:     501,
			Status: "processing",
			Total:  "49.00",
			Billing: Billing{
				FirstName: "Asha",
				LastName:  "Rao",
			},
			LineItems: []LineItem{{ID: 1, Name: "Green Tea", SKU: "GT-1", Quantity: 2}},
		}})
	})
	mux.HandleFunc("PUT /wp-json/wc/v3/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !rs.authorized(w, r) {
			return
		}
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		rs.completed = append(rs.completed, 501)
		_ = json.NewEncoder(w).Encode(Order{ID: 501, Status: "completed"})
	})
	rs.server = httptest.NewServer(mux)
	t.Cleanup(rs.server.Close)
	return rs
}

func (rs *remoteStore) authorized(w http.ResponseWriter, r *http.Request) bool {
	key, secret, ok := r.BasicAuth()
	if !ok || key != "ck_test" || secret != "cs_test" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"woocommerce_rest_cannot_view","message":"Sorry, you cannot list resources."}`))
		return false
	}
	return true
}

func (rs *remoteStore) credentials() models.WooCredentials {
	return models.WooCredentials{StoreURL: rs.server.URL + "/", ConsumerKey: "ck_test", ConsumerSecret: "cs_test"}
}

func TestClientGetOrders(t *testing.T) {
	rs := newRemoteStore(t)

	orders, err := NewClient(time.Second).GetOrders(context.Background(), rs.credentials())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 501, orders[0].ID)
	assert.Equal(t, "Asha", orders[0].Billing.FirstName)
	assert.Equal(t, "GT-1", orders[0].LineItems[0].SKU)
}

func TestClientReportsRemoteErrors(t *testing.T) {
	rs := newRemoteStore(t)
	creds := rs.credentials()
	creds.ConsumerSecret = "wrong"

	_, err := NewClient(time.Second).GetOrders(context.Background(), creds)

	assert.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "Sorry, you cannot list resources.")
}

func TestClientCompleteOrder(t *testing.T) {
	rs := newRemoteStore(t)

	order, err := NewClient(time.Second).CompleteOrder(context.Background(), rs.credentials(), 501)

	require.NoError(t, err)
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, []int{501}, rs.completed)
}
