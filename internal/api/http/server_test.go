package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/transport/transporttest"
	"github.com/suiticket/v1/internal/api/http/handlers"
	apiconfig "github.com/suiticket/v1/internal/config/api"
)

var (
	registry   = config.DefaultRegistry()
	kioskID    = config.NormalizeAddress("0xb10")
	activityID = config.NormalizeAddress("0xa1")
	ticketID   = config.NormalizeAddress("0x71")
	buyer      = config.NormalizeAddress("0xbeef")
)

func typeOf(module, name string) string {
	return config.StructType(registry.PackageAddress(config.Testnet, "v1"), module, name)
}

func seed(fake *transporttest.Fake) {
	fake.AddObject(transporttest.SharedObject(kioskID, config.FrameworkKioskType, nil), "")
	fake.AddObject(transporttest.SharedObject(activityID, typeOf(config.ModuleActivity, config.StructActivity),
		map[string]interface{}{
			"name":                 "Jazz Night",
			"organizer_profile_id": config.NormalizeAddress("0xc2"),
			"total_supply":         "100",
			"tickets_sold":         "7",
			"ticket_price":         "800000000",
			"sale_ended_at":        "1800000000000",
		}), "")
	fake.AddObject(transporttest.OwnedObject(ticketID, typeOf(config.ModuleTicket, config.StructTicket), kioskID,
		map[string]interface{}{"activity_id": activityID, "redeemed_at": "0"}), "")
	fake.AddDynamicField(kioskID, transport.DynamicFieldInfo{
		Type:       "DynamicObject",
		ObjectType: typeOf(config.ModuleTicket, config.StructTicket),
		ObjectID:   ticketID,
	})
	fake.OnInspect(config.FnAppListedPrice, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.ReturnU64(1_000_000_000), nil
	})
}

func newServer(t *testing.T, cfg apiconfig.HTTPConfig) *Server {
	t.Helper()
	return NewServer(cfg, newBackends(t), "test", nil)
}

func newBackends(t *testing.T) handlers.Clients {
	t.Helper()
	fake := transporttest.New()
	seed(fake)

	clients := handlers.Clients{}
	for _, env := range []config.Environment{config.Testnet, config.Mainnet} {
		cl, err := client.NewWithTransport(fake, env, client.Options{Registry: registry})
		require.NoError(t, err)
		clients[env] = cl
	}
	return clients
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestHealthReportsUndeployedNetwork(t *testing.T) {
	s := newServer(t, apiconfig.Default())
	w, env := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var health struct {
		Status   string            `json:"status"`
		Networks map[string]string `json:"networks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "deployed", health.Networks["testnet"])
	assert.Equal(t, "not_deployed", health.Networks["mainnet"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newServer(t, apiconfig.Default())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"requestId":"req-42"`)
}

func TestEntityReads(t *testing.T) {
	s := newServer(t, apiconfig.Default())

	w, env := do(t, s, http.MethodGet, "/v1/testnet/activities/0xa1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var act struct {
		Activity  struct{ Name string } `json:"activity"`
		Remaining uint64                `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &act))
	assert.Equal(t, "Jazz Night", act.Activity.Name)
	assert.Equal(t, uint64(93), act.Remaining)

	w, env = do(t, s, http.MethodGet, "/v1/testnet/tickets/0x71", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"redeemed":false`)

	w, env = do(t, s, http.MethodGet, "/v1/testnet/tickets/0x99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	// 活动对象不是门票
	w, _ = do(t, s, http.MethodGet, "/v1/testnet/tickets/0xa1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, s, http.MethodGet, "/v1/testnet/profiles/user/"+buyer, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"found":false`)
}

func TestBadRequests(t *testing.T) {
	s := newServer(t, apiconfig.Default())

	w, env := do(t, s, http.MethodGet, "/v1/localnet/policy", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_NETWORK", env.Error.Code)

	w, env = do(t, s, http.MethodGet, "/v1/testnet/tickets/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code)

	w, env = do(t, s, http.MethodGet, "/v1/testnet/fees", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, s, http.MethodGet, "/v1/testnet/fees?price=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code)

	w, env = do(t, s, http.MethodGet, "/v1/mainnet/policy", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_DEPLOYED", env.Error.Code)

	w, env = do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestFeesAndPolicy(t *testing.T) {
	s := newServer(t, apiconfig.Default())

	w, env := do(t, s, http.MethodGet, "/v1/testnet/fees?price=1sui", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quote struct {
		Price     string `json:"price"`
		TotalCost string `json:"totalCost"`
		Royalty   struct {
			Source string `json:"source"`
		} `json:"royalty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "1000000000", quote.Price)
	assert.Equal(t, "1075000000", quote.TotalCost)
	assert.Equal(t, "fallback", quote.Royalty.Source)

	w, env = do(t, s, http.MethodGet, "/v1/testnet/policy", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"hasRoyaltyRule":false`)
}

func TestListings(t *testing.T) {
	s := newServer(t, apiconfig.Default())
	w, env := do(t, s, http.MethodGet, "/v1/testnet/kiosks/0xb10/listings", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var listings []struct {
		TicketID     string `json:"ticketId"`
		ActivityName string `json:"activityName"`
		ListedPrice  string `json:"listedPrice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, ticketID, listings[0].TicketID)
	assert.Equal(t, "Jazz Night", listings[0].ActivityName)
	assert.Equal(t, "1000000000", listings[0].ListedPrice)
}

func TestPurchaseListedBundle(t *testing.T) {
	s := newServer(t, apiconfig.Default())
	body := `{"kioskId":"0xb10","ticketId":"0x71","recipient":"` + buyer + `"}`
	w, env := do(t, s, http.MethodPost, "/v1/testnet/bundles/purchase-listed", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Bundle struct {
			Sender   string            `json:"sender"`
			Commands []json.RawMessage `json:"commands"`
		} `json:"bundle"`
		Quote struct {
			TotalCost string `json:"totalCost"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, buyer, resp.Bundle.Sender)
	assert.NotEmpty(t, resp.Bundle.Commands)
	assert.Equal(t, "1075000000", resp.Quote.TotalCost)

	w, env = do(t, s, http.MethodPost, "/v1/testnet/bundles/purchase-listed", `{"kioskId":"0xb10"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code)
}

func TestRateLimitAndMetrics(t *testing.T) {
	cfg := apiconfig.Default()
	cfg.RateLimitRequestsPerMinute = 1
	s := newServer(t, cfg)

	w, _ := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, env := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Error.Code)

	open := newServer(t, apiconfig.Default())
	do(t, open, http.MethodGet, "/health", "")
	w, _ = do(t, open, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "suiticket_api_requests_total")
}
