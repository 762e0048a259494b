// Tastebud - Food Ordering Backend and Personalized Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastebud

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/tastebud/internal/config"
	"github.com/tomtom215/tastebud/internal/database"
	"github.com/tomtom215/tastebud/internal/logging"
	"github.com/tomtom215/tastebud/internal/models"
	"github.com/tomtom215/tastebud/internal/orders"
	"github.com/tomtom215/tastebud/internal/recommend"
	"github.com/tomtom215/tastebud/internal/recommend/algorithms"
	"github.com/tomtom215/tastebud/internal/users"
)

type testServer struct {
	db      *database.DB
	handler *Handler
	router  http.Handler
}

// envelope mirrors models.APIResponse with the data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, item := range []models.Item{
		{ID: "marg", Name: "Margherita", Type: "Pizza", Category: "Vegetarian", Price: 8.5,
			Ingredients: []string{"Tomato", "Mozzarella", "Basil"}},
		{ID: "salad", Name: "Greek Salad", Type: "Salad", Category: "Vegetarian", Price: 6.25,
			Ingredients: []string{"Lettuce", "Tomato", "Feta"}},
		{ID: "burger", Name: "Cheeseburger", Type: "Burger", Category: "Meat", Price: 10,
			Ingredients: []string{"Beef", "Cheddar"}},
	} {
		item := item
		item.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := db.CreateItem(ctx, &item); err != nil {
			t.Fatalf("CreateItem(%s) error = %v", item.ID, err)
		}
	}

	logger := logging.NewTestLogger(io.Discard)
	prefs := db.Preferences()
	cfg := recommend.DefaultConfig()
	engine, err := recommend.NewEngine(cfg, logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	algorithms.RegisterAll(engine, algorithms.Sources{Preferences: prefs, Orders: db, Reviews: db, Catalog: db})

	updater := recommend.NewUpdater(prefs, db, db, db, cfg, logger)
	userSvc := users.NewService(db, prefs, updater,
		users.Config{BcryptCost: bcrypt.MinCost, TxCreator: prefs}, logger)
	orderSvc := orders.NewService(db, updater, logger, orders.WithTxMerger(prefs))

	h := NewHandler(HandlerDeps{
		Catalog:     db,
		Users:       userSvc,
		Orders:      orderSvc,
		Recommender: engine,
		Version:     "test",
	})
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	mw := NewChiMiddleware(mwCfg)
	return &testServer{db: db, handler: h, router: NewRouter(h, mw)}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			data, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			raw = string(data)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func (s *testServer) register(t *testing.T, email string) models.User {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/users", models.CreateUserRequest{
		Name: "Ada", Email: email, Password: "correct horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var user models.User
	decodeData(t, env, &user)
	return user
}

func orderBody(userID string, lines ...models.OrderLineRequest) models.CreateOrderRequest {
	return models.CreateOrderRequest{
		UserID:  userID,
		Address: models.Address{Line1: "1 Main St", Town: "Leeds", Postcode: "LS1 1AA"},
		Lines:   lines,
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var status HealthStatus
	decodeData(t, env, &status)
	if status.Status != "healthy" || !status.DatabaseHealthy || status.Version != "test" {
		t.Errorf("health = %+v", status)
	}
	if status.EventsEnabled {
		t.Error("events reported enabled without a publisher")
	}
	if len(status.Recommendations.Strategies) != 4 {
		t.Errorf("strategies = %v", status.Recommendations.Strategies)
	}

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		if rec, _ := s.do(t, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}

	_ = s.db.Close()
	if rec, env := s.do(t, http.MethodGet, "/api/v1/health/ready", nil); rec.Code != http.StatusServiceUnavailable ||
		env.Error == nil || env.Error.Code != models.ErrCodeServiceUnavailable {
		t.Errorf("ready after close = %d %+v", rec.Code, env.Error)
	}
}

func TestPlaceOrderFlow(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")

	rec, env := s.do(t, http.MethodPost, "/api/v1/orders", orderBody(user.ID,
		models.OrderLineRequest{ItemID: "marg", Quantity: 2},
		models.OrderLineRequest{ItemID: "salad", Quantity: 1},
	))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order status = %d, body %s", rec.Code, rec.Body.String())
	}
	var order models.Order
	decodeData(t, env, &order)
	if order.Amount != 23.25 || order.Status != models.OrderStatusNotDelivered || len(order.Lines) != 2 {
		t.Errorf("order = %+v", order)
	}
	if env.Metadata.RequestID == "" {
		t.Error("metadata has no request ID")
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/users/"+user.ID+"/preferences", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preferences status = %d", rec.Code)
	}
	var snap struct {
		Ingredients []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
		} `json:"ingredients"`
	}
	decodeData(t, env, &snap)
	scores := make(map[string]float64)
	for _, e := range snap.Ingredients {
		scores[e.Name] = e.Value
	}
	if scores["Tomato"] != 10 || scores["Basil"] != 5 {
		t.Errorf("ingredients = %+v", snap.Ingredients)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get order status = %d", rec.Code)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/users/"+user.ID+"/orders", nil)
	var list []models.Order
	decodeData(t, env, &list)
	if rec.Code != http.StatusOK || len(list) != 1 || list[0].ID != order.ID {
		t.Errorf("user orders = %d %+v", rec.Code, list)
	}

	rec, env = s.do(t, http.MethodPut, "/api/v1/orders/"+order.ID+"/status",
		models.UpdateOrderStatusRequest{Status: models.OrderStatusDelivered})
	decodeData(t, env, &order)
	if rec.Code != http.StatusOK || order.Status != models.OrderStatusDelivered {
		t.Errorf("update status = %d %+v", rec.Code, order)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/users/"+user.ID+"/recommendations?k=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations status = %d, body %s", rec.Code, rec.Body.String())
	}
	var recs RecommendationsResponse
	decodeData(t, env, &recs)
	if recs.Metadata.Strategy != "ingredient_affinity" || len(recs.Items) > 2 {
		t.Errorf("recommendations = %+v", recs)
	}
}

func TestOrderErrors(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{"user_id":`, http.StatusBadRequest, models.ErrCodeValidation},
		{"unknown field", `{"user_id":"x","bogus":1}`, http.StatusBadRequest, models.ErrCodeValidation},
		{"empty body", "", http.StatusBadRequest, models.ErrCodeValidation},
		{"no lines", orderBody(user.ID), http.StatusBadRequest, models.ErrCodeValidation},
		{"unknown user", orderBody("ghost", models.OrderLineRequest{ItemID: "marg", Quantity: 1}),
			http.StatusNotFound, models.ErrCodeNotFound},
		{"unknown item", orderBody(user.ID, models.OrderLineRequest{ItemID: "nope", Quantity: 1}),
			http.StatusNotFound, models.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, "/api/v1/orders", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if env.Status != "error" || env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("envelope = %+v", env)
			}
		})
	}

	if rec, _ := s.do(t, http.MethodGet, "/api/v1/orders/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing order status = %d", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodPut, "/api/v1/orders/missing/status",
		models.UpdateOrderStatusRequest{Status: "Lost"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status = %d", rec.Code)
	}
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")

	rec, env := s.do(t, http.MethodGet, "/api/v1/users/"+user.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user status = %d", rec.Code)
	}
	if bytes.Contains(env.Data, []byte("correct horse")) || bytes.Contains(env.Data, []byte("$2a$")) {
		t.Error("user response leaks the password")
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/users", models.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	})
	if rec.Code != http.StatusConflict || env.Error.Code != models.ErrCodeConflict {
		t.Errorf("duplicate register = %d %+v", rec.Code, env.Error)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/users", models.CreateUserRequest{Email: "bad"})
	if rec.Code != http.StatusBadRequest || len(env.Error.Details) == 0 {
		t.Errorf("invalid register = %d %+v", rec.Code, env.Error)
	}

	for _, path := range []string{
		"/api/v1/users/ghost",
		"/api/v1/users/ghost/preferences",
		"/api/v1/users/ghost/orders",
		"/api/v1/users/ghost/recommendations",
	} {
		if rec, _ := s.do(t, http.MethodGet, path, nil); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
	}

	if rec, _ := s.do(t, http.MethodPost, "/api/v1/users/"+user.ID+"/preferences/rebuild", nil); rec.Code != http.StatusOK {
		t.Errorf("rebuild status = %d", rec.Code)
	}
}

func TestItemEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")

	rec, env := s.do(t, http.MethodGet, "/api/v1/items", nil)
	var items []models.Item
	decodeData(t, env, &items)
	if rec.Code != http.StatusOK || len(items) != 3 {
		t.Fatalf("list items = %d, %d items", rec.Code, len(items))
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/items", models.CreateItemRequest{
		Name: "Veggie Wrap", Type: "Wrap", Category: "Vegetarian", Price: 5.5,
		Ingredients: []string{"Hummus", "Lettuce"},
	})
	var created models.Item
	decodeData(t, env, &created)
	if rec.Code != http.StatusCreated || created.ID == "" {
		t.Fatalf("create item = %d %+v", rec.Code, created)
	}

	if rec, _ := s.do(t, http.MethodPost, "/api/v1/items", models.CreateItemRequest{Name: "x"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid item status = %d", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/items/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing item status = %d", rec.Code)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/items/marg/reviews",
		models.CreateReviewRequest{UserID: user.ID, Rating: 4, Comment: "good"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create review status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec, _ := s.do(t, http.MethodPost, "/api/v1/items/marg/reviews",
		models.CreateReviewRequest{UserID: "ghost", Rating: 4}); rec.Code != http.StatusNotFound {
		t.Errorf("review by unknown user status = %d", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodPost, "/api/v1/items/marg/reviews",
		models.CreateReviewRequest{UserID: user.ID, Rating: 6}); rec.Code != http.StatusBadRequest {
		t.Errorf("out of range rating status = %d", rec.Code)
	}
	if rec, _ := s.do(t, http.MethodPost, "/api/v1/items/nope/reviews",
		models.CreateReviewRequest{UserID: user.ID, Rating: 3}); rec.Code != http.StatusNotFound {
		t.Errorf("review of unknown item status = %d", rec.Code)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/items/marg/reviews", nil)
	var reviews []models.Review
	decodeData(t, env, &reviews)
	if rec.Code != http.StatusOK || len(reviews) != 1 || reviews[0].Rating != 4 {
		t.Errorf("reviews = %d %+v", rec.Code, reviews)
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/items/marg", nil)
	var marg models.Item
	decodeData(t, env, &marg)
	if rec.Code != http.StatusOK || marg.NumReviews != 1 || marg.Rating != 4 {
		t.Errorf("item after review = %+v", marg)
	}
}

func TestRecommendationEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")

	rec, env := s.do(t, http.MethodGet, "/api/v1/items/marg/similar", nil)
	var similar RecommendationsResponse
	decodeData(t, env, &similar)
	if rec.Code != http.StatusOK || similar.Metadata.Strategy != "similar" {
		t.Fatalf("similar = %d %+v", rec.Code, similar)
	}
	for _, item := range similar.Items {
		if item.ID != "salad" {
			t.Errorf("similar item %+v", item)
		}
	}

	rec, env = s.do(t, http.MethodGet, "/api/v1/recommendations/popular?k=1", nil)
	var popular RecommendationsResponse
	decodeData(t, env, &popular)
	if rec.Code != http.StatusOK || popular.Metadata.Strategy != "top_rated" || len(popular.Items) != 1 {
		t.Errorf("popular = %d %+v", rec.Code, popular)
	}

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"empty history", "/api/v1/users/" + user.ID + "/recommendations", http.StatusOK},
		{"rating mode", "/api/v1/users/" + user.ID + "/recommendations?mode=rating", http.StatusOK},
		{"similar mode", "/api/v1/users/" + user.ID + "/recommendations?mode=similar&item_id=burger", http.StatusOK},
		{"similar without item", "/api/v1/users/" + user.ID + "/recommendations?mode=similar", http.StatusBadRequest},
		{"unknown mode", "/api/v1/users/" + user.ID + "/recommendations?mode=magic", http.StatusBadRequest},
		{"negative k", "/api/v1/recommendations/popular?k=-1", http.StatusBadRequest},
		{"non-numeric k", "/api/v1/recommendations/popular?k=ten", http.StatusBadRequest},
		{"similar to unknown item", "/api/v1/items/nope/similar", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec, _ := s.do(t, http.MethodGet, tt.path, nil); rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/nowhere", nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != models.ErrCodeNotFound {
		t.Errorf("unknown route = %d %+v", rec.Code, env.Error)
	}

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/items", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method = %d", rec.Code)
	}

	rec, _ = s.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("go_goroutines")) {
		t.Errorf("metrics = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	out := httptest.NewRecorder()
	s.router.ServeHTTP(out, req)
	if got := out.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if got := out.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")
	body, err := json.Marshal(orderBody(user.ID, models.OrderLineRequest{ItemID: "marg", Quantity: 1}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	post := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}
	orderID := func(rec *httptest.ResponseRecorder) string {
		var env envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		var order models.Order
		decodeData(t, env, &order)
		return order.ID
	}

	first := post("key-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, body %s", first.Code, first.Body.String())
	}
	replay := post("key-1")
	if replay.Code != http.StatusOK || replay.Header().Get(IdempotentReplayHeader) != "true" {
		t.Fatalf("replay = %d, header %q", replay.Code, replay.Header().Get(IdempotentReplayHeader))
	}
	if orderID(first) != orderID(replay) {
		t.Error("replay returned a different order")
	}

	if rec := post("key-2"); rec.Code != http.StatusCreated || orderID(rec) == orderID(first) {
		t.Errorf("new key = %d", rec.Code)
	}
	if rec := post(""); rec.Code != http.StatusCreated {
		t.Errorf("no key = %d", rec.Code)
	}
	if rec := post(strings.Repeat("k", maxIdempotencyKeyLen+1)); rec.Code != http.StatusBadRequest {
		t.Errorf("long key = %d", rec.Code)
	}

	list, err := s.db.ListOrdersByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListOrdersByUser() error = %v", err)
	}
	if len(list) != 3 {
		t.Errorf("orders placed = %d, want 3", len(list))
	}

	// Preferences counted the replayed order once.
	prefs, err := s.db.Preferences().Load(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, _ := prefs.Types.Get("Pizza"); got != 3 {
		t.Errorf("Types[Pizza] = %v, want 3", got)
	}
}

func TestCreateOrder_IdempotencyKeyConcurrent(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")
	body, err := json.Marshal(orderBody(user.ID, models.OrderLineRequest{ItemID: "salad", Quantity: 1}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	const callers = 8
	recs := make([]*httptest.ResponseRecorder, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(IdempotencyKeyHeader, "same-key")
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			recs[i] = rec
		}(i)
	}
	wg.Wait()

	created, replayed := 0, 0
	ids := make(map[string]struct{})
	for _, rec := range recs {
		switch rec.Code {
		case http.StatusCreated:
			created++
			if rec.Header().Get(IdempotentReplayHeader) != "" {
				t.Error("first placement marked as replay")
			}
		case http.StatusOK:
			replayed++
			if rec.Header().Get(IdempotentReplayHeader) != "true" {
				t.Error("repeated request answered without replay header")
			}
		default:
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var env envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		var order models.Order
		decodeData(t, env, &order)
		ids[order.ID] = struct{}{}
	}
	if created != 1 || replayed != callers-1 {
		t.Errorf("created = %d, replayed = %d, want 1 and %d", created, replayed, callers-1)
	}
	if len(ids) != 1 {
		t.Errorf("responses named %d different orders, want 1", len(ids))
	}

	list, err := s.db.ListOrdersByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListOrdersByUser() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("orders placed = %d, want 1", len(list))
	}
}

func TestCreateOrder_IdempotencyKeyAfterCacheExpiry(t *testing.T) {
	s := newTestServer(t)
	user := s.register(t, "ada@example.com")
	body, err := json.Marshal(orderBody(user.ID, models.OrderLineRequest{ItemID: "marg", Quantity: 1}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	if rec := post(); rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, body %s", rec.Code, rec.Body.String())
	}
	s.handler.placedOrders.Remove(user.ID + "\x00key-1")

	rec := post()
	if rec.Code != http.StatusOK || rec.Header().Get(IdempotentReplayHeader) != "true" {
		t.Fatalf("repeat = %d, header %q, body %s", rec.Code, rec.Header().Get(IdempotentReplayHeader), rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var order models.Order
	decodeData(t, env, &order)
	if want := orders.OrderIDForKey(user.ID, "key-1"); order.ID != want {
		t.Errorf("order ID = %q, want %q", order.ID, want)
	}

	prefs, err := s.db.Preferences().Load(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, _ := prefs.Types.Get("Pizza"); got != 1 {
		t.Errorf("Types[Pizza] = %v, want 1", got)
	}
}
