package httpapi

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recharge-backend/internal/config"
	"github.com/tbourn/go-recharge-backend/internal/domain"
	"github.com/tbourn/go-recharge-backend/internal/events"
	"github.com/tbourn/go-recharge-backend/internal/repo"
	"github.com/tbourn/go-recharge-backend/internal/services"
)

const testMerchant = "shop@okaxis"

// recordingPublisher collects published events.
type recordingPublisher struct{ got []events.Event }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.got = append(p.got, e)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite("file:router_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db = db.Session(&gorm.Session{Logger: logger.Default.LogMode(logger.Silent)})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if _, err := repo.SeedCatalog(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api",
		RateRPS:     1000,
		RateBurst:   1000,
		Payments:    config.PaymentsConfig{MerchantUPIID: testMerchant, WebhookSecret: "whsec"},
		OTEL:        config.OTELConfig{ServiceName: "recharge-test"},
	}
}

func newRouter(t *testing.T, cfg config.Config, pub events.Publisher) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newSeededDB(t)
	r := gin.New()
	RegisterRoutes(r, db, cfg, pub)
	return r, db
}

func call(r http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", v, err, w.Body.String())
	}
	return v
}

type errBody struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Errors    []struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	} `json:"errors"`
}

func TestRouter_HealthMetricsFallbacksAndCORS(t *testing.T) {
	r, _ := newRouter(t, testConfig(), nil)

	w := call(r, http.MethodGet, "/health", "", "Origin", "https://shop.example")
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("health: code=%d acao=%q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing standard headers: %#v", w.Header())
	}

	w = call(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "recharge_payments_created_total") {
		t.Fatalf("metrics: code=%d", w.Code)
	}

	w = call(r, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound || decode[errBody](t, w).Code != "not_found" {
		t.Fatalf("NoRoute: %d %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodDelete, "/api/operators", "")
	if w.Code != http.StatusMethodNotAllowed || decode[errBody](t, w).Code != "method_not_allowed" {
		t.Fatalf("NoMethod: %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_CORSAllowlist(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"https://shop.example"}
	r, _ := newRouter(t, cfg, nil)

	w := call(r, http.MethodGet, "/api/operators", "", "Origin", "https://shop.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Fatalf("allowed origin not echoed: %q", got)
	}
	w = call(r, http.MethodGet, "/api/operators", "", "Origin", "https://evil.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestRouter_Catalog(t *testing.T) {
	r, _ := newRouter(t, testConfig(), nil)

	w := call(r, http.MethodGet, "/api/operators", "")
	ops := decode[[]domain.Operator](t, w)
	if w.Code != http.StatusOK || len(ops) != 4 || ops[0].Code != "jio" || ops[3].Code != "bsnl" {
		t.Fatalf("operators: %d %+v", w.Code, ops)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	if w = call(r, http.MethodGet, "/api/operators", "", "If-None-Match", etag); w.Code != http.StatusNotModified {
		t.Fatalf("conditional GET: %d", w.Code)
	}

	w = call(r, http.MethodGet, "/api/operators/airtel", "")
	if op := decode[domain.Operator](t, w); w.Code != http.StatusOK || op.Name != "Airtel" {
		t.Fatalf("operator by code: %d %+v", w.Code, op)
	}
	if w = call(r, http.MethodGet, "/api/operators/nokia", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown operator code: %d", w.Code)
	}

	w = call(r, http.MethodGet, "/api/plans", "")
	plans := decode[[]domain.RechargePlan](t, w)
	if len(plans) != 20 {
		t.Fatalf("plans: %d", len(plans))
	}
	for _, p := range plans {
		if p.DiscountedPrice <= 0 || p.DiscountedPrice > p.OriginalPrice {
			t.Fatalf("price invariant broken: %+v", p)
		}
	}

	w = call(r, http.MethodGet, "/api/plans/1", "")
	if p := decode[domain.RechargePlan](t, w); p.OperatorID != 1 || p.OriginalPrice != 999 || p.DiscountedPrice != 170 {
		t.Fatalf("plan 1: %+v", p)
	}
	if w = call(r, http.MethodGet, "/api/plans/999", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown plan: %d", w.Code)
	}

	w = call(r, http.MethodGet, "/api/plans/operator/2", "")
	byOp := decode[[]domain.RechargePlan](t, w)
	if len(byOp) != 5 {
		t.Fatalf("plans by operator: %d", len(byOp))
	}
	for _, p := range byOp {
		if p.OperatorID != 2 || !p.IsActive {
			t.Fatalf("foreign or inactive plan: %+v", p)
		}
	}
	if w = call(r, http.MethodGet, "/api/plans/operator/abc", ""); w.Code != http.StatusBadRequest || decode[errBody](t, w).Code != "invalid_id" {
		t.Fatalf("bad operator id: %d %s", w.Code, w.Body.String())
	}
	if w = call(r, http.MethodGet, "/api/plans/operator/77", ""); w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("unknown operator plans: %d %s", w.Code, w.Body.String())
	}
}

func TestRouter_PaymentRoundTrip(t *testing.T) {
	pub := &recordingPublisher{}
	r, db := newRouter(t, testConfig(), pub)

	w := call(r, http.MethodPost, "/api/payments",
		`{"planId":1,"amount":170,"mobileNumber":"9876543210","transactionId":"TXN123","upiId":"attacker@ybl"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	created := decode[domain.Payment](t, w)
	if created.Status != domain.PaymentPending || created.UpiID != testMerchant || created.CompletedAt != nil {
		t.Fatalf("created: %+v", created)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("payment responses must not be cached")
	}

	w = call(r, http.MethodGet, "/api/payments/TXN123", "")
	if got := decode[domain.Payment](t, w); got.ID != created.ID || got.Status != domain.PaymentPending {
		t.Fatalf("get: %+v", got)
	}

	w = call(r, http.MethodPost, "/api/payments/TXN123/upi-link", "")
	link := decode[services.UPILink](t, w)
	want := "upi://pay?pa=" + testMerchant + "&pn=Mobile%20Recharge&am=170.00&cu=INR" +
		"&tn=JIO%20Recharge%20-%20Popular%20Plan%20-%20%E2%82%B9170&tr=TXN123"
	if link.UpiLink != want || link.Amount != 170 || link.Operator != "Jio" {
		t.Fatalf("link: %+v", link)
	}
	for _, part := range []string{"pa=" + testMerchant, "am=170.00", "cu=INR", "tr=TXN123"} {
		if strings.Count(link.UpiLink, part) != 1 {
			t.Fatalf("%q must appear exactly once in %s", part, link.UpiLink)
		}
	}

	w = call(r, http.MethodPatch, "/api/payments/TXN123/status", `{"status":"success"}`)
	updated := decode[domain.Payment](t, w)
	if w.Code != http.StatusOK || updated.Status != domain.PaymentSuccess || updated.CompletedAt == nil {
		t.Fatalf("update: %d %+v", w.Code, updated)
	}

	stored, err := repo.GetPaymentByTransactionID(context.Background(), db, "TXN123")
	if err != nil || stored.Status != domain.PaymentSuccess {
		t.Fatalf("stored: %+v %v", stored, err)
	}

	if len(pub.got) != 2 || pub.got[0].Type != events.TypePaymentCreated || pub.got[1].Status != "success" {
		t.Fatalf("events: %+v", pub.got)
	}
}

func TestRouter_PaymentRejections(t *testing.T) {
	r, db := newRouter(t, testConfig(), nil)
	count := func() int64 {
		var n int64
		db.Model(&domain.Payment{}).Count(&n)
		return n
	}

	w := call(r, http.MethodPost, "/api/payments", `{"planId":1,"amount":999,"transactionId":"TXN1"}`)
	if w.Code != http.StatusBadRequest || decode[errBody](t, w).Code != "amount_mismatch" {
		t.Fatalf("mismatch: %d %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodPost, "/api/payments", `{"planId":4242,"amount":170,"transactionId":"TXN2"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown plan: %d %s", w.Code, w.Body.String())
	}

	w = call(r, http.MethodPost, "/api/payments", `{"planId":"one","amount":170}`)
	eb := decode[errBody](t, w)
	if w.Code != http.StatusBadRequest || eb.Code != "validation_failed" || eb.Message != "invalid payment data" || len(eb.Errors) == 0 {
		t.Fatalf("schema: %d %+v", w.Code, eb)
	}

	if n := count(); n != 0 {
		t.Fatalf("rejected creates stored %d rows", n)
	}

	if w = call(r, http.MethodPost, "/api/payments", `{"planId":1,"amount":170,"transactionId":"TXN3"}`); w.Code != http.StatusOK {
		t.Fatalf("create: %d", w.Code)
	}
	if w = call(r, http.MethodPost, "/api/payments", `{"planId":1,"amount":170,"transactionId":"TXN3"}`); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: %d", w.Code)
	}

	w = call(r, http.MethodPatch, "/api/payments/TXN3/status", `{"status":"cancelled"}`)
	if w.Code != http.StatusBadRequest || decode[errBody](t, w).Code != "invalid_status" {
		t.Fatalf("cancelled: %d %s", w.Code, w.Body.String())
	}
	stored, _ := repo.GetPaymentByTransactionID(context.Background(), db, "TXN3")
	if stored.Status != domain.PaymentPending || stored.CompletedAt != nil {
		t.Fatalf("invalid status mutated the payment: %+v", stored)
	}

	for _, path := range []string{"/api/payments/NOPE", "/api/payments/NOPE/status", "/api/payments/NOPE/upi-link"} {
		method := map[string]string{
			"/api/payments/NOPE":          http.MethodGet,
			"/api/payments/NOPE/status":   http.MethodPatch,
			"/api/payments/NOPE/upi-link": http.MethodPost,
		}[path]
		body := ""
		if method == http.MethodPatch {
			body = `{"status":"failed"}`
		}
		if w = call(r, method, path, body); w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: %d", method, path, w.Code)
		}
	}
}

func TestRouter_Webhook(t *testing.T) {
	r, _ := newRouter(t, testConfig(), nil)
	if w := call(r, http.MethodPost, "/api/payments", `{"planId":6,"amount":`+strconv.Itoa(repo.DiscountedPrice(1199))+`,"transactionId":"TXNW"}`); w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	body := `{"transactionId":"TXNW","status":"failed"}`
	sig := hex.EncodeToString(services.Sign([]byte("whsec"), []byte(body)))

	if w := call(r, http.MethodPost, "/api/webhooks/upi", body, "X-Webhook-Signature", "deadbeef"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature: %d", w.Code)
	}
	w := call(r, http.MethodPost, "/api/webhooks/upi", body, "X-Webhook-Signature", sig)
	if p := decode[domain.Payment](t, w); w.Code != http.StatusOK || p.Status != domain.PaymentFailed || p.CompletedAt != nil {
		t.Fatalf("settle: %d %+v", w.Code, p)
	}

	cfg := testConfig()
	cfg.Payments.WebhookSecret = ""
	r2, _ := newRouter(t, cfg, nil)
	if w := call(r2, http.MethodPost, "/api/webhooks/upi", body, "X-Webhook-Signature", sig); w.Code != http.StatusNotFound {
		t.Fatalf("webhook should be unmounted without a secret: %d", w.Code)
	}
}

func TestRouter_RateLimitExemptsHealth(t *testing.T) {
	cfg := testConfig()
	cfg.RateRPS, cfg.RateBurst = 0.001, 1
	r, _ := newRouter(t, cfg, nil)

	if w := call(r, http.MethodGet, "/api/operators", ""); w.Code != http.StatusOK {
		t.Fatalf("first: %d", w.Code)
	}
	w := call(r, http.MethodGet, "/api/operators", "")
	if w.Code != http.StatusTooManyRequests || decode[errBody](t, w).Code != "too_many_requests" {
		t.Fatalf("second: %d %s", w.Code, w.Body.String())
	}
	if w := call(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health limited: %d", w.Code)
	}
}
