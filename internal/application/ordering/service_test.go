package ordering

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/domain/ordering"
	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

type orderStub struct {
	mux *http.ServeMux

	mu     sync.Mutex
	orders map[string]map[string]any

	documentCalls atomic.Int32
	documentDelay time.Duration
}

func newOrderStub() *orderStub {
	stub := &orderStub{
		mux: http.NewServeMux(),
		orders: map[string]map[string]any{
			"o1": {"id": "o1", "order_number": "SF-1001", "status": "processing"},
			"o2": {"id": "o2", "order_number": "SF-1002", "status": "completed"},
			"o3": {"id": "o3", "order_number": "SF-1003", "status": "order_cancel_request",
				"cancellation_reason": "changed my mind"},
		},
	}

	stub.mux.HandleFunc("GET /admin/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		order, ok := stub.orders[r.PathValue("id")]
		stub.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "code": "ORDER_NOT_FOUND"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": order})
	})
	stub.mux.HandleFunc("PATCH /admin/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		stub.mu.Lock()
		order := stub.orders[r.PathValue("id")]
		order["status"] = body["status"]
		stub.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": order})
	})
	stub.mux.HandleFunc("POST /admin/orders/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		stub.mu.Lock()
		order := stub.orders[r.PathValue("id")]
		order["status"] = "cancelled"
		order["cancellation_reason"] = body["reason"]
		order["cancellation_request_kind"] = body["kind"]
		stub.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": order})
	})
	stub.mux.HandleFunc("POST /admin/orders/{id}/cancellation", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		stub.mu.Lock()
		order := stub.orders[r.PathValue("id")]
		if body["resolution"] == "approve" {
			order["status"] = "cancelled"
		} else {
			order["status"] = "processing"
		}
		stub.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": order})
	})
	stub.mux.HandleFunc("POST /admin/orders/{id}/notes", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		order := stub.orders[r.PathValue("id")]
		stub.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": order})
	})
	stub.mux.HandleFunc("POST /admin/orders/{id}/documents", func(w http.ResponseWriter, r *http.Request) {
		stub.documentCalls.Add(1)
		if stub.documentDelay > 0 {
			time.Sleep(stub.documentDelay)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"kind": "invoice", "url": "https://cdn.example.com/invoice.pdf"},
		})
	})
	stub.mux.HandleFunc("POST /admin/orders/{id}/emails", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	return stub
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func newTestService(t *testing.T, stub *orderStub) *Service {
	t.Helper()
	server := httptest.NewServer(stub.mux)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&upstream.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return NewService(client, zap.NewNop())
}

func TestService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newOrderStub())

	order, err := svc.ChangeStatus(ctx, "tok", "o1", ordering.StatusShipped, "carrier picked up")
	require.NoError(t, err)
	assert.Equal(t, ordering.StatusShipped, order.Status)
}

func TestService_ChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t, newOrderStub())

	_, err := svc.ChangeStatus(context.Background(), "tok", "o1", ordering.Status("teleported"), "")
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newOrderStub())

	order, err := svc.Cancel(ctx, "tok", "o1", "customer asked", ordering.RequestKindCancellation)
	require.NoError(t, err)
	assert.Equal(t, ordering.StatusCancelled, order.Status)
}

func TestService_CancelRequiresReason(t *testing.T) {
	svc := newTestService(t, newOrderStub())

	_, err := svc.Cancel(context.Background(), "tok", "o1", "   ", ordering.RequestKindCancellation)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "REASON_REQUIRED", domainErr.Code)
}

func TestService_CancelRejectsTerminalOrder(t *testing.T) {
	svc := newTestService(t, newOrderStub())

	_, err := svc.Cancel(context.Background(), "tok", "o2", "too late", ordering.RequestKindCancellation)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ORDER_TERMINAL", domainErr.Code)
}

func TestService_CancelClassifiesLegacyRefundReason(t *testing.T) {
	ctx := context.Background()
	stub := newOrderStub()
	svc := newTestService(t, stub)

	order, err := svc.Cancel(ctx, "tok", "o1", "REFUND: item arrived broken", "")
	require.NoError(t, err)
	assert.Equal(t, ordering.RequestKindRefund, order.CancellationRequestKind)
}

func TestService_ResolveCancellation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newOrderStub())

	refund := decimal.NewFromFloat(19.90)
	order, err := svc.ResolveCancellation(ctx, "tok", "o3", ordering.ResolutionApprove, "approved", &refund)
	require.NoError(t, err)
	assert.Equal(t, ordering.StatusCancelled, order.Status)
}

func TestService_ResolveCancellationRequiresPendingRequest(t *testing.T) {
	svc := newTestService(t, newOrderStub())

	_, err := svc.ResolveCancellation(context.Background(), "tok", "o1", ordering.ResolutionApprove, "", nil)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_PENDING_REQUEST", domainErr.Code)
}

func TestService_ResolveCancellationRejectsNegativeRefund(t *testing.T) {
	svc := newTestService(t, newOrderStub())

	refund := decimal.NewFromInt(-5)
	_, err := svc.ResolveCancellation(context.Background(), "tok", "o3", ordering.ResolutionApprove, "", &refund)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_REFUND_AMOUNT", domainErr.Code)
}

func TestService_GenerateDocumentReturnsDescriptor(t *testing.T) {
	ctx := context.Background()
	stub := newOrderStub()
	svc := newTestService(t, stub)

	doc, order, err := svc.GenerateDocument(ctx, "tok", "o1", ordering.DocumentInvoice)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, ordering.DocumentInvoice, doc.Kind)
	assert.Equal(t, "https://cdn.example.com/invoice.pdf", doc.URL)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, int32(1), stub.documentCalls.Load())
}

func TestService_ConcurrentDocumentActionsAreSerialized(t *testing.T) {
	ctx := context.Background()
	stub := newOrderStub()
	stub.documentDelay = 100 * time.Millisecond
	svc := newTestService(t, stub)

	var busy atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.GenerateDocument(ctx, "tok", "o1", ordering.DocumentInvoice)
			if err != nil {
				assert.ErrorIs(t, err, shared.ErrActionInFlight)
				busy.Add(1)
			}
		}()
	}
	wg.Wait()

	// Exactly one action reached the platform, the rest were rejected
	assert.Equal(t, int32(1), stub.documentCalls.Load())
	assert.Equal(t, int32(3), busy.Load())
}

func TestService_ActionGateIsPerOrder(t *testing.T) {
	ctx := context.Background()
	stub := newOrderStub()
	stub.documentDelay = 50 * time.Millisecond
	svc := newTestService(t, stub)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, orderID := range []string{"o1", "o3"} {
		wg.Add(1)
		go func(i int, orderID string) {
			defer wg.Done()
			_, _, errs[i] = svc.GenerateDocument(ctx, "tok", orderID, ordering.DocumentInvoice)
		}(i, orderID)
	}
	wg.Wait()

	// Different orders do not contend
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
}

func TestService_GateReleasedAfterAction(t *testing.T) {
	ctx := context.Background()
	stub := newOrderStub()
	svc := newTestService(t, stub)

	_, _, err := svc.GenerateDocument(ctx, "tok", "o1", ordering.DocumentInvoice)
	require.NoError(t, err)
	_, err = svc.SendEmail(ctx, "tok", "o1", ordering.EmailShipped)
	require.NoError(t, err)
}

func TestService_SendEmailRejectsUnknownKind(t *testing.T) {
	svc := newTestService(t, newOrderStub())

	_, err := svc.SendEmail(context.Background(), "tok", "o1", ordering.EmailKind("carrier_pigeon"))
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_EMAIL_KIND", domainErr.Code)
}

func TestService_AddNote(t *testing.T) {
	svc := newTestService(t, newOrderStub())

	_, err := svc.AddNote(context.Background(), "tok", "o1", "called the customer")
	assert.NoError(t, err)

	_, err = svc.AddNote(context.Background(), "tok", "o1", "")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOTE_REQUIRED", domainErr.Code)
}
