package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/latticeforge/pinball/internal/predecoder"
)

func newTestEcho() *echo.Echo {
	provider := NewCachedDecoderProvider(2)
	service := NewDecodeService(provider)
	server := NewServer(service)
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	e := newTestEcho()
	rec := doJSON(t, e, http.MethodGet, "/v1/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestDecodeBatchAllZeroRounds(t *testing.T) {
	e := newTestEcho()

	rounds := make([][]byte, 3)
	for i := range rounds {
		rounds[i] = make([]byte, 4*1)
	}
	body, err := json.Marshal(DecodeBatchRequest{
		Variant:      predecoder.Pinball,
		CodeDistance: 3,
		Rounds:       rounds,
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, e, http.MethodPost, "/v1/decode/batch", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp DecodeBatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Complex {
		t.Errorf("all-zero rounds should not be complex")
	}
}

func TestDecodeBatchShapeMismatchReturnsBadRequest(t *testing.T) {
	e := newTestEcho()
	body, err := json.Marshal(DecodeBatchRequest{
		Variant:      predecoder.Pinball,
		CodeDistance: 3,
		Rounds:       [][]byte{{0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := doJSON(t, e, http.MethodPost, "/v1/decode/batch", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeRoundSessionLifecycle(t *testing.T) {
	e := newTestEcho()

	first, err := json.Marshal(DecodeRoundRequest{
		Variant:      predecoder.Clique,
		CodeDistance: 3,
		RoundIndex:   0,
		Bits:         make([]byte, 4*1),
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := doJSON(t, e, http.MethodPost, "/v1/decode/round", string(first))
	if rec.Code != http.StatusOK {
		t.Fatalf("round 0 status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp0 DecodeRoundResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp0); err != nil {
		t.Fatalf("decode round 0 response: %v", err)
	}
	if resp0.SessionID == "" {
		t.Fatal("round 0 must open a session")
	}
	if resp0.Result != nil {
		t.Fatal("round 0 of a 3-round block must not complete yet")
	}

	for idx := 1; idx < 3; idx++ {
		body, err := json.Marshal(DecodeRoundRequest{
			SessionID:  resp0.SessionID,
			RoundIndex: idx,
			Bits:       make([]byte, 4*1),
		})
		if err != nil {
			t.Fatal(err)
		}
		rec := doJSON(t, e, http.MethodPost, "/v1/decode/round", string(body))
		if rec.Code != http.StatusOK {
			t.Fatalf("round %d status = %d, body = %s", idx, rec.Code, rec.Body.String())
		}
		var resp DecodeRoundResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode round %d response: %v", idx, err)
		}
		if idx == 2 && resp.Result == nil {
			t.Fatal("final round must return a block result")
		}
	}
}

func TestDecodeRoundUnknownSessionIsBadRequest(t *testing.T) {
	e := newTestEcho()
	body, err := json.Marshal(DecodeRoundRequest{
		SessionID:  "does-not-exist",
		RoundIndex: 1,
		Bits:       make([]byte, 4),
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := doJSON(t, e, http.MethodPost, "/v1/decode/round", string(body))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
	}
}
