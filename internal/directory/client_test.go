package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	xerrors "Monad-MCP/internal/errors"
)

func TestGetTokenDecodesDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/token/0xabc" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"address": "0xabc",
			"categories": ["verified", "stable"],
			"decimals": 6,
			"name": "USD Coin",
			"symbol": "USDC"
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	token, err := client.GetToken(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token.Symbol != "USDC" || token.Name != "USD Coin" {
		t.Fatalf("unexpected token: %+v", token)
	}
	if token.Decimals != "6" {
		t.Fatalf("expected decimals 6, got %q", token.Decimals)
	}
	if len(token.Categories) != 2 || token.Categories[0] != "verified" {
		t.Fatalf("unexpected categories: %v", token.Categories)
	}
}

func TestNumericAcceptsNumberAndString(t *testing.T) {
	var result TokenResult
	payload := `{"address":"0x1","symbol":"WETH","decimals":"18","balance":"1.25","id":"weth"}`
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Decimals != "18" {
		t.Fatalf("expected string decimals preserved, got %q", result.Decimals)
	}
	if result.Balance != "1.25" {
		t.Fatalf("expected balance 1.25, got %q", result.Balance)
	}

	// Re-serialization keeps the value as a string rather than coercing.
	out, err := json.Marshal(result.Balance)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"1.25"` {
		t.Fatalf("expected quoted balance, got %s", out)
	}
}

func TestGetTokenSurfacesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"token does not exist"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetToken(context.Background(), "0xmissing")
	if err == nil {
		t.Fatal("expected error")
	}
	if xerrors.CodeOf(err) != xerrors.CodeUpstreamFailure {
		t.Fatalf("expected upstream failure, got %s", xerrors.CodeOf(err))
	}
	if !strings.Contains(err.Error(), "token does not exist") {
		t.Fatalf("expected upstream message surfaced, got %q", err.Error())
	}
}

func TestGetTokensPassesFilterVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("find") != "usd" || q.Get("offset") != "40" || q.Get("limit") != "20" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"address":"0x1","symbol":"USDC"}]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	results, err := client.GetTokens(context.Background(), TokenFilter{Find: "usd", Offset: "40", Limit: "20"})
	if err != nil {
		t.Fatalf("get tokens: %v", err)
	}
	if len(results) != 1 || results[0].Symbol != "USDC" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

// The wallet category needs an address to be meaningful, but that is the
// caller's precondition: the client forwards the request as-is and does
// not fail on its own.
func TestGetTokensByCategoryWalletWithoutAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens/category/wallet" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Has("address") {
			t.Fatalf("expected no address parameter, got %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	results, err := client.GetTokensByCategory(context.Background(), CategoryWallet, CategoryFilter{})
	if err != nil {
		t.Fatalf("expected no client-side error, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestGetTokenCountAcceptsBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare":    `1234`,
		"wrapped": `{"count":1234}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/tokens/count" {
					t.Fatalf("unexpected path: %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, srv.Client())
			if err != nil {
				t.Fatalf("new client: %v", err)
			}

			count, err := client.GetTokenCount(context.Background())
			if err != nil {
				t.Fatalf("get token count: %v", err)
			}
			if count != 1234 {
				t.Fatalf("expected 1234, got %d", count)
			}
		})
	}
}

func TestGetWalletBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/wallet/0xholder/balances" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"address":"0x0000000000000000000000000000000000000000","symbol":"MON","decimals":18,"balance":"5.5"},
			{"address":"0x1","symbol":"USDC","decimals":"6","balance":"100"}
		]`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	balances, err := client.GetWalletBalances(context.Background(), "0xholder")
	if err != nil {
		t.Fatalf("get wallet balances: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	if balances[0].Balance != "5.5" || balances[1].Decimals != "6" {
		t.Fatalf("unexpected balances: %+v", balances)
	}
}

func TestGetTokenMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GetToken(context.Background(), "0xabc")
	if err == nil {
		t.Fatal("expected error")
	}
	if xerrors.CodeOf(err) != xerrors.CodeUpstreamFailure {
		t.Fatalf("expected upstream failure, got %s", xerrors.CodeOf(err))
	}
}
