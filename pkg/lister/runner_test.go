package lister

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sealister/params"
	sigcrypto "sealister/pkg/crypto"
	"sealister/pkg/opensea"
)

const testCollectionHex = "0x1A92f7381B9F03921564a437210bB9396471050C"

// fakeClock removes real sleeps from the inter-submission delay and pins
// order start times.
type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }
func (c fakeClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// marketplace is a scripted stand-in for the listing API. Holdings are
// configured per wallet address; listing responses are consumed in order.
type marketplace struct {
	mu              sync.Mutex
	holdings        map[string][]opensea.NFT
	holdingsStatus  map[string]int
	listingStatuses []int
	listingCalls    int
	holdingsCalls   int
}

func (m *marketplace) server(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/v2/chain/{chain}/account/{address}/nfts", func(w http.ResponseWriter, req *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.holdingsCalls++

		address := mux.Vars(req)["address"]
		if status, ok := m.holdingsStatus[address]; ok {
			http.Error(w, `{"message": "holdings unavailable"}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"nfts": m.holdings[address]})
	}).Methods("GET")

	r.HandleFunc("/api/v2/orders/{chain}/seaport/listings", func(w http.ResponseWriter, req *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		status := http.StatusCreated
		if m.listingCalls < len(m.listingStatuses) {
			status = m.listingStatuses[m.listingCalls]
		}
		m.listingCalls++
		if status >= 300 {
			http.Error(w, `{"message": "simulated rejection"}`, status)
			return
		}
		w.WriteHeader(status)
	}).Methods("POST")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func testWallet(t *testing.T) (address, key string) {
	t.Helper()
	signer, err := sigcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	return signer.Address().Hex(), signer.PrivateKeyHex()
}

func testRunner(t *testing.T, m *marketplace, wallets ...[2]string) *Runner {
	t.Helper()
	srv := m.server(t)

	cfg := params.Default()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	cfg.RPCURL = "https://unused.example.org"
	cfg.Collection = testCollectionHex
	cfg.PriceETH = "0.05"
	cfg.Delay = 50 * time.Millisecond
	for _, w := range wallets {
		cfg.WalletAddresses = append(cfg.WalletAddresses, w[0])
		cfg.WalletKeys = append(cfg.WalletKeys, w[1])
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	client, err := opensea.NewClient(srv.URL, cfg.APIKey)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	r := New(&cfg, client, big.NewInt(50_000_000_000_000_000), zap.NewNop().Sugar())
	r.clock = fakeClock{now: time.Unix(1_760_000_000, 0)}
	r.counterFn = func(context.Context, string, common.Address) (*big.Int, error) {
		return big.NewInt(0), nil
	}
	return r
}

func nft(contract, id string) opensea.NFT {
	return opensea.NFT{Contract: contract, Identifier: id, Name: "Token #" + id}
}

func TestRun_NoMatchingTokens(t *testing.T) {
	addr, key := testWallet(t)
	m := &marketplace{
		holdings: map[string][]opensea.NFT{
			addr: {nft("0xffff000000000000000000000000000000000000", "1")},
		},
	}
	r := testRunner(t, m, [2]string{addr, key})

	summary := r.Run(context.Background())
	if summary.Listed != 0 || summary.Failed != 0 || summary.SkippedWallets != 0 {
		t.Errorf("summary = %+v, want all zero outcomes", summary)
	}
	if m.listingCalls != 0 {
		t.Errorf("made %d submission calls, want 0", m.listingCalls)
	}
}

func TestRun_PartialFailureContinues(t *testing.T) {
	addr1, key1 := testWallet(t)
	addr2, key2 := testWallet(t)
	m := &marketplace{
		holdings: map[string][]opensea.NFT{
			addr1: {
				nft(testCollectionHex, "1"),
				nft(testCollectionHex, "2"),
			},
			addr2: {},
		},
		listingStatuses: []int{http.StatusCreated, http.StatusInternalServerError},
	}
	r := testRunner(t, m, [2]string{addr1, key1}, [2]string{addr2, key2})

	summary := r.Run(context.Background())
	if summary.Listed != 1 {
		t.Errorf("listed = %d, want 1", summary.Listed)
	}
	if summary.Failed != 1 {
		t.Errorf("failed = %d, want 1", summary.Failed)
	}
	if summary.SkippedWallets != 0 {
		t.Errorf("skipped wallets = %d, want 0", summary.SkippedWallets)
	}
	// The second wallet is still processed after the failed submission.
	if m.holdingsCalls != 2 {
		t.Errorf("holdings calls = %d, want 2", m.holdingsCalls)
	}
}

func TestRun_HoldingsFailureSkipsWallet(t *testing.T) {
	addr1, key1 := testWallet(t)
	addr2, key2 := testWallet(t)
	m := &marketplace{
		holdings: map[string][]opensea.NFT{
			addr2: {nft(testCollectionHex, "5")},
		},
		holdingsStatus: map[string]int{addr1: http.StatusBadGateway},
	}
	r := testRunner(t, m, [2]string{addr1, key1}, [2]string{addr2, key2})

	summary := r.Run(context.Background())
	if summary.SkippedWallets != 1 {
		t.Errorf("skipped wallets = %d, want 1", summary.SkippedWallets)
	}
	if summary.Listed != 1 {
		t.Errorf("listed = %d, want 1 (second wallet must still run)", summary.Listed)
	}
}

func TestRun_CounterFailureSkipsWallet(t *testing.T) {
	addr, key := testWallet(t)
	m := &marketplace{
		holdings: map[string][]opensea.NFT{
			addr: {nft(testCollectionHex, "1")},
		},
	}
	r := testRunner(t, m, [2]string{addr, key})
	r.counterFn = func(context.Context, string, common.Address) (*big.Int, error) {
		return nil, fmt.Errorf("rpc unreachable")
	}

	summary := r.Run(context.Background())
	if summary.SkippedWallets != 1 {
		t.Errorf("skipped wallets = %d, want 1", summary.SkippedWallets)
	}
	if m.listingCalls != 0 {
		t.Errorf("made %d submission calls, want 0", m.listingCalls)
	}
}

func TestRun_BadKeySkipsWallet(t *testing.T) {
	addr, _ := testWallet(t)
	m := &marketplace{holdings: map[string][]opensea.NFT{}}
	r := testRunner(t, m, [2]string{addr, "not-a-private-key"})

	summary := r.Run(context.Background())
	if summary.SkippedWallets != 1 {
		t.Errorf("skipped wallets = %d, want 1", summary.SkippedWallets)
	}
	if m.holdingsCalls != 0 {
		t.Errorf("holdings queried %d times for an unusable wallet", m.holdingsCalls)
	}
}

func TestFilterCollection_CaseInsensitive(t *testing.T) {
	target := common.HexToAddress(testCollectionHex)
	nfts := []opensea.NFT{
		nft("0x1a92f7381b9f03921564a437210bb9396471050c", "1"), // lower
		nft("0x1A92F7381B9F03921564A437210BB9396471050C", "2"), // upper
		nft("0xffff000000000000000000000000000000000000", "3"), // other collection
		nft("not-an-address", "4"),                             // quarantined
	}

	got := filterCollection(nfts, target)
	if len(got) != 2 {
		t.Fatalf("filtered %d tokens, want 2: %+v", len(got), got)
	}
	if got[0].Identifier != "1" || got[1].Identifier != "2" {
		t.Errorf("wrong tokens selected: %+v", got)
	}
}
