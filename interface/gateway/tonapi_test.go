package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sender/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo"
)

func testAccountId() tongo.AccountID {
	var bits tongo.Bits256
	bits[31] = 1
	return *tongo.NewAccountId(0, bits)
}

func testServer(t *testing.T, handlers map[string]http.HandlerFunc) *TonAPIClient {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewTonAPIClient(server.URL)
}

func TestGetAccount(t *testing.T) {
	id := testAccountId()
	client := testServer(t, map[string]http.HandlerFunc{
		"/v2/accounts/" + id.ToRaw(): func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"balance": 1500000000, "status": "active"}`))
		},
	})

	snapshot, err := client.GetAccount(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, int64(1_500_000_000), snapshot.Balance.WeiAmount().Int64())
	assert.True(t, snapshot.IsActive())
}

func TestGetAccountNotFound(t *testing.T) {
	client := testServer(t, nil) // every path responds 404

	snapshot, err := client.GetAccount(context.Background(), testAccountId())
	require.NoError(t, err, "an unknown account is a valid nonexistent one")

	assert.Equal(t, domain.AccountStatusNonexist, snapshot.Status)
	assert.Equal(t, int64(0), snapshot.Balance.WeiAmount().Int64())
	assert.False(t, snapshot.IsActive())
}

func TestGetSeqno(t *testing.T) {
	id := testAccountId()
	client := testServer(t, map[string]http.HandlerFunc{
		"/v2/wallet/" + id.ToRaw() + "/seqno": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"seqno": 17}`))
		},
	})

	seqno, err := client.GetSeqno(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, uint32(17), seqno)
}

func TestGetSeqnoOfUndeployedWallet(t *testing.T) {
	client := testServer(t, nil)

	seqno, err := client.GetSeqno(context.Background(), testAccountId())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), seqno)
}

func TestGetJettonBalance(t *testing.T) {
	owner := testAccountId()
	var masterBits tongo.Bits256
	masterBits[31] = 2
	master := *tongo.NewAccountId(0, masterBits)
	var walletBits tongo.Bits256
	walletBits[31] = 3
	jettonWallet := *tongo.NewAccountId(0, walletBits)

	client := testServer(t, map[string]http.HandlerFunc{
		"/v2/accounts/" + owner.ToRaw() + "/jettons/" + master.ToRaw(): func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"balance": "123456789123456789123", "wallet_address": {"address": "` + jettonWallet.ToRaw() + `"}}`))
		},
	})

	balance, wallet, err := client.GetJettonBalance(context.Background(), owner, master)
	require.NoError(t, err)

	// Token balances exceed int64; the exact integer must survive.
	assert.Equal(t, "123456789123456789123", balance.String())
	assert.Equal(t, jettonWallet, wallet)
}

func TestGetServiceTime(t *testing.T) {
	client := testServer(t, map[string]http.HandlerFunc{
		"/v2/liteserver/get_time": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"time": 1700000000}`))
		},
	})

	serviceTime, err := client.GetServiceTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), serviceTime)
}

func TestEmulateMessage(t *testing.T) {
	client := testServer(t, map[string]http.HandlerFunc{
		"/v2/wallet/emulate": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"event": {"extra": -7000000, "actions": []}}`))
		},
	})

	estimate, err := client.EmulateMessage(context.Background(), "te6cc")
	require.NoError(t, err)

	assert.Equal(t, int64(-7_000_000), estimate.Extra)
	assert.Equal(t, int64(7_000_000), estimate.Fee.WeiAmount().Int64())
	assert.NotEmpty(t, estimate.Event)
}

func TestSendMessage(t *testing.T) {
	var receivedBody string
	client := testServer(t, map[string]http.HandlerFunc{
		"/v2/blockchain/message": func(w http.ResponseWriter, r *http.Request) {
			buf := make([]byte, r.ContentLength)
			r.Body.Read(buf)
			receivedBody = string(buf)
		},
	})

	err := client.SendMessage(context.Background(), "te6cc")
	require.NoError(t, err)
	assert.Contains(t, receivedBody, `"boc":"te6cc"`)
}

func TestSendMessageRejection(t *testing.T) {
	client := testServer(t, map[string]http.HandlerFunc{
		"/v2/blockchain/message": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "exitcode 33"}`, http.StatusInternalServerError)
		},
	})

	err := client.SendMessage(context.Background(), "te6cc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exitcode 33")
}
