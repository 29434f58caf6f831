package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sender/domain"
	"strings"

	"github.com/tonkeeper/tongo"
	"github.com/valyala/fasthttp"
)

// TonAPIClient talks to a tonapi v2 gateway over REST. It implements the
// chain reader, time oracle, emulator and broadcaster ports.
type TonAPIClient struct {
	baseUrl string
	client  *fasthttp.Client
}

func NewTonAPIClient(baseUrl string) *TonAPIClient {
	return &TonAPIClient{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		client:  &fasthttp.Client{},
	}
}

func (gateway *TonAPIClient) do(ctx context.Context, method string, path string,
	body interface{}, result interface{}) (int, error) {

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	request := fasthttp.AcquireRequest()
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(request)
	defer fasthttp.ReleaseResponse(response)

	request.SetRequestURI(gateway.baseUrl + path)
	request.Header.SetMethod(method)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		request.Header.SetContentType("application/json")
		request.SetBody(encoded)
	}

	if err := gateway.client.Do(request, response); err != nil {
		return 0, err
	}

	status := response.StatusCode()
	if status >= 300 {
		return status, fmt.Errorf("chain api responded %v on %v: %s", status, path, response.Body())
	}

	if result != nil {
		if err := json.Unmarshal(response.Body(), result); err != nil {
			return status, err
		}
	}
	return status, nil
}

type accountResult struct {
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

// GetAccount reads an account's balance and status. An unknown account is a
// valid nonexistent one, not an error.
func (gateway *TonAPIClient) GetAccount(ctx context.Context, id tongo.AccountID) (domain.AccountSnapshot, error) {
	var result accountResult
	status, err := gateway.do(ctx, fasthttp.MethodGet, "/v2/accounts/"+id.ToRaw(), nil, &result)
	if status == fasthttp.StatusNotFound {
		return domain.AccountSnapshot{
			ID:      id,
			Balance: domain.NewAmountFromInt64(domain.TonAsset, 0),
			Status:  domain.AccountStatusNonexist,
		}, nil
	}
	if err != nil {
		return domain.AccountSnapshot{}, err
	}

	return domain.AccountSnapshot{
		ID:      id,
		Balance: domain.NewAmountFromInt64(domain.TonAsset, result.Balance),
		Status:  result.Status,
	}, nil
}

type seqnoResult struct {
	Seqno uint32 `json:"seqno"`
}

// GetSeqno reads the wallet's next sequence number. An undeployed wallet
// starts at zero.
func (gateway *TonAPIClient) GetSeqno(ctx context.Context, id tongo.AccountID) (uint32, error) {
	var result seqnoResult
	status, err := gateway.do(ctx, fasthttp.MethodGet, "/v2/wallet/"+id.ToRaw()+"/seqno", nil, &result)
	if status == fasthttp.StatusNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return result.Seqno, nil
}

type jettonBalanceResult struct {
	Balance       string `json:"balance"`
	WalletAddress struct {
		Address string `json:"address"`
	} `json:"wallet_address"`
}

// GetJettonBalance reads the owner's balance of the given token and the
// address of the jetton wallet holding it.
func (gateway *TonAPIClient) GetJettonBalance(ctx context.Context, owner tongo.AccountID,
	master tongo.AccountID) (*big.Int, tongo.AccountID, error) {

	var result jettonBalanceResult
	path := "/v2/accounts/" + owner.ToRaw() + "/jettons/" + master.ToRaw()
	status, err := gateway.do(ctx, fasthttp.MethodGet, path, nil, &result)
	if status == fasthttp.StatusNotFound {
		return nil, tongo.AccountID{}, fmt.Errorf("no balance of jetton %v", master.ToRaw())
	}
	if err != nil {
		return nil, tongo.AccountID{}, err
	}

	balance, ok := new(big.Int).SetString(result.Balance, 10)
	if !ok {
		return nil, tongo.AccountID{}, fmt.Errorf("bad jetton balance %q", result.Balance)
	}

	jettonWallet, err := domain.ParseTransferAddress(result.WalletAddress.Address)
	if err != nil {
		return nil, tongo.AccountID{}, err
	}

	return balance, jettonWallet.ID, nil
}

type timeResult struct {
	Time int64 `json:"time"`
}

// GetServiceTime reads the gateway's clock for the skew check.
func (gateway *TonAPIClient) GetServiceTime(ctx context.Context) (int64, error) {
	var result timeResult
	if _, err := gateway.do(ctx, fasthttp.MethodGet, "/v2/liteserver/get_time", nil, &result); err != nil {
		return 0, err
	}
	return result.Time, nil
}

type bocRequest struct {
	Boc string `json:"boc"`
}

type emulateResult struct {
	Event json.RawMessage `json:"event"`
	Trace struct {
		Transaction struct {
			InMsg struct {
				Hash string `json:"hash"`
			} `json:"in_msg"`
		} `json:"transaction"`
	} `json:"trace"`
}

type eventExtra struct {
	Extra int64 `json:"extra"`
}

// EmulateMessage dry-runs an envelope and converts the emulated balance
// change into a projected fee. The extra field carries the wallet's net
// outflow beyond the transferred value, so its negation is the fee.
func (gateway *TonAPIClient) EmulateMessage(ctx context.Context, envelopeBoc string) (domain.FeeEstimate, error) {
	var result emulateResult
	_, err := gateway.do(ctx, fasthttp.MethodPost, "/v2/wallet/emulate", bocRequest{Boc: envelopeBoc}, &result)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	var extra eventExtra
	if err := json.Unmarshal(result.Event, &extra); err != nil {
		return domain.FeeEstimate{}, fmt.Errorf("bad emulation event: %w", err)
	}

	return domain.FeeEstimate{
		Fee:   domain.NewAmountFromInt64(domain.TonAsset, -extra.Extra),
		Extra: extra.Extra,
		Event: result.Event,
	}, nil
}

// SendMessage broadcasts a signed envelope. Rejections surface verbatim;
// resubmitting the same envelope is never safe.
func (gateway *TonAPIClient) SendMessage(ctx context.Context, envelopeBoc string) error {
	_, err := gateway.do(ctx, fasthttp.MethodPost, "/v2/blockchain/message", bocRequest{Boc: envelopeBoc}, nil)
	return err
}
