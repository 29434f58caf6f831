package usecase

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sender/domain"
	"sender/interface/exporter"
	"time"
)

// TransferInteractor implements the user-facing transfer operations: fee
// estimation and execution for plain coin transfers, token transfers and
// requested multi-message transfers.
type TransferInteractor struct {
	accounts  *AccountInteractor
	builder   *BuilderInteractor
	estimator *EstimatorInteractor
	guard     *GuardInteractor
	pipeline  *PipelineInteractor
	reader    ChainReader
	jettonGas *big.Int
}

func NewTransferInteractor(accounts *AccountInteractor,
	builder *BuilderInteractor,
	estimator *EstimatorInteractor,
	guard *GuardInteractor,
	pipeline *PipelineInteractor,
	reader ChainReader,
	jettonGas *big.Int) *TransferInteractor {
	interactor := &TransferInteractor{
		accounts:  accounts,
		builder:   builder,
		estimator: estimator,
		guard:     guard,
		pipeline:  pipeline,
		reader:    reader,
		jettonGas: jettonGas,
	}
	return interactor
}

// TonTransferMessage shapes a single native transfer directive. The value
// passes through as given even for "send max"; mode 128 carries the whole
// remaining balance on-chain regardless. The bounce flag follows the address
// encoding and the destination's resolved status.
func TonTransferMessage(recipient domain.RecipientData, amount domain.Amount, isMax bool) (domain.TransferMessage, error) {
	if !amount.Asset().IsNative() {
		return domain.TransferMessage{}, fmt.Errorf("%w: expected a native amount", domain.ErrorAssetMismatch)
	}
	if !isMax && amount.Sign() <= 0 {
		return domain.TransferMessage{}, fmt.Errorf("%w: amount must be positive", domain.ErrorInvalidAmount)
	}

	message := domain.TransferMessage{
		Dest:   recipient.Address.ID,
		Bounce: BounceToAccount(recipient.Address, recipient.Status),
		Value:  amount.WeiAmount(),
	}
	if recipient.Payload != nil {
		message.Body = recipient.Payload
	} else if recipient.Comment != "" {
		comment, err := CommentBody(recipient.Comment)
		if err != nil {
			return domain.TransferMessage{}, err
		}
		message.Body = comment
	}
	if recipient.Init != nil {
		message.Init = recipient.Init
	}

	return message, nil
}

func transferMode(isMax bool) uint8 {
	if isMax {
		return domain.SendModeCarryAllRemainingBalance
	}
	return domain.SendModePayGasSeparately + domain.SendModeIgnoreErrors
}

// EstimateTonTransfer dry-runs a native transfer and projects its fee.
func (interactor *TransferInteractor) EstimateTonTransfer(ctx context.Context, wallet domain.Wallet,
	recipient domain.RecipientData, amount domain.Amount, isMax bool) (domain.FeeEstimate, error) {

	if err := interactor.estimator.CheckServiceTime(ctx); err != nil {
		return domain.FeeEstimate{}, err
	}

	snapshot, err := interactor.accounts.GetSnapshot(ctx, wallet.AccountID)
	if err != nil {
		return domain.FeeEstimate{}, err
	}
	if !isMax {
		if err := interactor.estimator.AssertPositiveBalance(snapshot); err != nil {
			return domain.FeeEstimate{}, err
		}
	}

	message, err := TonTransferMessage(recipient, amount, isMax)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	envelope, err := interactor.builder.BuildTransfer(wallet, snapshot.Seqno, transferMode(isMax),
		[]domain.TransferMessage{message}, nil)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	estimate, err := interactor.estimator.Estimate(ctx, envelope)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	exporter.IncEstimateCount()
	log.Printf("🔵 estimated transfer [dest: %v, fee: %v]\n",
		recipient.Address.ID.ToRaw(), estimate.Fee)
	return estimate, nil
}

// SendTonTransfer executes a native transfer through the send pipeline and
// returns the broadcast envelope.
func (interactor *TransferInteractor) SendTonTransfer(ctx context.Context, wallet domain.Wallet,
	recipient domain.RecipientData, amount domain.Amount, isMax bool,
	fee domain.FeeEstimate, passphrase string) (string, error) {

	message, err := TonTransferMessage(recipient, amount, isMax)
	if err != nil {
		return "", err
	}

	required, err := amount.Add(fee.Fee)
	if err != nil {
		return "", err
	}

	return interactor.pipeline.Run(ctx, SendRequest{
		Wallet:        wallet,
		Messages:      []domain.TransferMessage{message},
		Mode:          transferMode(isMax),
		IsMax:         isMax,
		Required:      required,
		Passphrase:    passphrase,
		DestAddress:   recipient.Address.ID.ToRaw(),
		DisplayAmount: amount.String(),
	})
}

// connectMessages shapes the directives of a requested transfer. The bounce
// flag of each destination honors its address encoding, except that an
// inactive destination never receives a bounceable message.
func connectMessages(payload domain.ConnectPayload,
	accounts map[string]domain.AccountSnapshot) ([]domain.TransferMessage, *big.Int, error) {

	if len(payload.Messages) == 0 {
		return nil, nil, fmt.Errorf("%w: empty transfer request", domain.ErrorInvalidPayload)
	}

	total := big.NewInt(0)
	messages := make([]domain.TransferMessage, 0, len(payload.Messages))
	for _, request := range payload.Messages {
		target, err := domain.ParseTransferAddress(request.Address)
		if err != nil {
			return nil, nil, err
		}

		value, ok := new(big.Int).SetString(request.Amount, 10)
		if !ok || value.Sign() < 0 {
			return nil, nil, fmt.Errorf("%w: bad amount %q", domain.ErrorInvalidAmount, request.Amount)
		}
		total.Add(total, value)

		message := domain.TransferMessage{
			Dest:   target.ID,
			Bounce: ShouldBounce(accounts, target),
			Value:  value,
		}
		if request.Payload != "" {
			body, err := PayloadFromBase64(request.Payload)
			if err != nil {
				return nil, nil, err
			}
			message.Body = body
		}
		if request.StateInit != "" {
			init, err := StateInitFromBase64(request.StateInit)
			if err != nil {
				return nil, nil, err
			}
			message.Init = init
		}

		messages = append(messages, message)
	}

	return messages, total, nil
}

// EstimateRequestedTransfer dry-runs an externally requested multi-message
// transfer, e.g. one originating from a connected application.
func (interactor *TransferInteractor) EstimateRequestedTransfer(ctx context.Context, wallet domain.Wallet,
	payload domain.ConnectPayload) (domain.FeeEstimate, error) {

	if err := interactor.estimator.CheckServiceTime(ctx); err != nil {
		return domain.FeeEstimate{}, err
	}

	snapshot, err := interactor.accounts.GetSnapshot(ctx, wallet.AccountID)
	if err != nil {
		return domain.FeeEstimate{}, err
	}
	if err := interactor.estimator.AssertPositiveBalance(snapshot); err != nil {
		return domain.FeeEstimate{}, err
	}

	accounts, err := interactor.accounts.GetAccountsMap(ctx, payload)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	messages, _, err := connectMessages(payload, accounts)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	envelope, err := interactor.builder.BuildTransfer(wallet, snapshot.Seqno, transferMode(false), messages, nil)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	estimate, err := interactor.estimator.Estimate(ctx, envelope)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	exporter.IncEstimateCount()
	return estimate, nil
}

// SendRequestedTransfer executes a requested multi-message transfer. The fee
// estimate is optional; without one the balance guard covers the transferred
// values only.
func (interactor *TransferInteractor) SendRequestedTransfer(ctx context.Context, wallet domain.Wallet,
	payload domain.ConnectPayload, fee *domain.FeeEstimate, passphrase string) (string, error) {

	accounts, err := interactor.accounts.GetAccountsMap(ctx, payload)
	if err != nil {
		return "", err
	}

	messages, total, err := connectMessages(payload, accounts)
	if err != nil {
		return "", err
	}

	required := domain.NewAmount(domain.TonAsset, total)
	if fee != nil {
		required, err = required.Add(fee.Fee)
		if err != nil {
			return "", err
		}
	}

	display := ""
	if len(messages) == 1 {
		display = required.String()
	} else {
		display = fmt.Sprintf("%v messages, %v", len(messages), required)
	}

	return interactor.pipeline.Run(ctx, SendRequest{
		Wallet:        wallet,
		Messages:      messages,
		Mode:          transferMode(false),
		Required:      required,
		Passphrase:    passphrase,
		DestAddress:   messages[0].Dest.ToRaw(),
		DisplayAmount: display,
	})
}

// jettonTransferMessage shapes the directive carrying a token transfer: an
// internal message to the sender's own jetton wallet, funded with a fixed
// native gas budget.
func (interactor *TransferInteractor) jettonTransferMessage(wallet domain.Wallet,
	jettonWallet domain.TransferAddress, recipient domain.RecipientData,
	amount domain.Amount) (domain.TransferMessage, error) {

	if amount.Sign() <= 0 {
		return domain.TransferMessage{}, fmt.Errorf("%w: amount must be positive", domain.ErrorInvalidAmount)
	}

	queryId := uint64(time.Now().Unix())
	body, err := JettonTransferBody(queryId, amount.WeiAmount(), recipient.Address.ID,
		wallet.AccountID, recipient.Comment)
	if err != nil {
		return domain.TransferMessage{}, err
	}

	return domain.TransferMessage{
		Dest:   jettonWallet.ID,
		Bounce: true,
		Value:  new(big.Int).Set(interactor.jettonGas),
		Body:   body,
	}, nil
}

// EstimateJettonTransfer dry-runs a token transfer. The projected fee is
// denominated in the native coin.
func (interactor *TransferInteractor) EstimateJettonTransfer(ctx context.Context, wallet domain.Wallet,
	recipient domain.RecipientData, amount domain.Amount) (domain.FeeEstimate, error) {

	if err := interactor.estimator.CheckServiceTime(ctx); err != nil {
		return domain.FeeEstimate{}, err
	}

	snapshot, err := interactor.accounts.GetSnapshot(ctx, wallet.AccountID)
	if err != nil {
		return domain.FeeEstimate{}, err
	}
	if err := interactor.estimator.AssertPositiveBalance(snapshot); err != nil {
		return domain.FeeEstimate{}, err
	}

	// The projected fee is unknown at this point, so the native side is
	// checked against the gas budget alone.
	tokenBalance, jettonWallet, err := interactor.jettonState(ctx, wallet, amount.Asset())
	if err != nil {
		return domain.FeeEstimate{}, err
	}
	gas := domain.NewAmount(domain.TonAsset, interactor.jettonGas)
	if err := interactor.guard.AssertJettonSendable(amount, tokenBalance, gas, snapshot.Balance); err != nil {
		return domain.FeeEstimate{}, err
	}

	message, err := interactor.jettonTransferMessage(wallet, jettonWallet, recipient, amount)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	envelope, err := interactor.builder.BuildTransfer(wallet, snapshot.Seqno, transferMode(false),
		[]domain.TransferMessage{message}, nil)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	estimate, err := interactor.estimator.Estimate(ctx, envelope)
	if err != nil {
		return domain.FeeEstimate{}, err
	}

	exporter.IncEstimateCount()
	return estimate, nil
}

// SendJettonTransfer executes a token transfer. The native balance must cover
// the gas budget plus the projected fee, and the token balance the amount.
// Tokens have no "send max" path.
func (interactor *TransferInteractor) SendJettonTransfer(ctx context.Context, wallet domain.Wallet,
	recipient domain.RecipientData, amount domain.Amount,
	fee domain.FeeEstimate, passphrase string) (string, error) {

	_, jettonWallet, err := interactor.jettonState(ctx, wallet, amount.Asset())
	if err != nil {
		return "", err
	}

	message, err := interactor.jettonTransferMessage(wallet, jettonWallet, recipient, amount)
	if err != nil {
		return "", err
	}

	gas := domain.NewAmount(domain.TonAsset, interactor.jettonGas)
	required, err := gas.Add(fee.Fee)
	if err != nil {
		return "", err
	}

	assertTokenBalance := func(ctx context.Context) error {
		tokenBalance, _, err := interactor.jettonState(ctx, wallet, amount.Asset())
		if err != nil {
			return err
		}
		return interactor.guard.AssertSendable(amount, tokenBalance)
	}

	return interactor.pipeline.Run(ctx, SendRequest{
		Wallet:        wallet,
		Messages:      []domain.TransferMessage{message},
		Mode:          transferMode(false),
		Required:      required,
		Passphrase:    passphrase,
		AssertExtra:   assertTokenBalance,
		DestAddress:   recipient.Address.ID.ToRaw(),
		DisplayAmount: amount.String(),
	})
}

// jettonState resolves the sender's token balance and jetton wallet address.
func (interactor *TransferInteractor) jettonState(ctx context.Context, wallet domain.Wallet,
	asset domain.Asset) (domain.Amount, domain.TransferAddress, error) {

	if asset.Kind != domain.AssetJetton {
		return domain.Amount{}, domain.TransferAddress{},
			fmt.Errorf("%w: expected a jetton amount", domain.ErrorAssetMismatch)
	}

	balance, jettonWallet, err := interactor.reader.GetJettonBalance(ctx, wallet.AccountID, asset.Master)
	if err != nil {
		return domain.Amount{}, domain.TransferAddress{}, fmt.Errorf("%w: %v", domain.ErrorNetwork, err)
	}

	return domain.NewAmount(asset, balance),
		domain.TransferAddress{ID: jettonWallet, Bounceable: true},
		nil
}
