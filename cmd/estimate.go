/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sender/domain"
	"sender/domain/util"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagDest           string
	flagAmount         string
	flagComment        string
	flagMax            bool
	flagJettonMaster   string
	flagJettonDecimals int32
	flagJettonSymbol   string
	flagRequestFile    string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimates the fee of a transfer",
	Long: `Estimates the fee of a transfer by dry-running it against the chain
gateway. Nothing is signed and nothing is broadcast.`,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		estimate, _, err := runEstimate(ctx)
		if err != nil {
			fmt.Printf("❌ Estimation failed - %v\n", err.Error())
			os.Exit(1)
		}

		printFee(estimate)
	},
}

func runEstimate(ctx context.Context) (domain.FeeEstimate, domain.Amount, error) {

	if flagRequestFile != "" {
		payload, err := readConnectPayload(flagRequestFile)
		if err != nil {
			return domain.FeeEstimate{}, domain.Amount{}, err
		}
		estimate, err := transferInteractor.EstimateRequestedTransfer(ctx, currentWallet, payload)
		return estimate, domain.Amount{}, err
	}

	recipient, err := accounts.ResolveRecipient(ctx, flagDest, flagComment)
	if err != nil {
		return domain.FeeEstimate{}, domain.Amount{}, err
	}

	if flagJettonMaster != "" {
		amount, err := jettonAmount()
		if err != nil {
			return domain.FeeEstimate{}, domain.Amount{}, err
		}
		estimate, err := transferInteractor.EstimateJettonTransfer(ctx, currentWallet, recipient, amount)
		return estimate, amount, err
	}

	value := flagAmount
	if flagMax && value == "" {
		value = "0"
	}
	amount, err := domain.AmountFromDecimalString(domain.TonAsset, value)
	if err != nil {
		return domain.FeeEstimate{}, domain.Amount{}, err
	}
	estimate, err := transferInteractor.EstimateTonTransfer(ctx, currentWallet, recipient, amount, flagMax)
	return estimate, amount, err
}

func jettonAmount() (domain.Amount, error) {
	master, err := domain.ParseTransferAddress(flagJettonMaster)
	if err != nil {
		return domain.Amount{}, err
	}
	asset := domain.JettonAsset(master.ID, flagJettonDecimals, flagJettonSymbol)
	return domain.AmountFromDecimalString(asset, flagAmount)
}

func readConnectPayload(path string) (domain.ConnectPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ConnectPayload{}, err
	}

	var payload domain.ConnectPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.ConnectPayload{}, fmt.Errorf("bad transfer request file: %w", err)
	}
	return payload, nil
}

func printFee(estimate domain.FeeEstimate) {
	fmt.Printf("Projected fee: %v TON (%v)\n",
		formatter.Format(estimate.Fee, domain.FormatOptions{Decimals: 9, IgnoreZeroTruncate: false}),
		util.BigGramString(estimate.Fee.WeiAmount()))
}

func addTransferFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDest, "dest", "", "destination address")
	cmd.Flags().StringVar(&flagAmount, "amount", "", "transfer amount in display units")
	cmd.Flags().StringVar(&flagComment, "comment", "", "text comment attached to the transfer")
	cmd.Flags().BoolVar(&flagMax, "max", false, "send the whole balance")
	cmd.Flags().StringVar(&flagJettonMaster, "jetton", "", "jetton master address for token transfers")
	cmd.Flags().Int32Var(&flagJettonDecimals, "jetton-decimals", 9, "jetton decimals")
	cmd.Flags().StringVar(&flagJettonSymbol, "jetton-symbol", "", "jetton symbol for display")
	cmd.Flags().StringVar(&flagRequestFile, "request", "", "JSON file holding a requested multi-message transfer")
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	addTransferFlags(estimateCmd)
}
