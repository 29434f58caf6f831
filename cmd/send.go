/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sender/domain"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var flagPassphrase string

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Estimates and broadcasts a transfer",
	Long: `Estimates the fee of a transfer, then signs it and broadcasts it. The
estimate and the send fetch their own account snapshots; a transfer is
never rebroadcast automatically.`,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		estimate, amount, err := runEstimate(ctx)
		if err != nil {
			fmt.Printf("❌ Estimation failed - %v\n", err.Error())
			os.Exit(1)
		}
		printFee(estimate)

		passphrase := flagPassphrase
		if passphrase == "" {
			passphrase, err = promptPassphrase()
			if err != nil {
				fmt.Printf("❌ %v\n", err.Error())
				os.Exit(1)
			}
		}

		envelopeBoc, err := runSend(ctx, estimate, amount, passphrase)
		if err != nil {
			fmt.Printf("❌ Send failed - %v\n", err.Error())
			os.Exit(1)
		}

		fmt.Printf("✅ Transfer broadcast.\n%v\n", envelopeBoc)
	},
}

func runSend(ctx context.Context, estimate domain.FeeEstimate, amount domain.Amount,
	passphrase string) (string, error) {

	if flagRequestFile != "" {
		payload, err := readConnectPayload(flagRequestFile)
		if err != nil {
			return "", err
		}
		return transferInteractor.SendRequestedTransfer(ctx, currentWallet, payload, &estimate, passphrase)
	}

	recipient, err := accounts.ResolveRecipient(ctx, flagDest, flagComment)
	if err != nil {
		return "", err
	}

	if flagJettonMaster != "" {
		return transferInteractor.SendJettonTransfer(ctx, currentWallet, recipient, amount,
			estimate, passphrase)
	}

	return transferInteractor.SendTonTransfer(ctx, currentWallet, recipient, amount, flagMax,
		estimate, passphrase)
}

func promptPassphrase() (string, error) {
	fmt.Print("Passphrase: ")
	return promptLine()
}

func promptLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input failed: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(sendCmd)

	addTransferFlags(sendCmd)
	sendCmd.Flags().StringVar(&flagPassphrase, "passphrase", "", "keystore passphrase; prompted when omitted")
}
