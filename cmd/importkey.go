/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"sender/domain/config"
	"sender/infrastructure/keystore"

	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Seals a recovery phrase into the keystore",
	Long: `Reads a recovery phrase from stdin and seals it into the keystore under
the configured wallet public key. The passphrase given here unlocks the
key at send time.`,
	Run: func(cmd *cobra.Command, args []string) {
		passphrase := flagPassphrase
		if passphrase == "" {
			var err error
			passphrase, err = promptPassphrase()
			if err != nil {
				fmt.Printf("❌ %v\n", err.Error())
				os.Exit(1)
			}
		}

		fmt.Println("Enter the recovery phrase:")
		seed, err := promptLine()
		if err != nil {
			fmt.Printf("❌ %v\n", err.Error())
			os.Exit(1)
		}

		store := keystore.NewFileStore(config.GetKeystorePath())
		if err := store.Store(config.GetWalletPublicKey(), seed, passphrase); err != nil {
			fmt.Printf("❌ Sealing the phrase failed - %v\n", err.Error())
			os.Exit(1)
		}

		fmt.Println("✅ Recovery phrase sealed.")
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&flagPassphrase, "passphrase", "", "keystore passphrase; prompted when omitted")
}
