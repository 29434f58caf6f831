/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagLimit int

// receiptsCmd represents the receipts command
var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Lists recently broadcast transfers",
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		if receiptRepository == nil {
			fmt.Println("❌ No database is configured; receipts are not recorded.")
			os.Exit(1)
		}

		receipts, err := receiptRepository.FindRecent(flagLimit)
		if err != nil {
			fmt.Printf("❌ Loading receipts failed - %v\n", err.Error())
			os.Exit(1)
		}

		for i, receipt := range receipts {
			fmt.Printf("#%03d - %v  %v  %v\n", i+1,
				receipt.CreateTime.Format("2006-01-02 15:04:05"), receipt.Amount, receipt.Address)
		}
	},
}

func init() {
	rootCmd.AddCommand(receiptsCmd)

	receiptsCmd.Flags().IntVar(&flagLimit, "limit", 20, "maximum number of receipts to list")
}
