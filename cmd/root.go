package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "booking",
	Short: "Booking and voucher service",
	Long:  "Backend for studio reservations and gift vouchers with hosted card payments through the BORICA gateway.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
