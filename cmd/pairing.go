package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pairingCmd = &cobra.Command{
	Use:   "pairing",
	Short: "Manage sender pairing requests",
}

var pairingPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pending pairing requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pairing, err := openPairingStore(cfg)
		if err != nil {
			return err
		}

		pending, err := pairing.Pending()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("no pending pairing requests")
			return nil
		}

		for _, req := range pending {
			fmt.Printf("%s  channel=%s sender=%s chat=%s requested=%s\n",
				req.Code, req.Channel, req.SenderID, req.ChatID,
				req.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var pairingApproveCmd = &cobra.Command{
	Use:   "approve <code>",
	Short: "Approve a pairing request by code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pairing, err := openPairingStore(cfg)
		if err != nil {
			return err
		}

		senderID, ok, err := pairing.Approve(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no pending pairing request with code %s", args[0])
		}
		fmt.Printf("approved sender %s\n", senderID)
		return nil
	},
}

func init() {
	pairingCmd.AddCommand(pairingPendingCmd, pairingApproveCmd)
	rootCmd.AddCommand(pairingCmd)
}
