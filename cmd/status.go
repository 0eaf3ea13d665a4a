package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state and bounty stats",
		Run: func(cmd *cobra.Command, args []string) {
			runStatus()
		},
	}
}

func runStatus() {
	cfg := loadConfig()
	sessions, _, bounties := buildServices(cfg)

	s := sessions.Current()
	if s == nil {
		fmt.Println("Not logged in. Run 'bountyclaw login' to authenticate.")
		return
	}

	remaining := time.Until(time.UnixMilli(s.ExpiresAt)).Round(time.Second)
	fmt.Printf("Logged in (session expires in %s)\n", remaining)

	stats, err := bounties.Stats(context.Background())
	if err != nil {
		fmt.Printf("Could not fetch bounty stats: %v\n", err)
		return
	}
	if len(stats) == 0 {
		return
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
}
