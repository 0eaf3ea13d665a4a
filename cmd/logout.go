package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			runLogout()
		},
	}
}

func runLogout() {
	cfg := loadConfig()
	sessions, _, _ := buildServices(cfg)

	if err := sessions.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Logout failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logged out successfully")
}
