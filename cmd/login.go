package cmd

import (
	"context"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/bountyclaw/internal/auth"
)

func loginCmd() *cobra.Command {
	var noQR bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with bounty.new via the device flow",
		Run: func(cmd *cobra.Command, args []string) {
			runLogin(noQR)
		},
	}
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "skip the terminal QR code")
	return cmd
}

func runLogin(noQR bool) {
	cfg := loadConfig()
	sessions, engine, _ := buildServices(cfg)

	if sessions.IsAuthenticated() {
		fmt.Println("Already logged in. Run 'bountyclaw logout' first to switch accounts.")
		return
	}

	engine.OnGrant = func(grant *auth.DeviceCodeGrant) {
		url := grant.VerificationURIComplete
		if url == "" {
			url = cfg.API.DeviceURL + "?user_code=" + grant.UserCode
		}
		fmt.Printf("Your device code: %s\n", grant.UserCode)
		fmt.Printf("Authorize at:     %s\n", url)
		if !noQR {
			if qc, err := qrcode.New(url, qrcode.Low); err == nil {
				fmt.Println(qc.ToSmallString(false))
			}
		}
		fmt.Println("Waiting for authorization...")
	}

	if err := engine.InitiateLogin(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Successfully authenticated with bounty.new!")
}
