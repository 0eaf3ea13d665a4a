package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/bountyclaw/internal/bounty"
)

func bountiesCmd() *cobra.Command {
	var (
		page       int
		limit      int
		status     string
		difficulty string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "bounties",
		Short: "List open bounties",
		Run: func(cmd *cobra.Command, args []string) {
			runBounties(bounty.FetchParams{
				Page:       page,
				Limit:      limit,
				Status:     status,
				Difficulty: difficulty,
			}, jsonOutput)
		},
	}
	cmd.Flags().IntVar(&page, "page", bounty.DefaultPage, "page number")
	cmd.Flags().IntVar(&limit, "limit", bounty.DefaultLimit, "results per page")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (draft|open|in_progress|completed|cancelled)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "filter by difficulty (beginner|intermediate|advanced|expert)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runBounties(params bounty.FetchParams, jsonOutput bool) {
	cfg := loadConfig()
	_, _, bounties := buildServices(cfg)

	list, err := bounties.FetchBounties(context.Background(), params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching bounties: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		out, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(list) == 0 {
		fmt.Println("No bounties found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDIFFICULTY\tAMOUNT\tVOTES\tCOMMENTS")
	for _, b := range list {
		amount := "-"
		if b.Amount != nil {
			cur := ""
			if b.Currency != nil {
				cur = " " + *b.Currency
			}
			amount = fmt.Sprintf("%.2f%s", *b.Amount, cur)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			b.ID, b.Title, b.Status, b.Difficulty, amount, b.VoteCount, b.CommentCount)
	}
	w.Flush()
}
