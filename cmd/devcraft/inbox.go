package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aretw0/devcraft/pkg/adapters/sqlite"
	"github.com/spf13/cobra"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List messages delivered to the SQLite inbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.Delivery.SQLite.Path
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			path = p
		}

		inbox, err := sqlite.Open(path)
		if err != nil {
			return err
		}
		defer inbox.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		subs, err := inbox.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(subs)
		}

		total, err := inbox.Count(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RECEIVED\tNAME\tEMAIL\tMESSAGE")
		for _, s := range subs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ReceivedAt.Format(time.DateTime), s.Name, s.Email, truncate(s.Message, 48))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d messages\n", len(subs), total)
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	rootCmd.AddCommand(inboxCmd)
	inboxCmd.Flags().String("db", "", "Inbox database (overrides delivery.sqlite.path)")
	inboxCmd.Flags().IntP("limit", "n", 20, "Number of messages to show")
	inboxCmd.Flags().Bool("json", false, "Print messages as JSON")
}
