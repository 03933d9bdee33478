package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/goran-ethernal/OwnerScan/internal/config"
	"github.com/goran-ethernal/OwnerScan/pkg/api"
	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print owner counts from the database",
	Long:  `Print the number of unique owners across all networks and the per-network counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := cmd.Context()

		database, _, st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		unique, err := st.Owners().CountUnique(ctx)
		if err != nil {
			return fmt.Errorf("failed to count owners: %w", err)
		}

		networks, err := st.Owners().CountByNetwork(ctx)
		if err != nil {
			return fmt.Errorf("failed to count owners by network: %w", err)
		}

		out := cmd.OutOrStdout()

		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(api.StatsResponse{UniqueOwners: unique, Networks: networks})
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NETWORK\tDISPLAY NAME\tCHECKPOINT\tOWNERS")
		for _, n := range networks {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", n.Name, n.DisplayName, n.Checkpoint, n.Owners)
		}
		fmt.Fprintf(w, "TOTAL (unique)\t\t\t%d\n", unique)

		return w.Flush()
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.GenerateSchema()
		if err != nil {
			return fmt.Errorf("failed to generate schema: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return err
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the stats as JSON")
}
