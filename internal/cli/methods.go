package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the removal methods the backend accepts",
	Args:  cobra.NoArgs,
	RunE:  runMethods,
}

func init() {
	rootCmd.AddCommand(methodsCmd)
	methodsCmd.Flags().Bool("json", false, "output as JSON")
}

func runMethods(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	methods, err := api.Methods(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(methods)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tSTRATEGY\tAVAILABLE\tDESCRIPTION")
	for _, m := range methods.Image {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", m.Name, m.Strategy, m.Available, m.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nvideo: %s (%s)\n", methods.Video.Status, methods.Video.Description)
	return nil
}
