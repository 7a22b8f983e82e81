package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mgpai22/subkit/internal/subtitle"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [subtitle_file]",
		Short: "List the captions of a subtitle file",
		Long: `List the captions of a subtitle file with their timing.

Captions without timing show "--" in place of a time. With --json the
captions are printed as a JSON array of start_time, end_time and
subtitle_text objects.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().String("from", "", "Input format, overriding the file extension")
	cmd.Flags().Bool("json", false, "Print captions as JSON")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	asJSON, _ := cmd.Flags().GetBool("json")

	file, err := readCaptions(args[0], from)
	if err != nil {
		return err
	}

	if asJSON {
		captions := file.Captions
		if captions == nil {
			captions = []subtitle.Caption{}
		}
		data, err := json.MarshalIndent(captions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode captions: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "#\tSTART\tEND\tTEXT\n")
	for i, c := range file.Captions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			i+1,
			inspectTime(c.StartTime),
			inspectTime(c.EndTime),
			strings.ReplaceAll(c.Text, "\n", " / "),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d captions (%s)\n", len(file.Captions), file.Format)
	return nil
}

func inspectTime(seconds float64) string {
	if seconds == subtitle.NoTime {
		return "--"
	}
	return subtitle.EncodeTime(seconds, subtitle.FormatVTT)
}
