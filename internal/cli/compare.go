package cli

import (
	"errors"
	"fmt"

	"github.com/mgpai22/subkit/internal/subtitle"
	"github.com/spf13/cobra"
)

// ErrCaptionsDiffer is returned when compare finds a change.
var ErrCaptionsDiffer = errors.New("captions differ")

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [stored_file] [fresh_file]",
		Short: "Check whether two subtitle files carry the same captions",
		Long: `Check whether two subtitle files carry the same caption text and timing.

IDs and formatting details of the file formats are ignored, so an SRT file
and the VTT file converted from it compare equal. The command exits with a
non-zero status when the captions differ.

Examples:
  subkit compare approved.srt upload.vtt
  subkit compare approved.srt upload.ass --tolerance 0.01`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().
		Float64("tolerance", 0, "Allowed timing difference in seconds")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	tolerance, _ := cmd.Flags().GetFloat64("tolerance")
	if tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", tolerance)
	}

	stored, err := subtitle.Open(args[0])
	if err != nil {
		return err
	}
	fresh, err := subtitle.Open(args[1])
	if err != nil {
		return err
	}

	var same bool
	if tolerance > 0 {
		same = subtitle.EquivalentWithin(stored.Captions, fresh.Captions, tolerance)
	} else {
		same = subtitle.IsEquivalent(stored.Captions, fresh.Captions)
	}

	if same {
		fmt.Fprintf(cmd.OutOrStdout(), "Captions match (%d)\n", len(stored.Captions))
		return nil
	}

	logger.Infow("Captions differ",
		"stored", len(stored.Captions),
		"fresh", len(fresh.Captions),
		"first_difference", firstDifference(stored.Captions, fresh.Captions, tolerance),
	)
	return ErrCaptionsDiffer
}

// firstDifference returns the index of the first caption that differs.
func firstDifference(a, b []subtitle.Caption, tolerance float64) int {
	n := min(len(a), len(b))
	for i := range n {
		if !subtitle.EquivalentWithin(a[i:i+1], b[i:i+1], tolerance) {
			return i
		}
	}
	return n
}
