package cli

import (
	"fmt"
	"strings"

	"github.com/mgpai22/subkit/internal/subtitle"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported subtitle formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Input extensions: %s\n", subtitle.DescribeExtensions())
			fmt.Fprintf(out, "Input sources (--from): %s\n", strings.Join(namedSourceKeys(), ", "))
			fmt.Fprintf(out, "Output formats (--format): %s\n", strings.Join(subtitle.GeneratorKeys(), ", "))
		},
	}
}
