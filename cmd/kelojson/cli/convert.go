package cli

import (
	"github.com/spf13/cobra"

	"github.com/Sushant-Chavan/kelojson/log"
	"github.com/Sushant-Chavan/kelojson/proj"
	"github.com/Sushant-Chavan/kelojson/reader"
	"github.com/Sushant-Chavan/kelojson/writer"
)

func init() {
	RootCmd.AddCommand(convertCmd)
	flags := convertCmd.Flags()
	flags.Bool("compact", false, "write without indentation")
	flags.Bool("keep-empty-nodes", false, "write untagged nodes as point features")
}

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Read a KeloJSON file and write it back normalized",
	Long: `Read a KeloJSON file and write it back normalized.

Normalizing deduplicates nodes, closes polygon rings and rewrites
multi-ring polygons as multipolygon relations. Input and output may be
gzip or xz compressed (picked by suffix); "-" means stdin/stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		flags := cmd.Flags()
		quiet, _ := flags.GetBool("quiet")

		in, err := OpenInput(args[0], quiet || args[1] == "-")
		if err != nil {
			return err
		}
		defer in.Close()

		step := log.Step("reading " + args[0])
		r := reader.New(proj.Mercator{})
		ds, err := r.Parse(in)
		step()
		if err != nil {
			return err
		}
		for _, w := range r.Warnings() {
			log.Warnf("feature %d: %s", w.FeatureID, w.Message)
		}

		opts := conf.WriterOptions()
		if compact, _ := flags.GetBool("compact"); compact {
			opts.Pretty = false
		}
		if keep, _ := flags.GetBool("keep-empty-nodes"); keep {
			opts.SkipEmptyNodes = false
		}

		out, err := OpenOutput(args[1])
		if err != nil {
			return err
		}
		if err := writer.New(ds, proj.Mercator{}, opts).Write(out); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	},
}
