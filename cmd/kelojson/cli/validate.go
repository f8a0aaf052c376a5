package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Sushant-Chavan/kelojson/format"
	"github.com/Sushant-Chavan/kelojson/proj"
	"github.com/Sushant-Chavan/kelojson/reader"
)

func init() {
	RootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "treat warnings as errors")
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check that a file parses as KeloJSON",
	Long: `Check that a file parses as KeloJSON.

Exits non-zero on malformed documents, invalid geometry and unknown
member types. Dropped relation members are reported as warnings, or as
errors with --strict.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		flags := cmd.Flags()
		quiet, _ := flags.GetBool("quiet")
		strict, _ := flags.GetBool("strict")

		if args[0] != "-" && !HasExtension(args[0]) {
			fmt.Printf("notice: %s does not use the %s extension\n", args[0], format.Extension)
		}

		in, err := OpenInput(args[0], quiet)
		if err != nil {
			return err
		}
		defer in.Close()

		r := reader.New(proj.Mercator{})
		ds, err := r.Parse(in)
		if err != nil {
			if format.IsDataError(err) {
				return errors.Wrapf(err, "%s is not valid", args[0])
			}
			return err
		}
		for _, w := range r.Warnings() {
			fmt.Printf("warning: feature %d: %s\n", w.FeatureID, w.Message)
		}
		if strict && len(r.Warnings()) > 0 {
			return errors.Errorf("%s has %d warnings", args[0], len(r.Warnings()))
		}
		fmt.Printf("%s: ok (%d nodes, %d ways, %d relations)\n",
			args[0], len(ds.Nodes()), len(ds.Ways()), len(ds.Relations()))
		return nil
	},
}
