// Package cli implements the kelojson command line tool.
package cli

import (
	"github.com/spf13/cobra"

	kelojson "github.com/Sushant-Chavan/kelojson"
	"github.com/Sushant-Chavan/kelojson/config"
	"github.com/Sushant-Chavan/kelojson/log"
)

var conf *config.Config

var RootCmd = &cobra.Command{
	Use:     "kelojson",
	Short:   "Convert, inspect and validate KeloJSON map files",
	Version: kelojson.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if path, err := flags.GetString("config"); err == nil && path != "" {
			c, err := config.Load(path)
			if err != nil {
				return err
			}
			conf = c
		}
		quiet, _ := flags.GetBool("quiet")
		if quiet || (conf != nil && conf.Quiet) {
			log.SetMinLevel(log.LWarn)
		}
		return nil
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.String("config", "", "path to a YAML config file")
	flags.BoolP("quiet", "q", false, "suppress info output")
}
