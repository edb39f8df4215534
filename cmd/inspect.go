package cmd

import (
	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/share"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/maps"
	"github.com/yaoapp/kun/utils"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the configuration, secrets left out",
	Long:  "Show the configuration, secrets left out",
	Run: func(cmd *cobra.Command, args []string) {
		Boot()
		res := maps.Map{
			"version":     share.VERSION,
			"collections": share.Collections(),
			"config":      config.Conf,
		}
		utils.Dump(res)
	},
}
