package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/share"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/exception"
)

var appPath string
var envFile string

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: "Ayya admin export service",
	Long:  `Ayya admin export service`,
	Args:  cobra.MinimumNArgs(1),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "One or more arguments are not correct", args)
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(
		versionCmd,
		inspectCmd,
		serveCmd,
		exportCmd,
		tokenCmd,
	)
	rootCmd.PersistentFlags().StringVarP(&appPath, "app", "a", "", "Application directory")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "Environment file")
}

// Execute run the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Boot load the config from the env file and set the mode
func Boot() {
	root := config.Conf.Root
	if appPath != "" {
		r, err := filepath.Abs(appPath)
		if err != nil {
			exception.New("Root error %s", 500, err.Error()).Throw()
		}
		root = r
		os.Setenv("AYYA_ROOT", root)
	}

	if envFile != "" {
		config.Conf = config.LoadFrom(envFile)
	} else {
		config.Conf = config.LoadFrom(filepath.Join(root, ".env"))
	}

	if config.Conf.Mode == "development" {
		config.Development()
		return
	}
	config.Production()
}

func fatal(err error) {
	fmt.Println(color.RedString("Fatal: %s", err.Error()))
	os.Exit(1)
}
