package cmd

import (
	"fmt"
	"time"

	"github.com/ayyaapp/ayya/auth"
	"github.com/ayyaapp/ayya/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/exception"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin bearer token",
	Long:  "Issue an admin bearer token signed with AYYA_ADMIN_JWT_SECRET",
	Run: func(cmd *cobra.Command, args []string) {
		defer func() {
			err := exception.Catch(recover())
			if err != nil {
				fatal(err)
			}
		}()

		Boot()
		admin := auth.NewAdmin(config.Conf.Admin)
		if !admin.Configured() {
			exception.New("admin email and password are not set", 400).Throw()
		}

		token, err := admin.Issue(tokenTTL)
		if err != nil {
			fatal(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token.Token)
		fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("Expires at %s", time.Unix(token.ExpiresAt, 0).UTC().Format(time.RFC3339)))
	},
}

func init() {
	tokenCmd.PersistentFlags().DurationVarP(&tokenTTL, "ttl", "t", time.Hour, "Token lifetime")
}
