package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/network"
	"github.com/ayyaapp/ayya/service"
	"github.com/ayyaapp/ayya/share"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/log"
)

var serveDebug bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin export service",
	Long:  "Start the admin export service",
	Run: func(cmd *cobra.Command, args []string) {
		defer func() {
			err := exception.Catch(recover())
			if err != nil {
				fatal(err)
			}
		}()

		Boot()
		if serveDebug {
			config.Development()
		}

		if err := runServe(context.Background(), config.Conf); err != nil {
			fatal(err)
		}
	},
}

// runServe serve until interrupted, the dependencies are closed before it returns
func runServe(ctx context.Context, cfg config.Config) error {

	deps, err := load(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	router := service.Router(deps, cfg.AllowFrom)
	srv, err := service.Start(router, service.Option{Host: cfg.Host, Port: cfg.Port})
	if err != nil {
		return err
	}
	<-srv.Event()
	banner(srv)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case <-interrupt:
	case <-srv.Event():
		log.Error("[Server] stopped unexpectedly")
		return fmt.Errorf("server stopped unexpectedly")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := service.Stop(stopCtx, srv); err != nil {
		log.Error("[Server] stop: %s", err.Error())
	}
	fmt.Println(color.GreenString("✨STOPPED✨"))
	return nil
}

func banner(srv *service.Server) {
	mode := config.Conf.Mode
	if mode == "development" {
		mode = color.RedString("development")
	}

	port, _ := srv.Port()
	fmt.Println(color.WhiteString("---------------------------------"))
	fmt.Println(color.GreenString("%s v%s %s", share.BUILDNAME, share.VERSION, mode))
	fmt.Println(color.WhiteString("---------------------------------"))
	fmt.Println(color.GreenString("Root:   %s", config.Conf.Root))
	fmt.Println(color.GreenString("Store:  %s", config.Conf.Store.Driver))
	fmt.Println(color.GreenString("Zone:   %s", config.Conf.TimeZone))

	hosts := []string{config.Conf.Host}
	if config.Conf.Host == "0.0.0.0" {
		hosts = []string{"127.0.0.1"}
		if ips, err := network.IP(); err == nil {
			for _, ip := range ips {
				if ip != "127.0.0.1" {
					hosts = append(hosts, ip)
				}
			}
		}
		sort.Strings(hosts[1:])
	}

	fmt.Println(color.WhiteString("\n---------------------------------"))
	fmt.Println(color.GreenString("✨LISTENING✨"))
	fmt.Println(color.WhiteString("---------------------------------"))
	for _, host := range hosts {
		fmt.Println(color.CyanString("Export:  http://%s:%d/api/admin/export", host, port))
	}
	fmt.Println(color.CyanString("Metrics: http://%s:%d/metrics", hosts[0], port))
	fmt.Println("")
}

func init() {
	serveCmd.PersistentFlags().BoolVarP(&serveDebug, "debug", "", false, "Development mode")
}
