package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/payb0y/lindo-clean/internal/app/shell"
	"github.com/payb0y/lindo-clean/internal/app/shell/config"
)

var configFile = flag.String("f", "etc/shell.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	app, err := shell.New(c)
	logx.Must(err)
	app.Start()

	fmt.Printf("Starting shell host at %s...\n", app.BaseURL())
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	app.Wait(ctx)
	logx.Must(app.Stop())
}
