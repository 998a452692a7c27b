package servecmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeromicro/go-zero/core/conf"

	"github.com/payb0y/lindo-clean/internal/app/shell"
	"github.com/payb0y/lindo-clean/internal/app/shell/config"
	"github.com/payb0y/lindo-clean/internal/cli/common"
)

type flags struct {
	cfgFile   string
	includes  []string
	profile   string
	host      string
	port      int
	grpc      bool
	noWindow  bool
	logLevel  string
	logFormat string
	logFile   string
}

// New returns the `lindo serve` command.
func New() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lindo shell host",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := Load(cmd, f)
			if err != nil {
				return err
			}
			common.SetupLoggerWithFile(common.LogOptionsFromViper(v))
			if err := common.ValidateShellConfig(v, false); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}
			c, err := Decode(v)
			if err != nil {
				return err
			}

			app, err := shell.New(c)
			if err != nil {
				return err
			}
			app.Start()
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			app.Wait(ctx)
			slog.Info("shutting down")
			return app.Stop()
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.cfgFile, "config", "f", "etc/shell.yaml", "config file path")
	fl.StringSliceVar(&f.includes, "include", nil, "extra config files merged in order")
	fl.StringVar(&f.profile, "profile", "", "profile from the profiles section")
	fl.StringVar(&f.host, "host", "", "listen host")
	fl.IntVar(&f.port, "port", 0, "first port to try")
	fl.BoolVar(&f.grpc, "grpc", false, "enable the gRPC state sync")
	fl.BoolVar(&f.noWindow, "no-window", false, "do not open a window on start")
	fl.StringVar(&f.logLevel, "log.level", "", "debug|info|warn|error")
	fl.StringVar(&f.logFormat, "log.format", "", "console|json")
	fl.StringVar(&f.logFile, "log.file", "", "rotating log file")
	return cmd
}

// Load reads the config file, its includes and profile, then LINDO_* env
// and the flags the user set.
func Load(cmd *cobra.Command, f flags) (*viper.Viper, error) {
	v, err := common.LoadWithIncludes(f.cfgFile, f.includes)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if v, err = common.ApplyProfile(v, f.profile); err != nil {
		return nil, err
	}
	v.SetEnvPrefix("LINDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	applyEnv(v)

	fl := cmd.Flags()
	if fl.Changed("host") {
		v.Set("host", f.host)
	}
	if fl.Changed("port") {
		v.Set("port", f.port)
	}
	if fl.Changed("grpc") {
		v.Set("grpc.enabled", f.grpc)
	}
	if fl.Changed("no-window") {
		v.Set("shell.openwindowonstart", !f.noWindow)
	}
	if fl.Changed("log.level") {
		v.Set("log.level", f.logLevel)
	}
	if fl.Changed("log.format") {
		v.Set("log.format", f.logFormat)
	}
	if fl.Changed("log.file") {
		v.Set("log.file", f.logFile)
	}
	return v, nil
}

// env values arrive as strings; keys with a typed field are converted here
var envKeys = map[string]string{
	"host":                    "string",
	"port":                    "int",
	"grpc.enabled":            "bool",
	"grpc.addr":               "string",
	"settings.driver":         "string",
	"settings.dsn":            "string",
	"settings.secret":         "string",
	"patchlog.type":           "string",
	"shell.openwindowonstart": "bool",
}

func applyEnv(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	for key, kind := range envKeys {
		if _, ok := os.LookupEnv("LINDO_" + strings.ToUpper(replacer.Replace(key))); !ok {
			continue
		}
		switch kind {
		case "int":
			v.Set(key, v.GetInt(key))
		case "bool":
			v.Set(key, v.GetBool(key))
		default:
			v.Set(key, v.GetString(key))
		}
	}
}

// Decode turns the merged settings into the service config, applying the
// go-zero defaults and validation.
func Decode(v *viper.Viper) (config.Config, error) {
	settings := v.AllSettings()
	delete(settings, "log")
	delete(settings, "profiles")
	data, err := json.Marshal(settings)
	if err != nil {
		return config.Config{}, err
	}
	data = []byte(os.ExpandEnv(string(data)))
	var c config.Config
	if err := conf.LoadFromJsonBytes(data, &c); err != nil {
		return config.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}
