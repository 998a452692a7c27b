package config

import (
	"github.com/zeromicro/go-zero/rest"

	"github.com/payb0y/lindo-clean/internal/assets"
	"github.com/payb0y/lindo-clean/internal/patchlog"
	"github.com/payb0y/lindo-clean/internal/telemetry"
)

type Config struct {
	rest.RestConf
	Shell     ShellConf
	Assets    assets.Config
	Sync      SyncConf
	Settings  SettingsConf
	PatchLog  patchlog.Config
	Telemetry telemetry.Config
	Grpc      GrpcConf
	LogFile   LogFileConf
}

type ShellConf struct {
	AppName  string `json:",default=lindo"`
	Packaged bool   `json:",optional"`
	// Locale picks the default language when none is saved; LANG is used when empty.
	Locale            string `json:",optional"`
	OpenWindowOnStart bool   `json:",default=true"`
	QuitOnAllClosed   bool   `json:",default=true"`
	FindFreePort      bool   `json:",default=true"`
}

type SyncConf struct {
	Buffer             int `json:",default=256"`
	WriteTimeoutMillis int `json:",default=5000"`
	PingIntervalMillis int `json:",default=30000"`
}

type SettingsConf struct {
	Disabled bool   `json:",optional"`
	Driver   string `json:",default=auto,options=auto|sqlite|postgres|mysql"`
	DSN      string `json:",optional"`
	Secret   string `json:",optional"`
}

type GrpcConf struct {
	Enabled bool   `json:",optional"`
	Addr    string `json:",default=127.0.0.1:3001"`
}

type LogFileConf struct {
	Level      string `json:",default=info,options=debug|info|warn|error"`
	Format     string `json:",default=console,options=console|json"`
	Path       string `json:",optional"`
	MaxSizeMB  int    `json:",default=50"`
	MaxBackups int    `json:",default=3"`
	MaxAgeDays int    `json:",default=14"`
	Compress   bool   `json:",optional"`
}
