package common

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

func fileExists(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return nil
}

func ValidateAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

// ValidateShellConfig checks a shell host config. strict also requires the
// asset directories to exist.
func ValidateShellConfig(v *viper.Viper, strict bool) error {
	if v.GetString("name") == "" {
		return fmt.Errorf("name missing")
	}
	port := v.GetInt("port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("port: out of range: %d", port)
	}
	if err := ValidateAddr(net.JoinHostPort(v.GetString("host"), strconv.Itoa(port))); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	if v.GetBool("grpc.enabled") {
		if err := ValidateAddr(v.GetString("grpc.addr")); err != nil {
			return fmt.Errorf("grpc.addr: %w", err)
		}
	}
	if d := strings.ToLower(v.GetString("settings.driver")); d != "" && !slices.Contains([]string{"auto", "sqlite", "postgres", "mysql"}, d) {
		return fmt.Errorf("settings.driver: unsupported %q", d)
	}
	switch t := strings.ToLower(v.GetString("patchlog.type")); t {
	case "", "noop":
	case "redis":
		if v.GetString("patchlog.url") == "" {
			return fmt.Errorf("patchlog.url required for redis")
		}
	case "kafka":
		if v.GetString("patchlog.brokers") == "" {
			return fmt.Errorf("patchlog.brokers required for kafka")
		}
	default:
		return fmt.Errorf("patchlog.type: unsupported %q", t)
	}
	if v.GetBool("telemetry.enabletracing") || v.GetBool("telemetry.enablemetrics") {
		if v.GetString("telemetry.collectorurl") == "" {
			return fmt.Errorf("telemetry.collectorurl required when tracing or metrics are enabled")
		}
	}
	if strict {
		for _, key := range []string{"assets.gamedir", "assets.rendererdir"} {
			if p := v.GetString(key); p != "" {
				if err := fileExists(p); err != nil {
					return fmt.Errorf("%s: %w", key, err)
				}
			}
		}
	}
	return nil
}
