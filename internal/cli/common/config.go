package common

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadWithIncludes reads base config and merges includes in order.
func LoadWithIncludes(base string, includes []string) (*viper.Viper, error) {
	v := viper.New()
	if base != "" {
		v.SetConfigFile(base)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	for _, inc := range includes {
		iv := viper.New()
		iv.SetConfigFile(inc)
		if err := iv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("include %s: %w", inc, err)
		}
		if err := v.MergeConfigMap(iv.AllSettings()); err != nil {
			return nil, fmt.Errorf("include %s: %w", inc, err)
		}
	}
	return v, nil
}

// mergeMaps recursively merges b into a.
func mergeMaps(a, b map[string]any) map[string]any {
	for k, vb := range b {
		if ma, ok := a[k].(map[string]any); ok {
			if mb, ok2 := vb.(map[string]any); ok2 {
				a[k] = mergeMaps(ma, mb)
				continue
			}
		}
		a[k] = vb
	}
	return a
}

// ApplyProfile overlays profiles.<name> on the config and drops the profiles
// key. An empty name returns v unchanged.
func ApplyProfile(v *viper.Viper, profile string) (*viper.Viper, error) {
	if profile == "" {
		return v, nil
	}
	prof := v.Sub("profiles")
	if prof == nil {
		return nil, fmt.Errorf("profiles not found in config")
	}
	p := prof.Sub(profile)
	if p == nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	base := v.AllSettings()
	delete(base, "profiles")
	nv := viper.New()
	if err := nv.MergeConfigMap(mergeMaps(base, p.AllSettings())); err != nil {
		return nil, err
	}
	return nv, nil
}
