// Package config loads normalizer settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MOYARU/normalizeurl/internal/normalizer"
	"github.com/spf13/viper"
)

// DefaultFile is read from the working directory when no explicit path is given.
const DefaultFile = ".normalizeurl.yaml"

const envPrefix = "NORMALIZEURL"

// keyDelimiter replaces viper's "." so host keys such as "youtube.com" stay flat.
const keyDelimiter = "|"

// File mirrors the accepted keys of a config file:
//
//	remove_tracking_params: true
//	remove_trailing_slash: true
//	downcase_hostname: true
//	remove_www: false
//	remove_fragment: true
//	custom_tracking_params: [cmpid, trk]
//	preserve_params:
//	  example.com: [ref]
type File struct {
	RemoveTrackingParams bool                `mapstructure:"remove_tracking_params"`
	RemoveTrailingSlash  bool                `mapstructure:"remove_trailing_slash"`
	DowncaseHostname     bool                `mapstructure:"downcase_hostname"`
	RemoveWWW            bool                `mapstructure:"remove_www"`
	RemoveFragment       bool                `mapstructure:"remove_fragment"`
	CustomTrackingParams []string            `mapstructure:"custom_tracking_params"`
	PreserveParams       map[string][]string `mapstructure:"preserve_params"`
}

// Result is a loaded configuration and the file it came from ("" when only
// defaults and environment were used).
type Result struct {
	Config normalizer.Config
	Path   string
}

var boolKeys = []string{
	"remove_tracking_params",
	"remove_trailing_slash",
	"downcase_hostname",
	"remove_www",
	"remove_fragment",
}

// Load reads path, or DefaultFile when path is empty. A missing DefaultFile is
// not an error; a missing explicit path is. Unknown keys are rejected.
func Load(path string) (Result, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	setDefaults(v)

	for _, key := range boolKeys {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key)); err != nil {
			return Result{}, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	source := path
	if source == "" {
		source = DefaultFile
		if _, err := os.Stat(source); errors.Is(err, os.ErrNotExist) {
			source = ""
		}
	}
	if source != "" {
		if abs, err := filepath.Abs(source); err == nil {
			source = abs
		}
		v.SetConfigFile(source)
		if filepath.Ext(source) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return Result{}, fmt.Errorf("failed to read config file %s: %w", source, err)
		}
	}

	var f File
	if err := v.UnmarshalExact(&f); err != nil {
		return Result{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(f); err != nil {
		return Result{}, fmt.Errorf("invalid config: %w", err)
	}

	return Result{Config: f.toNormalizer(), Path: source}, nil
}

func setDefaults(v *viper.Viper) {
	d := normalizer.DefaultConfig()
	v.SetDefault("remove_tracking_params", d.RemoveTrackingParams)
	v.SetDefault("remove_trailing_slash", d.RemoveTrailingSlash)
	v.SetDefault("downcase_hostname", d.DowncaseHostname)
	v.SetDefault("remove_www", d.RemoveWWW)
	v.SetDefault("remove_fragment", d.RemoveFragment)
}

func validate(f File) error {
	for _, p := range f.CustomTrackingParams {
		if strings.TrimSpace(p) == "" {
			return errors.New("custom_tracking_params contains a blank name")
		}
	}
	for host, names := range f.PreserveParams {
		if strings.TrimSpace(host) == "" {
			return errors.New("preserve_params contains a blank host")
		}
		for _, n := range names {
			if strings.TrimSpace(n) == "" {
				return fmt.Errorf("preserve_params[%s] contains a blank name", host)
			}
		}
	}
	return nil
}

func (f File) toNormalizer() normalizer.Config {
	return normalizer.Config{
		RemoveTrackingParams: f.RemoveTrackingParams,
		RemoveTrailingSlash:  f.RemoveTrailingSlash,
		DowncaseHostname:     f.DowncaseHostname,
		RemoveWWW:            f.RemoveWWW,
		RemoveFragment:       f.RemoveFragment,
		CustomTrackingParams: f.CustomTrackingParams,
		PreserveParams:       f.PreserveParams,
	}
}

// ParsePreserve parses "host=a,b" into its host and parameter names.
func ParsePreserve(spec string) (string, []string, error) {
	host, list, ok := strings.Cut(spec, "=")
	host = strings.ToLower(strings.TrimSpace(host))
	if !ok || host == "" {
		return "", nil, fmt.Errorf("preserve %q: expected host=param[,param...]", spec)
	}
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("preserve %q: no parameter names", spec)
	}
	return host, names, nil
}
