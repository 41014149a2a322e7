package store

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend selects the bridge implementation.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendDisk   Backend = "disk"
	BackendMemory Backend = "memory"
)

// Config is the runtime configuration shared by every jview command.
type Config interface {
	BasePath() string
	Backend() Backend
	ViewerBase() string
	ViewerAddr() string
	LogLevel() string
	LogDevelopment() bool
}

const (
	DefaultPath       = "~/.jview.db"
	DefaultViewerAddr = "127.0.0.1:7483"
	DefaultViewerBase = "http://" + DefaultViewerAddr
)

// LoadConfig reads .jview.yaml from ./ or $JVIEW_CONFIG_PATH and JVIEW_*
// environment variables.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("backend", string(BackendAuto))
	v.SetDefault("viewer.base", DefaultViewerBase)
	v.SetDefault("viewer.addr", DefaultViewerAddr)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetConfigName(".jview") // .yaml is implicit
	v.SetEnvPrefix("JVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("JVIEW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	backend := Backend(strings.ToLower(v.GetString("backend")))
	switch backend {
	case BackendAuto, BackendDisk, BackendMemory:
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}

	return &fileConfig{
		Path:        path,
		StoreKind:   backend,
		Base:        strings.TrimRight(v.GetString("viewer.base"), "/"),
		Addr:        v.GetString("viewer.addr"),
		Level:       v.GetString("log.level"),
		Development: v.GetBool("log.development"),
	}, nil
}

type fileConfig struct {
	Path        string  `json:"path"`
	StoreKind   Backend `json:"backend"`
	Base        string  `json:"viewerBase"`
	Addr        string  `json:"viewerAddr"`
	Level       string  `json:"logLevel"`
	Development bool    `json:"logDevelopment"`
}

func (f *fileConfig) BasePath() string     { return f.Path }
func (f *fileConfig) Backend() Backend     { return f.StoreKind }
func (f *fileConfig) ViewerBase() string   { return f.Base }
func (f *fileConfig) ViewerAddr() string   { return f.Addr }
func (f *fileConfig) LogLevel() string     { return f.Level }
func (f *fileConfig) LogDevelopment() bool { return f.Development }
