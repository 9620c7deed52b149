package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xishang0128/dcx-dumper-go/cache"
	"github.com/xishang0128/dcx-dumper-go/common/file"
	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/config"
	"github.com/xishang0128/dcx-dumper-go/dcx"
	"github.com/xishang0128/dcx-dumper-go/dumper"
	"github.com/xishang0128/dcx-dumper-go/oodle"
)

var (
	rootCmd *cobra.Command

	configPath string
	logLevel   string
	userAgent  string
	oodleDirs  []string

	cfg *config.Config
)

func init() {
	i18n.InitLanguage()

	rootCmd = &cobra.Command{
		Use:   "dcx-dumper",
		Short: i18n.I18nMsg.App.AppDescription,
		Long:  i18n.I18nMsg.App.AppLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := setup(cmd); err != nil {
				log.Fatalf(i18n.I18nMsg.App.ErrorFailedToLoadConfig, err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", i18n.I18nMsg.App.FlagConfig)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", i18n.I18nMsg.App.FlagLogLevel)
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", i18n.I18nMsg.Common.FlagUserAgent)
	rootCmd.PersistentFlags().StringArrayVar(&oodleDirs, "oodle-dir", nil, i18n.I18nMsg.App.FlagOodleDir)

	initExtractCmd()
	initListCmd()
	initInspectCmd()
	initVerifyCmd()
	initVersionCmd()
}

// setup loads the configuration, applies persistent flags over it and
// installs the default logger.
func setup(cmd *cobra.Command) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.Oodle.SearchDirs = append(cfg.Oodle.SearchDirs, oodleDirs...)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Log.Level))); err != nil {
		return fmt.Errorf(i18n.I18nMsg.App.ErrorInvalidLogLevel, cfg.Log.Level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	file.SetUserAgent(cfg.HTTP.UserAgent)
	file.SetHTTPClientTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)
	oodle.SetSearchDirs(cfg.Oodle.SearchDirs)
	dumper.MaxBufferSize = int64(cfg.Extract.MaxBufferMB) * 1024 * 1024
	return nil
}

// newRegistry builds the Oodle registry from the configuration.
func newRegistry() *oodle.Registry {
	var names map[oodle.Revision][]string
	if len(cfg.Oodle.LibraryNames) > 0 {
		names = oodle.DefaultLibraryNames()
		for rev, list := range cfg.Oodle.LibraryNames {
			names[oodle.Revision(rev)] = list
		}
	}
	return oodle.NewRegistry(oodle.NewDiscovery(cfg.Oodle.SearchDirs, names).Probe, slog.Default())
}

func newDecoder() *dcx.Decoder {
	return dcx.NewDecoder(dcx.Options{
		Logger:      slog.Default(),
		Codecs:      newRegistry(),
		KrakenLevel: cfg.Oodle.Level,
	})
}

// openCache returns nil when caching is disabled.
func openCache() *cache.Store {
	if cfg.Cache.Dir == "" {
		return nil
	}
	codec, err := cache.ParseCodec(cfg.Cache.Codec)
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToOpenCache, err)
	}
	store, err := cache.Open(cfg.Cache.Dir, codec, slog.Default())
	if err != nil {
		log.Fatalf(i18n.I18nMsg.Common.ErrorFailedToOpenCache, err)
	}
	return store
}

func createDumper(paths []string, store *cache.Store) (*dumper.Dumper, error) {
	return dumper.New(paths, dumper.Options{
		Decoder:  newDecoder(),
		Cache:    store,
		Logger:   slog.Default(),
		Suffixes: cfg.Extract.Suffixes,
		Strict:   cfg.Extract.Strict,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
