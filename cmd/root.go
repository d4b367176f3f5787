// Package cmd wires the pipeline stages into the amrloc command line.
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/amrloc/logger"
	"github.com/yumyai/amrloc/pkg/config"
)

const (
	VERSION = "0.1.0"

	// viperKeyAnnotation marks a flag with the config key it overrides.
	viperKeyAnnotation = "amrloc_viper_key"
)

// app carries the state shared by every sub-command of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "amrloc",
		Short:         "Link AMR gene hits to plasmid/chromosome locations",
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML config file (default ./amrloc.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")
	bindFlag(rootCmd.PersistentFlags(), "debug", "debug")

	rootCmd.AddCommand(
		collectCommand(a),
		filterCommand(a),
		linkCommand(a),
		summariseCommand(a),
		associateCommand(a),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.initialize(cmd)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	}

	return rootCmd
}

// initialize binds the running command's flags, loads the configuration and
// starts the logger.
func (a *app) initialize(cmd *cobra.Command) error {
	dotenvErr := godotenv.Load()

	var bindErr error
	visit := func(f *pflag.Flag) {
		keys, ok := f.Annotations[viperKeyAnnotation]
		if !ok || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(keys[0], f)
	}
	cmd.InheritedFlags().VisitAll(visit)
	cmd.Flags().VisitAll(visit)
	if bindErr != nil {
		return fmt.Errorf("error binding flags: %w", bindErr)
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	if err := logger.InitLogger(level); err != nil {
		return err
	}

	reportDotenv(dotenvErr)
	logger.Info("Start:", zap.String("Version", VERSION), zap.String("command", cmd.Name()))
	return nil
}

// bindFlag records that flag name overrides config key.
func bindFlag(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, viperKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

func reportDotenv(err error) {
	if err != nil {
		logger.Warn("No .env found, using local environment", zap.Error(err))
	}
}
