// Package cmd provides the root command and CLI setup for the options chooser.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/breakerb0y/aaropa-calamares/internal/adapter"
	"github.com/breakerb0y/aaropa-calamares/internal/controller"
	"github.com/breakerb0y/aaropa-calamares/internal/domain"
	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

var definitionLoader adapter.DefinitionLoader
var storageOpener adapter.StorageOpener
var workflow domain.Workflow
var ui controller.UI

var requiredFlag bool
var selectFlags []string
var storagePathFlag string
var storageKeyFlag string
var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		configureLogger(logFileFlag, viper.GetBool(logVerboseKey))
	}

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	definitionLoader = adapter.NewLocalDefinitionLoader(viper.GetInt(loadParallelKey))
	storageOpener = adapter.StorageOpenerFunc(adapter.OpenGlobalStorage)
	workflow = domain.NewWorkflow(definitionLoader, storageOpener, ui)
}

const definitionsHelp = `Definition files are YAML: a list of groups, or a map with a "groups" list.
The first file builds the tree and every later file is appended to it;
groups tagged with the same source replace the earlier ones. Without
arguments the files listed under "definitions" in options.yaml are used.`

const rootLongDescription = `Options lets an installer user pick boot and install options from a tree of
groups. Groups can be exclusive, locked, hidden or required; options can
carry free-text input. The chosen options are stored as one string for the
jobs that configure the installed system.

` + definitionsHelp

const showLongDescription = `Print the options tree with its default selection and the resulting
operation string.

` + definitionsHelp

const chooseLongDescription = `Pick options interactively. Space toggles, e edits an input, / jumps to a
matching node and enter accepts once the selection is ready. Without a
terminal the default selection is printed instead.

` + definitionsHelp

const applyLongDescription = `Check, uncheck and fill in options without a terminal and store the result.
With --dry-run the storage change is printed as a diff instead.

` + definitionsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Installer options chooser",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd returns a root command with its flags, without subcommands.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&requiredFlag, requiredFlagName, viper.GetBool(requiredKey), "block accepting until every required group is selected")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(requiredFlagName), requiredKey)

	cmd.PersistentFlags().StringArrayVarP(&selectFlags, selectFlagName, "g", viper.GetStringSlice(selectionsKey), "check the group with this name after loading (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(selectFlagName), selectionsKey)

	cmd.PersistentFlags().StringVarP(&storagePathFlag, storageFlagName, "s", viper.GetString(storagePathKey), "installer global storage file (empty keeps it in memory)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(storageFlagName), storagePathKey)

	cmd.PersistentFlags().StringVar(&storageKeyFlag, storageKeyFlagName, viper.GetString(storageKeyKey), "global storage key for the operation string")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(storageKeyFlagName), storageKeyKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// definitionPaths returns the files given on the command line, or the
// configured ones when there are none.
func definitionPaths(args []string) []m.Path {
	if len(args) > 0 {
		return parsePaths(args)
	}

	return parsePaths(viper.GetStringSlice(definitionsKey))
}

// loadArgs collects the settings every subcommand loads the tree with.
func loadArgs(args []string) (domain.LoadArgs, error) {
	rules, err := hiddenRules()
	if err != nil {
		return domain.LoadArgs{}, err
	}

	return domain.LoadArgs{
		Definitions: definitionPaths(args),
		Selections:  viper.GetStringSlice(selectionsKey),
		StoragePath: m.Path(viper.GetString(storagePathKey)),
		StorageKey:  viper.GetString(storageKeyKey),
		Required:    viper.GetBool(requiredKey),
		HiddenRules: rules,
	}, nil
}
