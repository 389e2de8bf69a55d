package commands

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/foodscan/internal/app"
	configapp "github.com/doeshing/foodscan/internal/application/config"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/foodscan/internal/infrastructure/config"
)

// NewConfigCommand creates the config command. Without a subcommand it
// prints the effective configuration.
func NewConfigCommand(container *app.Container) *cobra.Command {
	cc := &configCommands{container: container}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change ~/.foodscan/config.yaml",
		Args:  cobra.NoArgs,
		RunE:  cc.show,
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one value by dotted key (e.g. lookup.timeout)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  cc.get,
	}
	getCmd.Flags().String("key", "", "Dotted key, instead of the positional argument")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace the file with the built-in defaults",
		Args:  cobra.NoArgs,
		RunE:  cc.reset,
	}
	resetCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	configCmd.AddCommand(
		&cobra.Command{Use: "show", Short: "Print the effective configuration", Args: cobra.NoArgs, RunE: cc.show},
		&cobra.Command{Use: "path", Short: "Print the configuration file location", Args: cobra.NoArgs, RunE: cc.path},
		getCmd,
		&cobra.Command{Use: "set <key> <value>", Short: "Change one value (YAML syntax)", Args: cobra.MinimumNArgs(2), RunE: cc.set},
		&cobra.Command{Use: "edit", Short: "Open the file in $EDITOR and validate the result", Args: cobra.NoArgs, RunE: cc.edit},
		&cobra.Command{Use: "validate", Short: "Check the file against the config rules", Args: cobra.NoArgs, RunE: cc.validate},
		resetCmd,
		&cobra.Command{Use: "diff", Short: "List values that differ from the defaults", Args: cobra.NoArgs, RunE: cc.diff},
	)

	return configCmd
}

type configCommands struct {
	container *app.Container
}

func (cc *configCommands) load(cmd *cobra.Command) (domain.Config, error) {
	if cc.container.ConfigProvider == nil {
		return domain.Config{}, fmt.Errorf(ErrConfigLoaderUnavailable)
	}
	cfg, err := cc.container.ConfigProvider.Load(cmd.Context())
	if err != nil {
		return domain.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func (cc *configCommands) show(cmd *cobra.Command, _ []string) error {
	cfg, err := cc.load(cmd)
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), cfg)
}

func (cc *configCommands) path(cmd *cobra.Command, _ []string) error {
	loader, err := helpers.GetConfigLoader(cc.container)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
	return nil
}

func (cc *configCommands) get(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	if len(args) == 1 {
		key = args[0]
	}
	if key == "" {
		return fmt.Errorf(ErrKeyRequired)
	}

	cfg, err := cc.load(cmd)
	if err != nil {
		return err
	}
	value, err := lookupKey(cfg, key)
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), value)
}

func (cc *configCommands) set(cmd *cobra.Command, args []string) error {
	key, raw := args[0], strings.Join(args[1:], " ")

	cfg, err := cc.load(cmd)
	if err != nil {
		return err
	}
	tree, err := helpers.ConfigToMap(cfg)
	if err != nil {
		return err
	}
	keys := strings.Split(key, ".")
	previous, found := helpers.TraverseNestedMap(tree, keys)
	if !found {
		return fmt.Errorf("unknown config key %s", key)
	}
	value := helpers.ParseYAMLValue(raw)
	helpers.SetNestedMapValue(tree, keys, value)

	updated, err := helpers.MapToConfig(tree)
	if err != nil {
		return err
	}
	if err := helpers.SaveConfigWithValidation(cc.container, updated); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %v -> %v\n", key, previous, value)
	return nil
}

func (cc *configCommands) edit(cmd *cobra.Command, _ []string) error {
	loader, err := helpers.GetConfigLoader(cc.container)
	if err != nil {
		return err
	}
	if _, err := loader.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	editor := os.Getenv(envKeyEditor)
	if editor == "" {
		editor = DefaultEditorCommand
	}
	run := exec.CommandContext(cmd.Context(), editor, loader.Path())
	run.Stdin, run.Stdout, run.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := run.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", editor, err)
	}
	return cc.validate(cmd, nil)
}

func (cc *configCommands) validate(cmd *cobra.Command, _ []string) error {
	cfg, err := cc.load(cmd)
	if err != nil {
		return err
	}
	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	msg := MsgConfigurationValid
	if loader := cc.container.ConfigLoader; loader != nil {
		msg += ": " + loader.Path()
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func (cc *configCommands) reset(cmd *cobra.Command, _ []string) error {
	loader, err := helpers.GetConfigLoader(cc.container)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	yes, _ := cmd.Flags().GetBool("yes")
	if prompter := cc.container.Prompter; !yes && prompter != nil && prompter.Enabled() {
		ok, err := prompter.Confirm("Replace " + loader.Path() + " with the defaults?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, MsgResetCancelled)
			return nil
		}
	}

	if _, err := os.Stat(loader.Path()); err == nil {
		backup, err := loader.Backup()
		if err != nil {
			return fmt.Errorf("back up configuration: %w", err)
		}
		fmt.Fprintf(out, "Previous configuration saved to %s\n", backup)
	}
	defaults, err := loader.Reset()
	if err != nil {
		return fmt.Errorf("reset configuration: %w", err)
	}
	fmt.Fprintf(out, "Configuration reset at %s\n", loader.Path())
	return writeYAML(out, defaults)
}

func (cc *configCommands) diff(cmd *cobra.Command, _ []string) error {
	current, err := cc.load(cmd)
	if err != nil {
		return err
	}
	loader, err := helpers.GetConfigLoader(cc.container)
	if err != nil {
		return err
	}

	changes := diffConfig(loader.Hydrate(configinfra.DefaultConfig()), current)
	out := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}
	for _, c := range changes {
		fmt.Fprintf(out, "%s: %v -> %v\n", c.Key, c.Default, c.Current)
	}
	return nil
}

// lookupKey resolves a dotted YAML key against cfg.
func lookupKey(cfg domain.Config, key string) (interface{}, error) {
	tree, err := helpers.ConfigToMap(cfg)
	if err != nil {
		return nil, err
	}
	value, found := helpers.TraverseNestedMap(tree, strings.Split(key, "."))
	if !found {
		return nil, fmt.Errorf("unknown config key %s", key)
	}
	return value, nil
}

func writeYAML(out io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// configChange is one leaf that differs from the defaults, keyed the way
// config.yaml spells it.
type configChange struct {
	Key     string
	Default interface{}
	Current interface{}
}

func diffConfig(defaults, current domain.Config) []configChange {
	var r changeReporter
	cmp.Equal(defaults, current, cmp.Reporter(&r))
	return r.changes
}

// changeReporter collects unequal leaves while cmp walks the config.
type changeReporter struct {
	path    cmp.Path
	changes []configChange
}

func (r *changeReporter) PushStep(ps cmp.PathStep) {
	r.path = append(r.path, ps)
}

func (r *changeReporter) PopStep() {
	r.path = r.path[:len(r.path)-1]
}

func (r *changeReporter) Report(rs cmp.Result) {
	if rs.Equal() {
		return
	}
	from, to := r.path.Last().Values()
	change := configChange{Key: yamlKey(r.path)}
	if from.IsValid() {
		change.Default = from.Interface()
	}
	if to.IsValid() {
		change.Current = to.Interface()
	}
	r.changes = append(r.changes, change)
}

// yamlKey joins the yaml tag names along path, e.g. "history.max_items".
func yamlKey(path cmp.Path) string {
	var keys []string
	for i, step := range path {
		field, ok := step.(cmp.StructField)
		if !ok || i == 0 {
			continue
		}
		name := strings.ToLower(field.Name())
		if parent := path[i-1].Type(); parent.Kind() == reflect.Struct {
			if sf, found := parent.FieldByName(field.Name()); found {
				if tag, _, _ := strings.Cut(sf.Tag.Get("yaml"), ","); tag != "" && tag != "-" {
					name = tag
				}
			}
		}
		keys = append(keys, name)
	}
	return strings.Join(keys, ".")
}
