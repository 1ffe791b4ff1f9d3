package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/openlabtools/hidlink/internal/configpaths"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate a configuration template"`
}

// ConfigInit scaffolds a configuration file for a specific command.
type ConfigInit struct {
	Command string `arg:"" name:"command" help:"Command to generate config for" enum:"server,send"`
	Format  string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string `help:"Destination file path (defaults to current directory)"`
	Force   bool   `help:"Overwrite if the file already exists"`
}

// Run generates a configuration template from the command structs and
// their kong tags via reflection.
func (c *ConfigInit) Run() error {
	var root map[string]any
	switch c.Command {
	case "server":
		root = buildMapFromStruct(reflect.TypeOf(Server{}), "")
	case "send":
		root = buildMapFromStruct(reflect.TypeOf(Send{}), "")
	default:
		return errors.New("unknown command; expected 'server' or 'send'")
	}

	dest := c.Output
	if dest == "" {
		dest = c.Command + "." + normalizeExt(c.Format)
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch normalizeExt(c.Format) {
	case "json":
		data, err = json.MarshalIndent(root, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(root)
	case "toml":
		data, err = toml.Marshal(root)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	fmt.Println("wrote", dest)
	return nil
}

func normalizeExt(f string) string {
	switch strings.ToLower(f) {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// buildMapFromStruct turns a command struct into a nested map of flag
// names to their default values, honoring embed prefixes and skipping
// fields hidden from kong.
func buildMapFromStruct(t reflect.Type, prefix string) map[string]any {
	root := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Tag.Get("kong") == "-" || f.Tag.Get("arg") != "" {
			continue
		}

		if _, embedded := f.Tag.Lookup("embed"); embedded && f.Type.Kind() == reflect.Struct {
			sub := buildMapFromStruct(f.Type, "")
			p := strings.TrimSuffix(f.Tag.Get("prefix"), ".")
			if p == "" {
				for k, v := range sub {
					root[k] = v
				}
			} else {
				root[p] = sub
			}
			continue
		}

		name := f.Tag.Get("name")
		if name == "" {
			name = kebabCase(f.Name)
		}
		root[prefix+name] = defaultValue(f)
	}
	return root
}

func defaultValue(f reflect.StructField) any {
	def := f.Tag.Get("default")
	switch f.Type.Kind() {
	case reflect.Bool:
		v, _ := strconv.ParseBool(def)
		return v
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		v, _ := strconv.Atoi(def)
		return v
	case reflect.Int64:
		// time.Duration renders as its string form.
		if f.Type.String() == "time.Duration" {
			return def
		}
		v, _ := strconv.ParseInt(def, 10, 64)
		return v
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, _ := strconv.ParseUint(def, 10, 64)
		return v
	case reflect.Float32, reflect.Float64:
		v, _ := strconv.ParseFloat(def, 64)
		return v
	default:
		return def
	}
}

func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
