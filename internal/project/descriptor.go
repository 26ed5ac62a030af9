package project

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
)

// ErrInvalidDescriptor is returned when a descriptor is not a JSON object or
// its Plugins field is not a list.
var ErrInvalidDescriptor = errors.New("invalid project descriptor")

// Plugin is one entry of the descriptor's Plugins list.
type Plugin struct {
	Name    string `json:"Name"`
	Enabled bool   `json:"Enabled"`
}

// Descriptor is a parsed project descriptor held as raw JSON.
type Descriptor struct {
	raw []byte
}

// prettyOptions matches the tab indentation the editor writes.
var prettyOptions = &pretty.Options{Width: 80, Indent: "\t"}

// Parse validates data and returns a Descriptor wrapping a private copy of it.
func Parse(data []byte) (*Descriptor, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, ErrInvalidDescriptor
	}
	if p := gjson.GetBytes(data, "Plugins"); p.Exists() && !p.IsArray() {
		return nil, fmt.Errorf("%w: Plugins is not a list", ErrInvalidDescriptor)
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Descriptor{raw: raw}, nil
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dberrors.WrapError(err, dberrors.CategoryProject, "failed to read project descriptor").
			Fatal().WithContext("path", path).Build()
	}
	d, err := Parse(data)
	if err != nil {
		return nil, dberrors.WrapError(err, dberrors.CategoryProject, "failed to parse project descriptor").
			Fatal().WithContext("path", path).Build()
	}
	return d, nil
}

// Bytes returns the current JSON document.
func (d *Descriptor) Bytes() []byte {
	return d.raw
}

// EngineAssociation returns the engine version the project is bound to.
func (d *Descriptor) EngineAssociation() string {
	return gjson.GetBytes(d.raw, "EngineAssociation").String()
}

// Plugins returns the Plugins list. A missing Enabled field reads as false.
func (d *Descriptor) Plugins() []Plugin {
	var plugins []Plugin
	gjson.GetBytes(d.raw, "Plugins").ForEach(func(_, v gjson.Result) bool {
		plugins = append(plugins, Plugin{Name: v.Get("Name").String(), Enabled: v.Get("Enabled").Bool()})
		return true
	})
	return plugins
}

// Plugin returns the first entry named name.
func (d *Descriptor) Plugin(name string) (Plugin, bool) {
	for _, p := range d.Plugins() {
		if p.Name == name {
			return p, true
		}
	}
	return Plugin{}, false
}

// DisabledPlugins returns the names of plugins explicitly listed with Enabled set to false.
func (d *Descriptor) DisabledPlugins() map[string]bool {
	disabled := make(map[string]bool)
	gjson.GetBytes(d.raw, "Plugins").ForEach(func(_, v gjson.Result) bool {
		if v.Get("Enabled").Type == gjson.False {
			disabled[v.Get("Name").String()] = true
		}
		return true
	})
	return disabled
}

// SetPluginEnabled sets the Enabled flag of the plugin called name, appending a
// new entry if the plugin is not listed. Duplicate entries for name are removed
// so the descriptor always ends up with exactly one record per plugin.
func (d *Descriptor) SetPluginEnabled(name string, enabled bool) error {
	plugins := gjson.GetBytes(d.raw, "Plugins")
	if !plugins.Exists() {
		raw, err := sjson.SetRawBytes(d.raw, "Plugins", []byte("[]"))
		if err != nil {
			return fmt.Errorf("add Plugins list: %w", err)
		}
		d.raw = raw
		plugins = gjson.GetBytes(d.raw, "Plugins")
	}

	var matches []int
	for i, p := range plugins.Array() {
		if p.Get("Name").String() == name {
			matches = append(matches, i)
		}
	}

	if len(matches) == 0 {
		entry, err := json.Marshal(Plugin{Name: name, Enabled: enabled})
		if err != nil {
			return err
		}
		raw, err := sjson.SetRawBytes(d.raw, "Plugins.-1", entry)
		if err != nil {
			return fmt.Errorf("append plugin %s: %w", name, err)
		}
		d.raw = raw
		return nil
	}

	raw, err := sjson.SetBytes(d.raw, "Plugins."+strconv.Itoa(matches[0])+".Enabled", enabled)
	if err != nil {
		return fmt.Errorf("set plugin %s: %w", name, err)
	}
	for j := len(matches) - 1; j > 0; j-- {
		raw, err = sjson.DeleteBytes(raw, "Plugins."+strconv.Itoa(matches[j]))
		if err != nil {
			return fmt.Errorf("remove duplicate plugin %s: %w", name, err)
		}
	}
	d.raw = raw
	return nil
}

// Save writes the descriptor to path using tab indentation.
func (d *Descriptor) Save(path string) error {
	if err := os.WriteFile(path, pretty.PrettyOptions(d.raw, prettyOptions), 0o644); err != nil {
		return dberrors.WrapError(err, dberrors.CategoryProject, "failed to write project descriptor").
			Fatal().WithContext("path", path).Build()
	}
	return nil
}
