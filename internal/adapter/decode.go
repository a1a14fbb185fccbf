package adapter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// ErrInvalidDefinitions is returned when a document is neither a list of
// groups nor a map holding a "groups" list.
var ErrInvalidDefinitions = errors.New("definitions must be a list of groups or a map with a groups list")

const (
	keyGroups    = "groups"
	keyOptions   = "options"
	keySubgroups = "subgroups"
)

// DecodeDefinitions turns a generic YAML document into group definitions.
func DecodeDefinitions(doc any) ([]m.GroupDefinition, error) {
	switch v := normalize(doc).(type) {
	case nil:
		return nil, nil
	case []any:
		return decodeGroups(v)
	case map[string]any:
		raw, ok := v[keyGroups]
		if !ok {
			return nil, ErrInvalidDefinitions
		}

		list, ok := raw.([]any)
		if !ok {
			if raw == nil {
				return nil, nil
			}

			return nil, fmt.Errorf("%w: groups is %T", ErrInvalidDefinitions, raw)
		}

		return decodeGroups(list)
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDefinitions, v)
	}
}

func decodeGroups(list []any) ([]m.GroupDefinition, error) {
	groups := make([]m.GroupDefinition, 0, len(list))

	for i, entry := range list {
		raw, ok := entry.(map[string]any)
		if !ok {
			slog.Warn("skipping group entry that is not a map", "index", i, "type", fmt.Sprintf("%T", entry))
			continue
		}

		group, err := decodeGroup(raw)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}

		groups = append(groups, group)
	}

	return groups, nil
}

func decodeGroup(raw map[string]any) (m.GroupDefinition, error) {
	var group m.GroupDefinition

	if err := weakDecode(raw, &group); err != nil {
		return group, err
	}

	if value, ok := raw[keyOptions]; ok {
		options, err := decodeOptions(value)
		if err != nil {
			return group, fmt.Errorf("%s: %w", group.Name, err)
		}

		group.Options = options
	}

	if value, ok := raw[keySubgroups]; ok {
		list, isList := value.([]any)
		if !isList {
			group.SubgroupsInvalid = true
			return group, nil
		}

		subgroups, err := decodeGroups(list)
		if err != nil {
			return group, fmt.Errorf("%s: %w", group.Name, err)
		}

		group.Subgroups = subgroups
	}

	return group, nil
}

// decodeOptions accepts bare identifiers and descriptor maps. A value that
// is not a list yields an empty, present options list.
func decodeOptions(value any) ([]m.OptionDefinition, error) {
	list, ok := value.([]any)
	if !ok {
		return []m.OptionDefinition{}, nil
	}

	options := make([]m.OptionDefinition, 0, len(list))

	for i, entry := range list {
		switch v := entry.(type) {
		case nil:
			continue
		case map[string]any:
			var opt m.OptionDefinition
			if err := weakDecode(v, &opt); err != nil {
				return nil, fmt.Errorf("option %d: %w", i, err)
			}

			options = append(options, opt)
		case []any:
			slog.Warn("skipping option entry that is a list", "index", i)
		default:
			options = append(options, m.OptionDefinition{Name: fmt.Sprint(v), Bare: true})
		}
	}

	return options, nil
}

func weakDecode(input map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// normalize converts map[any]any values, as produced by some YAML
// decoders, into map[string]any recursively.
func normalize(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalize(item)
		}

		return out
	case map[string]any:
		for key, item := range v {
			v[key] = normalize(item)
		}

		return v
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}

		return v
	default:
		return v
	}
}
