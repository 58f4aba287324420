package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/artpar/themekit/domain/theme"
)

// Item kinds accepted in ItemSpec.Kind.
const (
	KindString = "string"
	KindInt    = "int"
	KindBool   = "bool"
	KindPixmap = "pixmap"
)

var validKinds = map[string]bool{
	KindString: true,
	KindInt:    true,
	KindBool:   true,
	KindPixmap: true,
}

// BuildThemes turns declared themes into theme sets. Pixmap items locate
// their files through finder. Themes whose items list alternates get an
// alternate-name fallback.
func BuildThemes(specs []ThemeSpec, finder theme.Finder) ([]*theme.Set, error) {
	sets := make([]*theme.Set, 0, len(specs))
	for _, spec := range specs {
		set := theme.NewSet(spec.Name)
		alts := map[string][]string{}

		for _, is := range spec.Items {
			item, err := buildItem(is, finder)
			if err != nil {
				return nil, fmt.Errorf("theme %s: %w", spec.Name, err)
			}
			set.Add(item)
			if len(is.AltNames) > 0 {
				alts[is.Name] = is.AltNames
			}
		}

		if len(alts) > 0 {
			set.WithFallback(theme.AltNames(alts))
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func buildItem(is ItemSpec, finder theme.Finder) (theme.Item, error) {
	switch is.Kind {
	case KindString, "":
		return theme.String(is.Name, is.Default), nil
	case KindInt:
		def := 0
		if is.Default != "" {
			n, err := strconv.Atoi(strings.TrimSpace(is.Default))
			if err != nil {
				return nil, fmt.Errorf("item %s: invalid int default %q", is.Name, is.Default)
			}
			def = n
		}
		return theme.Int(is.Name, def), nil
	case KindBool:
		def := false
		if is.Default != "" {
			b := theme.Bool(is.Name, false)
			if !b.SetFromString(is.Default) {
				return nil, fmt.Errorf("item %s: invalid bool default %q", is.Name, is.Default)
			}
			def = b.Get()
		}
		return theme.Bool(is.Name, def), nil
	case KindPixmap:
		return theme.NewPixmap(is.Name, is.Default, finder), nil
	}
	return nil, fmt.Errorf("item %s: unknown kind %q", is.Name, is.Kind)
}
