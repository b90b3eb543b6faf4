package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type settingsOptions struct {
	showRating bool
	showTags   bool
	showSolved bool
	darkMode   bool

	changed map[string]bool
}

func bindSettingsFlags(cmd *cobra.Command, o *settingsOptions) {
	f := cmd.Flags()
	f.BoolVar(&o.showRating, "show-rating", true, "show the rating column")
	f.BoolVar(&o.showTags, "show-tags", true, "show the tags column")
	f.BoolVar(&o.showSolved, "show-solved", true, "include problems marked solved")
	f.BoolVar(&o.darkMode, "dark-mode", false, "use the dark palette")
}

func (o *settingsOptions) resolve(cmd *cobra.Command) {
	o.changed = make(map[string]bool)
	for _, name := range []string{"show-rating", "show-tags", "show-solved", "dark-mode"} {
		o.changed[name] = cmd.Flags().Changed(name)
	}
}

// runSettings сохраняет только явно переданные флаги и печатает итог
func (c *Cli) runSettings(ctx context.Context, o *settingsOptions) error {
	v := c.prefs.Visibility(ctx)
	visibilityChanged := false
	if o.changed["show-rating"] {
		v.ShowRating = o.showRating
		visibilityChanged = true
	}
	if o.changed["show-tags"] {
		v.ShowTags = o.showTags
		visibilityChanged = true
	}
	if o.changed["show-solved"] {
		v.ShowSolved = o.showSolved
		visibilityChanged = true
	}
	if visibilityChanged {
		c.prefs.SetVisibility(ctx, v)
	}
	if o.changed["dark-mode"] {
		c.prefs.SetDarkMode(ctx, o.darkMode)
	}

	return c.runStatus(ctx)
}
