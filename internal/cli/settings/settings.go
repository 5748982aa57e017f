package settings

import (
	"context"
	"fmt"

	"github.com/julianstephens/cadence/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone        *string `help:"IANA timezone that decides what 'today' is, or 'Local'."`
	TopReasonsLimit *int    `help:"How many reasons the month view ranks."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:          %s\n", settings.Timezone)
		fmt.Printf("  Top Reasons Limit: %d\n", settings.TopReasonsLimit)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.TopReasonsLimit != nil {
		settings.TopReasonsLimit = *c.TopReasonsLimit
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Tracker.UpdateSettings(context.Background(), settings); err != nil {
		return err
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
