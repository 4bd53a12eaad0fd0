package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/eventease/campus-backend/config"
	"github.com/eventease/campus-backend/internal/calendar"
	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/utils"
)

func main() {
	cfg := config.Load()
	utils.NewLogger(cfg.LogLevel, "console")

	if err := newApp(cfg.Location()).Run(os.Args); err != nil {
		log.Error().Err(err).Msg("eventctl failed")
		os.Exit(1)
	}
}

func newApp(loc *time.Location) *cli.App {
	reg := event.NewRegistry(event.SeedEvents())
	return &cli.App{
		Name:  "eventctl",
		Usage: "Inspect the seeded campus event catalog offline.",
		Commands: []*cli.Command{
			listCommand(reg),
			linkCommand(reg, loc),
			icsCommand(reg, loc),
		},
	}
}

func listCommand(reg *event.Registry) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List events, optionally filtered.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "case-insensitive match on title or description"},
			&cli.StringFlag{Name: "category", Value: event.CategoryAll, Usage: "all, tech, cultural or sports"},
		},
		Action: func(c *cli.Context) error {
			category, err := event.ParseCategory(c.String("category"))
			if err != nil {
				return err
			}
			return writeTable(c.App.Writer, reg.Search("", c.String("search"), category))
		},
	}
}

func writeTable(out io.Writer, events []event.Event) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tDATE\tATTENDEES")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\n", e.ID, e.Title, e.Category, e.Date, e.Attendees, e.Capacity)
	}
	return tw.Flush()
}

func linkCommand(reg *event.Registry, loc *time.Location) *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Print the Google Calendar quick-add link for an event.",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("link expects exactly one event id")
			}
			e, err := reg.Get("", c.Args().First())
			if err != nil {
				return err
			}
			entry, err := calendar.FromEvent(e, loc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, calendar.BuildLink(entry))
			return err
		},
	}
}

func icsCommand(reg *event.Registry, loc *time.Location) *cli.Command {
	return &cli.Command{
		Name:      "ics",
		Usage:     "Write an iCalendar file for the given events, or all of them.",
		ArgsUsage: "[<id>...]",
		Action: func(c *cli.Context) error {
			var events []event.Event
			if c.NArg() == 0 {
				events = reg.List("")
			}
			for _, id := range c.Args().Slice() {
				e, err := reg.Get("", id)
				if err != nil {
					return err
				}
				events = append(events, e)
			}

			entries := make([]calendar.Entry, 0, len(events))
			for _, e := range events {
				entry, err := calendar.FromEvent(e, loc)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
			}
			return calendar.WriteICS(c.App.Writer, time.Now(), entries...)
		},
	}
}
