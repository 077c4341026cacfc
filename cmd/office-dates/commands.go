package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/username/office-dates/internal/calendar"
	"github.com/username/office-dates/internal/client"
	"github.com/username/office-dates/internal/daemon"
	"github.com/username/office-dates/internal/server"
	"github.com/username/office-dates/internal/tools"
	"go.uber.org/zap"
)

// toolCaller runs a tool by name and returns its JSON result
type toolCaller interface {
	CallTool(ctx context.Context, name string, args any) (json.RawMessage, error)
	ListTools(ctx context.Context) ([]tools.Tool, error)
}

// localCaller answers queries from the dataset on disk
type localCaller struct {
	registry *tools.Registry
}

func (lc *localCaller) CallTool(ctx context.Context, name string, args any) (json.RawMessage, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	result, err := lc.registry.Call(ctx, name, raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func (lc *localCaller) ListTools(context.Context) ([]tools.Tool, error) {
	return lc.registry.List(), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve tool calls over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := loadCalendar()
			if err != nil {
				return err
			}
			registry, err := tools.NewRegistry(cal, logger)
			if err != nil {
				return err
			}

			handler := server.NewHandler(registry, cal, logger)
			d := daemon.NewDaemon(handler, daemon.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.GetReadTimeout(),
				WriteTimeout:    cfg.Server.GetWriteTimeout(),
				ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
			}, logger)

			return d.Start()
		},
	}
}

func datesCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "dates <month>",
		Short: "List office dates in a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := monthToolArgs(cmd, args[0], year)
			if err != nil {
				return err
			}
			return runTool(cmd, tools.OfficeDatesForMonth, toolArgs)
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default: current year)")
	return cmd
}

func nextCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the first office date after a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{}
			if from != "" {
				toolArgs["from_date"] = from
			}
			return runTool(cmd, tools.NextOfficeDate, toolArgs)
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Reference date YYYY-MM-DD (default: today)")
	return cmd
}

func lastCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "last <month>",
		Short: "Show the day of the month of the last office date in a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := monthToolArgs(cmd, args[0], year)
			if err != nil {
				return err
			}
			return runTool(cmd, tools.LastWorkingDay, toolArgs)
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default: current year)")
	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := newToolCaller()
			if err != nil {
				return err
			}
			list, err := caller.ListTools(cmd.Context())
			if err != nil {
				return err
			}
			printTools(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

// monthToolArgs builds month/year arguments; year is sent only when the flag was given
func monthToolArgs(cmd *cobra.Command, monthArg string, year int) (map[string]any, error) {
	month, err := strconv.Atoi(monthArg)
	if err != nil {
		return nil, fmt.Errorf("month must be a number, got %q", monthArg)
	}

	toolArgs := map[string]any{"month": month}
	if cmd.Flags().Changed("year") {
		toolArgs["year"] = year
	}
	return toolArgs, nil
}

func runTool(cmd *cobra.Command, name string, toolArgs map[string]any) error {
	caller, err := newToolCaller()
	if err != nil {
		return err
	}

	result, err := caller.CallTool(cmd.Context(), name, toolArgs)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result)
}

func newToolCaller() (toolCaller, error) {
	if cfg.Client.ServerURL != "" {
		return client.New(cfg.Client.ServerURL, cfg.Client.GetTimeout(), cfg.Client.Retries, logger), nil
	}

	cal, err := loadCalendar()
	if err != nil {
		return nil, err
	}
	registry, err := tools.NewRegistry(cal, logger)
	if err != nil {
		return nil, err
	}
	return &localCaller{registry: registry}, nil
}

func loadCalendar() (*calendar.OfficeCalendar, error) {
	loc, err := cfg.Calendar.GetLocation()
	if err != nil {
		return nil, err
	}

	dates, err := calendar.LoadOfficeDates(cfg.Calendar.File, logger)
	if err != nil {
		logger.Error("Failed to load office dates",
			zap.String("file", cfg.Calendar.File),
			zap.Error(err))
		return nil, err
	}

	return calendar.NewOfficeCalendar(dates, calendar.SystemClock, loc, logger)
}
