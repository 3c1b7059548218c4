package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hostwise/hostwise/internal/config"
	"github.com/hostwise/hostwise/internal/engine"
	"github.com/hostwise/hostwise/internal/logger"
	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/telemetry"
	"github.com/hostwise/hostwise/internal/tui"
)

type applyOptions struct {
	ConfigPath     string
	Verbose        bool
	NonInteractive bool
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a configuration set to this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))
			return runApply(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration set document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runApply(opts applyOptions) error {
	doc, err := config.ParseDocument(opts.ConfigPath)
	if err != nil {
		return err
	}

	set, err := doc.ConfigurationSet()
	if err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	registry, err := newProcessorRegistry(log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interactive := !opts.NonInteractive

	var program *tea.Program
	done := make(chan struct{})
	var programErr error

	if interactive {
		state := tui.NewModel(set, opts.NonInteractive)
		program = tea.NewProgram(state)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	progress := &applyProgress{log: log, program: program}
	processor := engine.NewApplyProcessor(set, registry, progress, telemetry.NewLoggingTelemetry(log), log)

	processErr := processor.Process(ctx)
	result := processor.Result()

	if interactive {
		program.Send(tui.DoneMsg{Err: processErr})
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		printResult(result)
	}

	if processErr != nil {
		return processErr
	}
	if !result.ResultCode.Succeeded() {
		return fmt.Errorf("configuration set was not applied: %s", result.ResultCode)
	}

	return nil
}

// applyProgress bridges engine progress events to the TUI or, when not
// interactive, to the structured log.
type applyProgress struct {
	log     *logger.Logger
	program *tea.Program
}

func (p *applyProgress) Progress(event model.ChangeEvent) {
	if p.program != nil {
		p.program.Send(tui.UnitEventMsg{Event: event})
		return
	}

	if !event.IsUnitEvent() {
		p.log.Info("configuration set " + string(event.SetState))
		return
	}

	p.log.Info("configuration unit "+string(event.UnitState),
		"unit", event.Unit.Identifier,
		"type", event.Unit.Type,
		"state", string(event.UnitState),
		"code", event.ResultInformation.Code.String())
}

func (p *applyProgress) Result(*model.ApplySetResult) {}

func printResult(result *model.ApplySetResult) {
	for _, unitResult := range result.UnitResults {
		name := unitResult.Unit.Identifier
		if name == "" {
			name = "(" + unitResult.Unit.Type + ")"
		}

		line := fmt.Sprintf("%-12s %-10s %s", string(unitResult.State), unitResult.ResultInformation.Code, name)
		if unitResult.PreviouslyInDesiredState {
			line += " (already in desired state)"
		}
		if unitResult.RebootRequired {
			line += " (reboot required)"
		}
		if unitResult.ResultInformation.Details != "" {
			line += " — " + unitResult.ResultInformation.Details
		}
		fmt.Fprintln(os.Stdout, line)
	}

	fmt.Fprintf(os.Stdout, "result: %s\n", result.ResultCode)
}
