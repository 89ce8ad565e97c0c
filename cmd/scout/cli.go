package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/scoutkit/scout"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Candidates scout.CandidateService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log operations to stderr"`

	Run    RunCmd    `cmd:"" help:"Fetch configured sources and store scored candidates"`
	List   ListCmd   `cmd:"" help:"List stored candidates, best first"`
	Search SearchCmd `cmd:"" help:"Full-text search across stored candidates"`
	Export ExportCmd `cmd:"" help:"Export candidates as CSV"`
	Status StatusCmd `cmd:"" help:"Advance a candidate through the outreach workflow"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Config      string `arg:"" help:"Path to the sources config file"`
	Concurrency int    `short:"c" default:"1" help:"Concurrent source fetch limit"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Source   []string `short:"s" help:"Filter by source ID (repeatable)"`
	Category []string `short:"C" help:"Filter by category (repeatable)"`
	Status   []string `help:"Filter by workflow status (repeatable)"`
	MinScore float64  `help:"Minimum overall score" default:"-1"`
	From     string   `help:"Earliest event date (YYYY-MM-DD)"`
	To       string   `help:"Latest event date (YYYY-MM-DD)"`
	Limit    int      `short:"n" default:"20" help:"Maximum rows"`
	Offset   int      `help:"Rows to skip"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Keywords []string `arg:"" help:"Search terms (any match)"`
	Limit    int      `short:"n" default:"20" help:"Maximum rows"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Out      string   `short:"o" help:"Output file (default: stdout)"`
	Source   []string `short:"s" help:"Filter by source ID (repeatable)"`
	Status   []string `help:"Filter by workflow status (repeatable)"`
	MinScore float64  `help:"Minimum overall score" default:"-1"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Key    string `arg:"" help:"Candidate natural key"`
	Status string `arg:"" help:"New status (applied, responded, scheduled, completed, rejected)"`
}
