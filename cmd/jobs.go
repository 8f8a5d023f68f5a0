package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alxtravel/travel-booking/internal/core/jobs"
	"github.com/alxtravel/travel-booking/pkg/logger"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and enqueue background jobs",
	Long: `Inspect and enqueue background email jobs. The job store is locked by a
running server, so stop it first.`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending jobs, or exhausted ones with --dead",
	RunE:  runJobsList,
}

var jobsEnqueueCmd = &cobra.Command{
	Use:   "enqueue <name> <args-json>",
	Short: "Persist a job for the server to run",
	Example: `  travel-booking jobs enqueue send_payment_confirmation_email \
    '{"email":"guest@example.com","booking_id":"9b2f..."}'`,
	Args: cobra.ExactArgs(2),
	RunE: runJobsEnqueue,
}

var listDead bool

func openJobStore() (*jobs.BoltStore, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return jobs.OpenBoltStore(cfg.Jobs.BoltPath)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	store, err := openJobStore()
	if err != nil {
		return err
	}
	defer store.Close()

	list := store.Pending
	if listDead {
		list = store.Dead
	}
	items, err := list()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tATTEMPTS\tENQUEUED\tLAST ERROR")
	for _, job := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			job.ID, job.Name, job.Attempts, job.EnqueuedAt.Format(time.RFC3339), job.LastError)
	}
	return w.Flush()
}

func runJobsEnqueue(cmd *cobra.Command, args []string) error {
	name, raw := args[0], []byte(args[1])
	if !json.Valid(raw) {
		return errors.New("args must be valid JSON")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := jobs.OpenBoltStore(cfg.Jobs.BoltPath)
	if err != nil {
		return err
	}
	defer store.Close()

	// The runner is never started here; it only validates the job name and
	// persists the job for the server's next sweep.
	runner := newJobRunner(cfg, store, logger.LoggerWrapper())
	job, err := runner.Enqueue(context.Background(), name, json.RawMessage(raw))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), job.ID)
	return nil
}

func init() {
	jobsListCmd.Flags().BoolVar(&listDead, "dead", false, "list jobs that exhausted their attempts")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsEnqueueCmd)
}
