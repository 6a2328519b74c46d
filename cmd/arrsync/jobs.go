package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [id]",
	Short: "List scan jobs or show one job",
	Long: `List the registered scan jobs with their schedule and progress.

Examples:
  arrsync jobs                      # List all jobs
  arrsync jobs plex-recent-scan     # Show one job
  arrsync jobs run sonarr-scan      # Start a job now
  arrsync jobs cancel sonarr-scan   # Cancel a running job`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobsCmd,
}

var jobsRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Start a job immediately",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsRunCmd,
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a running job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsCancelCmd,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsRunCmd)
	jobsCmd.AddCommand(jobsCancelCmd)
}

func runJobsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	if len(args) == 1 {
		job, err := client.Job(args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch job: %w", err)
		}
		if jsonOutput {
			printJSON(job)
			return nil
		}
		printJobDetail(job)
		return nil
	}

	resp, err := client.Jobs()
	if err != nil {
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printJobList(resp.Items)
	return nil
}

func runJobsRunCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	resp, err := client.RunJob(args[0])
	if err != nil {
		return fmt.Errorf("failed to start job: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Printf("%s: %s\n", resp.Job, resp.Message)
	return nil
}

func runJobsCancelCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	job, err := client.CancelJob(args[0])
	if err != nil {
		return fmt.Errorf("failed to cancel job: %w", err)
	}
	if jsonOutput {
		printJSON(job)
		return nil
	}
	fmt.Printf("%s: cancel requested\n", job.ID)
	return nil
}

func printJobList(items []JobResponse) {
	if len(items) == 0 {
		fmt.Println("No jobs registered")
		return
	}

	fmt.Printf("  %-22s %-18s %-9s %-12s %s\n", "ID", "SCHEDULE", "STATE", "PROGRESS", "LAST RUN")
	fmt.Println("  " + strings.Repeat("-", 78))
	for _, j := range items {
		fmt.Printf("  %-22s %-18s %-9s %-12s %s\n",
			j.ID, truncate(j.Schedule, 18), jobState(j), jobProgress(j.Status), formatTimeAgo(j.Status.LastFinished))
	}
}

func printJobDetail(j *JobResponse) {
	fmt.Printf("%s (%s)\n\n", j.Name, j.ID)
	fmt.Printf("  %-14s %s\n", "Schedule:", j.Schedule)
	fmt.Printf("  %-14s %s\n", "State:", jobState(*j))
	if !j.NextRun.IsZero() {
		fmt.Printf("  %-14s %s\n", "Next run:", j.NextRun.Local().Format("2006-01-02 15:04:05"))
	}
	if j.Status.Running {
		fmt.Printf("  %-14s %s\n", "Progress:", jobProgress(j.Status))
		if j.Status.CurrentSource != "" {
			fmt.Printf("  %-14s %s\n", "Source:", j.Status.CurrentSource)
		}
		fmt.Printf("  %-14s %s\n", "Started:", formatTimeAgo(j.Status.StartedAt))
	}
	if len(j.Status.Sources) > 0 {
		fmt.Printf("  %-14s %s\n", "Sources:", strings.Join(j.Status.Sources, ", "))
	}
	fmt.Printf("  %-14s %s\n", "Last run:", formatTimeAgo(j.Status.LastFinished))
	if j.Status.LastResult != "" {
		fmt.Printf("  %-14s %s\n", "Last result:", j.Status.LastResult)
	}
}

func jobState(j JobResponse) string {
	switch {
	case j.Status.Running:
		return "running"
	case !j.Enabled:
		return "disabled"
	default:
		return "idle"
	}
}

func jobProgress(s JobStatus) string {
	if !s.Running {
		return "-"
	}
	return fmt.Sprintf("%d/%d", s.Progress, s.Total)
}
