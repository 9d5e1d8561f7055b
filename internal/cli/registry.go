// internal/cli/registry.go
package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"capital-match/pkg/registry"
)

func newRegistryCmd(e *env) *cobra.Command {
	var path string

	load := func() (*registry.ActivityRegistry, error) {
		if path == "" {
			return registry.Default(), nil
		}
		reg, err := registry.LoadRegistry(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load registry: %w", err)
		}
		return reg, nil
	}

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the workflow activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "registry file (default: the embedded registry)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check ids, task types, timeouts and JSON schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := load()
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed (%d activities).\n", len(reg.Activities))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if e.opts.OutputFormat == OutputJSON {
				return e.printJSON(out, reg)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TASK TYPE\tCATEGORY\tSTATUS\tTIMEOUT\tRETRIES")
			for _, a := range reg.Activities {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout, a.Retries)
			}
			return tw.Flush()
		},
	}

	var exportTo string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the embedded registry to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := registry.Save(registry.Default(), exportTo); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportTo)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportTo, "to", "configs/activity-registry.json", "destination file")

	var id, status string
	statusCmd := &cobra.Command{
		Use:   "set-status",
		Short: "Update an activity's implementation status in a registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--path is required; the embedded registry is read-only")
			}
			reg, err := load()
			if err != nil {
				return err
			}
			found := false
			for i := range reg.Activities {
				if reg.Activities[i].ID == id {
					reg.Activities[i].ImplementationStatus = status
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("activity with ID %s not found", id)
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
			if err := registry.Save(reg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, status %s\n", id, status)
			return nil
		},
	}
	statusCmd.Flags().StringVar(&id, "id", "", "activity id (required)")
	statusCmd.Flags().StringVar(&status, "status", "", "planned, in-progress, completed or verified (required)")
	_ = statusCmd.MarkFlagRequired("id")
	_ = statusCmd.MarkFlagRequired("status")

	cmd.AddCommand(validateCmd, listCmd, exportCmd, statusCmd)
	return cmd
}
