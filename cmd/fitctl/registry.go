package main

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/akkash/bizsearch-new-sub002/internal/app"
	apperrors "github.com/akkash/bizsearch-new-sub002/internal/common/errors"
	"github.com/akkash/bizsearch-new-sub002/internal/common/validation"
	"github.com/akkash/bizsearch-new-sub002/pkg/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the registry against the workers this build serves",
	Long: `Checks that the registry is well formed, that every activity ID follows
domain.subdomain.action, that every input schema compiles, that declared
error codes are ones the workers can throw, and that registered task types
and workers match one to one.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			path = cfg.App.RegistryPath
		}

		reg, err := registry.Load(path)
		if err != nil {
			return eris.Wrap(err, "load registry")
		}

		problems := checkRegistry(reg, app.WorkerTaskTypes())
		return reportRegistry(cmd.OutOrStdout(), reg, problems)
	},
}

func init() {
	registryValidateCmd.Flags().String("path", "", "registry JSON file (default: app.registry_path or the embedded registry)")
	registryCmd.AddCommand(registryValidateCmd)
	rootCmd.AddCommand(registryCmd)
}

// checkRegistry returns every problem found rather than stopping at the
// first one.
func checkRegistry(reg *registry.ActivityRegistry, workers []string) []string {
	var problems []string
	if err := reg.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	served := make(map[string]bool, len(workers))
	for _, w := range workers {
		served[w] = true
	}
	registered := make(map[string]bool, len(reg.Activities))
	thrown := make(map[string]bool, len(apperrors.BPMNErrorMapping))
	for _, code := range apperrors.BPMNErrorMapping {
		thrown[code] = true
	}

	for _, a := range reg.Activities {
		registered[a.TaskType] = true

		if err := validation.ValidateActivityNaming(a.ID); err != nil {
			problems = append(problems, err.Error())
		}
		if !served[a.TaskType] {
			problems = append(problems, fmt.Sprintf("task type %q has no worker", a.TaskType))
		}
		if len(a.InputSchema) == 0 {
			problems = append(problems, fmt.Sprintf("activity %s has no input schema", a.ID))
		} else if _, err := validation.CompileSchema(a.InputSchema); err != nil {
			problems = append(problems, fmt.Sprintf("activity %s input schema: %v", a.ID, err))
		}
		if _, err := a.TimeoutDuration(); err != nil {
			problems = append(problems, err.Error())
		}
		for _, code := range a.ErrorCodes {
			if !thrown[code] {
				problems = append(problems, fmt.Sprintf("activity %s declares unknown error code %s", a.ID, code))
			}
		}
	}

	for _, w := range workers {
		if !registered[w] {
			problems = append(problems, fmt.Sprintf("worker %q is not registered", w))
		}
	}
	return problems
}

func reportRegistry(out io.Writer, reg *registry.ActivityRegistry, problems []string) error {
	if len(problems) == 0 {
		fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(out, "- %s\n", p)
	}
	return eris.Errorf("registry validation failed with %d problems", len(problems))
}
