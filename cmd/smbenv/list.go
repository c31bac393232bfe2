package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nesrl/smbenv/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered environments",
	Long:  `Shows every environment ID in the registry with its configuration.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	envs := registry.List()

	if len(envs) == 0 {
		fmt.Println("No environments registered.")
		return
	}

	fmt.Println("Registered environments:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, spec := range envs {
		if len(spec.ID) > maxIDLen {
			maxIDLen = len(spec.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "ID", "Mode", "Stages")
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "--", "----", "------")

	for _, spec := range envs {
		fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, spec.ID, spec.Mode, describeStages(spec))
	}

	fmt.Println()
	fmt.Println("Run 'smbenv play <id>' to run an environment.")
}

func describeStages(spec registry.Spec) string {
	switch {
	case spec.Target != nil:
		return fmt.Sprintf("%d-%d", spec.Target.World, spec.Target.Stage)
	case spec.RandomStages:
		return "random"
	default:
		return "full game"
	}
}
