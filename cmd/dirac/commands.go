package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	outputPath   string
	noiseProb    float64
	skipChecksum bool

	rootCmd = &cobra.Command{
		Use:   "dirac",
		Short: "A cli for labeled tensor algebra over finite-dimensional Hilbert spaces",
		Long: `Dirac is a toolkit for quantum states, operators and channels
built on dense arrays whose axes are addressed by label.`,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show the Dirac version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Dirac %s\n", version)
		},
	}

	// --- Demos ---
	bellCmd = &cobra.Command{
		Use:   "bell",
		Short: "Build a Bell pair and print its correlations",
		Run:   runBell, // Defined in cmd_demo.go
	}

	teleportCmd = &cobra.Command{
		Use:   "teleport",
		Short: "Run the teleportation protocol on a random state",
		Run:   runTeleport, // Defined in cmd_demo.go
	}

	// --- Files ---
	inspectCmd = &cobra.Command{
		Use:   "inspect [file.dirac]",
		Short: "Print the header and array table of a .dirac file",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect, // Defined in cmd_inspect.go
	}
)

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(bellCmd)
	bellCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Save the Bell state to a .dirac file")

	rootCmd.AddCommand(teleportCmd)
	teleportCmd.Flags().Float64Var(&noiseProb, "noise", 0, "Depolarize the shared pair with this probability")

	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&skipChecksum, "skip-checksum", false, "Skip checksum validation (faster but less safe)")
}
