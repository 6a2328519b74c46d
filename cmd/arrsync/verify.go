package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check connectivity to every configured source",
	RunE:  runVerifyCmd,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerifyCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	result, err := client.Verify()
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	printVerifyResult(result)
	if result.Passed < result.Checked {
		return fmt.Errorf("%d of %d checks failed", result.Checked-result.Passed, result.Checked)
	}
	return nil
}

func printVerifyResult(r *VerifyResponse) {
	fmt.Printf("Checking %d connections...\n\n", r.Checked)
	for _, c := range r.Connections {
		status := "ok"
		if !c.OK {
			status = "FAIL " + c.Error
		}
		fmt.Printf("  %-24s %-8s %s\n", c.Name+":", c.Latency, status)
	}
	fmt.Printf("\n%d/%d passed\n", r.Passed, r.Checked)
}
