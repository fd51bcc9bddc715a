package cmd

import (
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/metrics"
	"github.com/namevetter/namevetter/internal/observability"
	"github.com/namevetter/namevetter/internal/output"
)

var checkCmd = &cobra.Command{
	Use:   "check <name>",
	Short: "Check name availability",
	Long: `Check a name across every configured domain extension and social platform,
and list registered domains within a small edit distance of it.

The name is reduced to a handle first: lowercase ASCII letters and digits only.`,
	Example: `  namevetter check "Acme Labs"
  namevetter check acme --extensions .com,.dev --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringSlice("extensions", nil, "Domain extensions to check (default from config)")
	checkCmd.Flags().Duration("task-timeout", 0, "Collection bound per domain or social probe")
	checkCmd.Flags().Bool("no-similar", false, "Skip the similar-domain search")

	_ = viper.BindPFlag("check.extensions", checkCmd.Flags().Lookup("extensions"))
	_ = viper.BindPFlag("check.task_timeout", checkCmd.Flags().Lookup("task-timeout"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatter, err := cliFormatter()
	if err != nil {
		return err
	}

	if noSimilar, _ := cmd.Flags().GetBool("no-similar"); noSimilar {
		viper.Set("similar.enabled", false)
	}

	stack, err := cliStack()
	if err != nil {
		return err
	}

	var progress *checkProgress
	if _, isTable := formatter.(*output.TableFormatter); isTable && !verbose {
		progress = newCheckProgress(os.Stderr, stack.Orchestrator, args[0])
	}

	startedAt := time.Now()
	report, err := stack.Orchestrator.Check(cmd.Context(), args[0])
	progress.Done()
	if err != nil {
		return err
	}
	logThroughput(len(report.Domains)+len(report.Social), startedAt)
	logCheckSummary(report)

	rendered, err := formatter.FormatReport(report)
	if err != nil {
		return err
	}
	return printOutput(cmd.OutOrStdout(), rendered)
}

// cliStack loads the configuration and builds the probe stack for a one-shot
// CLI command.
func cliStack() (*Stack, error) {
	cfg, err := loadConfig(observability.CLILogger)
	if err != nil {
		return nil, err
	}
	return BuildStack(cfg)
}

func cliFormatter() (output.Formatter, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	formatter := output.NewFormatter(format, !color.NoColor)
	if t, ok := formatter.(*output.TableFormatter); ok && isTerminal(os.Stdout) {
		t.Width = terminalWidth()
	}
	return formatter, nil
}

func printOutput(w io.Writer, rendered string) error {
	if rendered == "" {
		return nil
	}
	if rendered[len(rendered)-1] != '\n' {
		rendered += "\n"
	}
	_, err := io.WriteString(w, rendered)
	return err
}

func logCheckSummary(report *core.CheckReport) {
	tally := report.Tally()
	metrics.RecordCheck("cli",
		tally[core.VerdictTaken],
		tally[core.VerdictAvailable],
		tally[core.VerdictUnknown],
		time.Duration(report.Duration)*time.Millisecond)

	if observability.CLILogger == nil {
		return
	}
	observability.CLILogger.Debug("Name check completed",
		zap.String("check_id", report.ID),
		zap.String("handle", report.Handle),
		zap.Int("taken", tally[core.VerdictTaken]),
		zap.Int("available", tally[core.VerdictAvailable]),
		zap.Int("unknown", tally[core.VerdictUnknown]),
		zap.Int("similar", len(report.Similar)),
		zap.Int64("duration_ms", report.Duration))
}

func logThroughput(count int, startedAt time.Time) {
	if count <= 0 || observability.CLILogger == nil {
		return
	}
	elapsed := time.Since(startedAt)
	if elapsed <= 0 {
		return
	}
	rate := float64(count) / elapsed.Seconds()
	observability.CLILogger.Debug(
		"Check throughput",
		zap.Int("probes", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rate_per_sec", rate),
	)
}

