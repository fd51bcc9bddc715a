package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/output"
)

var domainCmd = &cobra.Command{
	Use:   "domain <domain>",
	Short: "Run the registration cascade for one domain",
	Long: `Resolve a single fully-qualified domain through RDAP, then WHOIS, then DNS,
stopping at the first conclusive answer.`,
	Example: "  namevetter domain acme.io",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := cliFormatter()
		if err != nil {
			return err
		}
		domain, err := core.NormalizeDomain(args[0])
		if err != nil {
			return err
		}
		stack, err := cliStack()
		if err != nil {
			return err
		}

		ctx, cancel := probeContext(cmd.Context(), stack)
		defer cancel()
		result := stack.Orchestrator.ResolveDomain(ctx, domain)

		rendered, err := formatter.FormatResult(output.Result{Kind: "domain", Domain: domain, ProbeResult: result})
		if err != nil {
			return err
		}
		return printOutput(cmd.OutOrStdout(), rendered)
	},
}

var socialCmd = &cobra.Command{
	Use:   "social <platform> <handle>",
	Short: "Probe one social platform for a handle",
	Long: `Fetch the public profile page for a handle on one platform and classify it.
Platform names are case-insensitive; run "namevetter platforms" for the list.`,
	Example: `  namevetter social github acme
  namevetter social twitter acme`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := cliFormatter()
		if err != nil {
			return err
		}
		stack, err := cliStack()
		if err != nil {
			return err
		}

		platform, ok := stack.Platforms.Lookup(args[0])
		if !ok {
			return core.NewInvalidInput("platform", fmt.Sprintf("Unknown platform: %s", args[0]))
		}
		handle := strings.ToLower(strings.TrimSpace(args[1]))
		if handle == "" {
			return core.NewInvalidInput("handle", "Handle is required")
		}

		ctx, cancel := probeContext(cmd.Context(), stack)
		defer cancel()
		result := stack.Orchestrator.ClassifyHandle(ctx, platform, handle)

		rendered, err := formatter.FormatResult(output.Result{Kind: "social", Platform: platform.Name, Handle: handle, ProbeResult: result})
		if err != nil {
			return err
		}
		return printOutput(cmd.OutOrStdout(), rendered)
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <name>",
	Short: "List registered domains close to a name",
	Long: `Search the domain index for registered names within a small edit distance of
the name's handle, closest first. Exact matches are excluded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := cliFormatter()
		if err != nil {
			return err
		}
		handle, err := core.NormalizeHandle(args[0])
		if err != nil {
			return err
		}
		stack, err := cliStack()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), stack.Orchestrator.Settings().SimilarTimeout)
		defer cancel()
		matches := stack.Orchestrator.FindSimilar(ctx, handle)

		rendered, err := formatter.FormatSimilar(handle, matches)
		if err != nil {
			return err
		}
		return printOutput(cmd.OutOrStdout(), rendered)
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the social platforms that are probed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := cliStack()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Platform", "Aliases", "Profile URL", "Rules"})
		for _, p := range stack.Platforms.Platforms() {
			t.AppendRow(table.Row{p.Name, strings.Join(p.Aliases, ", "), p.URLTemplate, len(p.Rules)})
		}
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d platforms", stack.Platforms.Len()), ""})
		return printOutput(cmd.OutOrStdout(), t.Render())
	},
}

func init() {
	rootCmd.AddCommand(domainCmd, socialCmd, similarCmd, platformsCmd)
}

// probeContext bounds a single-probe command by the configured task timeout.
func probeContext(ctx context.Context, stack *Stack) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, stack.Orchestrator.Settings().TaskTimeout)
}
