package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/yourusername/reserved/middleware"
	"github.com/yourusername/reserved/services"
)

func writeJSON(rt *runtimeState, v any) error {
	enc := json.NewEncoder(rt.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check NAME...",
		Short: "Report whether names are reserved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			results, err := reg.CheckMultiple(args)
			if err != nil {
				return err
			}
			for _, r := range results {
				status := "available"
				if r.IsReserved {
					status = "reserved"
				}
				fmt.Fprintf(rt.writer, "%s\t%s\n", r.Name, status)
			}
			return nil
		},
	}
}

func newSuggestCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "suggest NAME",
		Short: "Suggest free alternatives for a reserved name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			for _, s := range reg.SuggestAlternatives(args[0], count) {
				fmt.Fprintln(rt.writer, s)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of suggestions")
	return cmd
}

func newValidateCommand() *cobra.Command {
	var (
		minLen, maxLen int
		chars          string
		forbid         []string
	)
	cmd := &cobra.Command{
		Use:   "validate NAME",
		Short: "Validate a username against the reserved list and rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			rules := rt.cfg.Validation
			if cmd.Flags().Changed("min") {
				rules.MinLength = &minLen
			}
			if cmd.Flags().Changed("max") {
				rules.MaxLength = &maxLen
			}
			if cmd.Flags().Changed("chars") {
				rules.AllowedChars = chars
			}
			if cmd.Flags().Changed("forbid") {
				rules.ForbiddenPatterns = forbid
			}
			if err := services.ValidateRules(rules); err != nil {
				return err
			}
			res := reg.ValidateUsername(args[0], rules)
			if res.IsValid {
				fmt.Fprintf(rt.writer, "%s: valid\n", res.Name)
				return nil
			}
			for _, e := range res.Errors {
				fmt.Fprintf(rt.writer, "%s: %s\n", res.Name, e)
			}
			return fmt.Errorf("username %q is invalid", res.Name)
		},
	}
	cmd.Flags().IntVar(&minLen, "min", 0, "Minimum length")
	cmd.Flags().IntVar(&maxLen, "max", 0, "Maximum length")
	cmd.Flags().StringVar(&chars, "chars", "", "Allowed character class, e.g. a-z0-9_")
	cmd.Flags().StringSliceVar(&forbid, "forbid", nil, "Forbidden patterns (repeatable)")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print statistics about the reserved list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			return writeJSON(rt, reg.GetStats())
		},
	}
}

func newListCommand() *cobra.Command {
	var pattern, prefix, suffix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reserved names, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			var names []string
			switch {
			case pattern != "":
				names = reg.GetByPattern(pattern)
			case prefix != "":
				names = reg.GetByPrefix(prefix)
			case suffix != "":
				names = reg.GetBySuffix(suffix)
			default:
				names = reg.GetAll()
			}
			for _, n := range names {
				fmt.Fprintln(rt.writer, n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Regular expression filter")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix filter")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Suffix filter")
	cmd.MarkFlagsMutuallyExclusive("pattern", "prefix", "suffix")
	return cmd
}

func newExportCommand() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the reserved list (json, csv, txt, array)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			out, err := reg.Export(services.Format(format))
			if err != nil {
				return err
			}
			var text string
			switch v := out.(type) {
			case string:
				text = v
			case []string:
				text = strings.Join(v, "\n")
			}
			if output != "" {
				return os.WriteFile(output, []byte(text+"\n"), 0o644)
			}
			fmt.Fprintln(rt.writer, text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newImportCommand() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge names from a json, csv or txt file into the list for this run",
		Long: `Merge names from a json, csv or txt file and print the resulting list size.

The merge only lives for this process; the cache keeps the remote list.
Use --output to write the merged list, in the input format, to a file that
can be served as a mirror or imported again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime(cmd)
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(args[0]), ".")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			n, err := reg.Import(data, services.Format(format))
			if err != nil {
				return err
			}
			if output != "" {
				out, err := reg.Export(services.Format(format))
				if err != nil {
					return err
				}
				text, _ := out.(string)
				if err := os.WriteFile(output, []byte(text+"\n"), 0o644); err != nil {
					return err
				}
			}
			fmt.Fprintf(rt.writer, "imported %d names, %d reserved in total\n", n, reg.Count())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format (defaults to the file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the merged list to this file")
	return cmd
}

func newRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the remote list and rewrite the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			count, err := reg.ForceUpdate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "refreshed: %d reserved names\n", count)
			return nil
		},
	}
}

func newClearCacheCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Delete the cached reserved list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			if reg.ClearCache(cmd.Context()) {
				fmt.Fprintln(rt.writer, "cache cleared")
			} else {
				fmt.Fprintln(rt.writer, "no cache to clear")
			}
			return nil
		},
	}
}

func newTokenCommand() *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token for the /api/admin routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			tok, err := middleware.GenerateToken(uuid.New(), name, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.writer, tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "operator", "Operator name recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
