package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/modern-devops/stdargv/tools"
	"github.com/modern-devops/stdargv/tools/commander"
	"github.com/modern-devops/stdargv/tools/source"
	"github.com/modern-devops/stdargv/tools/vectors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const app = "stdargv"

var errVerifyFailed = errors.New("verification failed")

func main() {
	setFlags()
	handleError(commandRoot.Execute())
}

var cfg = newConfig()

var commandRoot = &cobra.Command{
	Use: app,
	Short: "Stdargv splits Windows command lines into arguments exactly as the C runtime does, " +
		"and composes command lines that split back into the given arguments.",
	Example:       `stdargv split '"C:\Program Files\a.exe" "b c" d\"e'`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.load(); err != nil {
			return err
		}
		cfg.override(cmd.Flags())
		setupLogger()
		return nil
	},
}

var subCommandSplit = &cobra.Command{
	Use:           "split [--wildcard] [--wide] [--lead-units ranges] [--format lines|json] <cmdline|->",
	Short:         "Split a raw command line into arguments",
	Example:       "Read the command line from stdin: `echo 'a.exe \"b c\"' | stdargv split -`",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := readCommandLine(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		out, err := split(line)
		if err != nil {
			return err
		}
		return printArgs(cmd.OutOrStdout(), out)
	},
}

var subCommandCount = &cobra.Command{
	Use:           "count [--wildcard] [--wide] [--lead-units ranges] <cmdline|->",
	Short:         "Count the argv slots and text units a command line needs, without splitting it",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := readCommandLine(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		numArgs, numChars, err := count(line)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", numArgs, numChars)
		return err
	},
}

var subCommandQuote = &cobra.Command{
	Use:                "quote <program> [args...]",
	Short:              "Compose a command line that splits back into the given arguments, flags after quote (even -v) are taken as arguments",
	Example:            "`stdargv quote a.exe 'b c' 'd\"e'` prints `a.exe \"b c\" d\\\"e`",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := commander.Join(args)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
		return err
	},
}

var subCommandVerify = &cobra.Command{
	Use:           "verify [file|url]",
	Short:         "Check the splitter against recorded command lines, the builtin ones by default",
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var vs []vectors.Vector
		var err error
		if len(args) == 0 {
			vs, err = vectors.Builtin()
		} else {
			log.Info().Msgf("Loading vectors from %s ...", args[0])
			vs, err = vectors.Load(args[0])
		}
		if err != nil {
			return err
		}
		report := vectors.Verify(vs, cmd.ErrOrStderr())
		for _, f := range report.Failures {
			log.Error().Str("cmdline", f.CommandLine).Strs("want", f.Args).Strs("got", f.Got).Msg("Mismatch")
		}
		if len(report.Failures) > 0 {
			return fmt.Errorf("%d/%d vectors failed: %w", len(report.Failures), report.Total, errVerifyFailed)
		}
		log.Info().Msgf("All %d vectors passed", report.Total)
		return nil
	},
}

var subCommandSelf = &cobra.Command{
	Use:           "self [args...]",
	Short:         "Show the raw command line of this process and how it splits",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := source.CommandLine()
		if err != nil {
			return err
		}
		log.Debug().Str("cmdline", line).Msg("Raw command line")
		out, err := split(line)
		if err != nil {
			return err
		}
		return printArgs(cmd.OutOrStdout(), out)
	},
}

func readCommandLine(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func split(line string) ([]string, error) {
	if cfg.Wide {
		lead, err := tools.LeadUnits[uint16](cfg.LeadUnits)
		if err != nil {
			return nil, err
		}
		return commander.SplitUTF16(line, commander.Options[uint16]{Wildcard: cfg.Wildcard, LeadUnit: lead}), nil
	}
	lead, err := tools.LeadUnits[byte](cfg.LeadUnits)
	if err != nil {
		return nil, err
	}
	return commander.Split(line, commander.Options[byte]{Wildcard: cfg.Wildcard, LeadUnit: lead}), nil
}

func count(line string) (int, int, error) {
	if cfg.Wide {
		lead, err := tools.LeadUnits[uint16](cfg.LeadUnits)
		if err != nil {
			return 0, 0, err
		}
		numArgs, numChars := commander.Count(utf16Units(line), commander.Options[uint16]{Wildcard: cfg.Wildcard, LeadUnit: lead})
		return numArgs, numChars, nil
	}
	lead, err := tools.LeadUnits[byte](cfg.LeadUnits)
	if err != nil {
		return 0, 0, err
	}
	numArgs, numChars := commander.Count([]byte(line), commander.Options[byte]{Wildcard: cfg.Wildcard, LeadUnit: lead})
	return numArgs, numChars, nil
}

func utf16Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func printArgs(w io.Writer, args []string) error {
	log.Debug().Int("args", len(args)).Msg("Split")
	switch cfg.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(args)
	case formatLines, "":
		for _, arg := range args {
			if _, err := fmt.Fprintln(w, arg); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s, allows %s,%s", cfg.Format, formatLines, formatJSON)
	}
}

func setupLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func handleError(err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, errVerifyFailed) {
		log.Error().Err(err).Msg("Failed")
	}
	os.Exit(1)
}

func setFlags() {
	commandRoot.AddCommand(subCommandSplit, subCommandCount, subCommandQuote, subCommandVerify, subCommandSelf)
	commandRoot.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log debug details to stderr")
	for _, c := range []*cobra.Command{subCommandSplit, subCommandCount, subCommandSelf} {
		c.Flags().Bool(flagWildcard, false, "Prefix every argument with its raw first unit, as the wildcard-expanding startup code does")
		c.Flags().Bool(flagWide, false, "Split UTF-16 units instead of bytes")
		c.Flags().String(flagLeadUnits, "", "Ranges of multibyte lead units, e.g. 0x81-0x9f,0xe0-0xfc for code page 932")
	}
	for _, c := range []*cobra.Command{subCommandSplit, subCommandSelf} {
		c.Flags().StringP(flagFormat, "f", "", "Output format: lines or json")
	}
}
