package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/service/report"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"
)

// Output holds report output configuration
type Output struct {
	Format string
	Path   string
	Locale string
}

// Flags returns CLI flags for Output configuration
func (o *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (json, yaml, text, xlsx)",
			Category:    "Output",
			Value:       report.FormatJSON.String(),
			Sources:     cli.EnvVars("GRADECALC_FORMAT"),
			Destination: &o.Format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file (default: stdout)",
			Category:    "Output",
			Sources:     cli.EnvVars("GRADECALC_OUTPUT"),
			Destination: &o.Path,
		},
		&cli.StringFlag{
			Name:        "locale",
			Usage:       "BCP 47 language tag for numbers in text output",
			Category:    "Output",
			Value:       "en",
			Sources:     cli.EnvVars("GRADECALC_LOCALE"),
			Destination: &o.Locale,
		},
	}
}

// Configure creates a report writer
func (o *Output) Configure() (*report.Writer, error) {
	tag, err := language.Parse(o.Locale)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid locale", goerr.V("locale", o.Locale))
	}

	return report.NewWriter(report.Format(o.Format), report.WithLocale(tag))
}

// Open returns the destination for the report. The caller must close it.
func (o *Output) Open() (io.WriteCloser, error) {
	if o.Path == "" || o.Path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.Create(o.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create output file", goerr.V("path", o.Path))
	}
	return f, nil
}

// LogValue returns structured log value
func (o Output) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("format", o.Format),
		slog.String("path", o.Path),
		slog.String("locale", o.Locale),
	)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
