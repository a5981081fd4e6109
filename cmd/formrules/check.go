package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

// formDocument is the file read by the check command.
type formDocument struct {
	Fields []validator.Field `yaml:"fields"`
}

// check validates a YAML form document and prints one line per failing
// field. It exits with status 1 when the form is invalid.
func check(ctx context.Context, cfg appConfig, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	lang := fs.String("lang", cfg.DefaultLang, "message language")
	if err := fs.Parse(args); err != nil {
		return exitError(2)
	}
	if fs.NArg() != 1 {
		fmt.Fprint(stderr, usage)
		return exitError(2)
	}

	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	var doc formDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	tr, err := newTranslator(ctx, cfg, log)
	if err != nil {
		return err
	}

	verr := newRegistry(cfg).ValidateFields(doc.Fields...)
	errs := validator.ExtractValidationErrors(verr)
	if errs == nil {
		if verr != nil {
			return verr
		}
		fmt.Fprintln(stdout, "ok")
		return nil
	}

	resolved := tr.Match(*lang)
	errs = errs.Translate(func(key string, values map[string]any) string {
		if tmpl, ok := tr.Lookup(resolved, key); ok {
			return tr.Format(tmpl, values)
		}
		return ""
	})
	for _, e := range errs {
		msg := e.Message
		if msg == "" {
			msg = e.Rule
		}
		fmt.Fprintf(stdout, "%s: %s\n", e.Field, msg)
	}
	return exitError(1)
}
