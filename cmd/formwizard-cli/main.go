package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/submit"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	baseURL := flag.String("base-url", "", "form service base URL")
	timeout := flag.Duration("timeout", 0, "request timeout (e.g. 15s)")
	schemaSrc := flag.String("schema", "", "load the form from a file or URL instead of logging in")
	output := flag.String("output", "", "write the submission to this file (stdout if empty)")
	rollNumber := flag.String("roll-number", "", "roll number (prompted when empty)")
	name := flag.String("name", "", "student name (prompted when empty)")
	inline := flag.Bool("inline", false, "validate each answer as it is entered")
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		fileCfg, err := loadConfigFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if err := fileCfg.apply(&cfg); err != nil {
			log.Fatalf("Invalid config: %v", err)
		}
	}
	if *baseURL != "" {
		cfg.baseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.timeout = *timeout
	}
	if *schemaSrc != "" {
		cfg.schema = *schemaSrc
	}
	if *output != "" {
		cfg.output = *output
	}
	if *inline {
		cfg.inline = true
	}
	cfg.rollNumber = *rollNumber
	cfg.name = *name

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			log.Println("Aborted.")
			os.Exit(130)
		}
		log.Fatalf("formwizard: %v", err)
	}
}

func run(ctx context.Context, cfg config) error {
	runnerOpts := []tui.Option{tui.WithInlineValidation(cfg.inline)}
	if cfg.theme != nil {
		runnerOpts = append(runnerOpts, tui.WithTheme(*cfg.theme))
	}
	runner := tui.New(runnerOpts...)

	out, closeOut, err := openOutput(cfg.output)
	if err != nil {
		return err
	}
	defer closeOut()

	var (
		controller *wizard.Controller
		rollNumber = cfg.rollNumber
	)
	if cfg.schema != "" {
		controller, err = formwizard.LoadWizard(ctx, schema.ParseSource(cfg.schema),
			[]schema.LoaderOption{schema.WithHTTPFallback(cfg.timeout)},
		)
	} else {
		var s *session.Session
		s, err = login(ctx, cfg, runner)
		if s != nil {
			controller, rollNumber = s.Wizard, s.User.RollNumber
		}
	}
	if err != nil {
		return err
	}

	controller, err = withJSONSubmitter(controller, out, cfg.indent, rollNumber)
	if err != nil {
		return err
	}

	outcome, err := runner.Run(ctx, controller)
	if err != nil {
		return err
	}
	if cfg.output != "" {
		fmt.Printf("Submission %s written to %s\n", outcome.Receipt.ID, cfg.output)
	}
	return nil
}

func login(ctx context.Context, cfg config, runner *tui.Runner) (*session.Session, error) {
	user, errs := session.ValidateCredentials(client.User{RollNumber: cfg.rollNumber, Name: cfg.name})
	if len(errs) > 0 {
		prompted, err := runner.PromptLogin(ctx)
		if err != nil {
			return nil, err
		}
		user = prompted
	}

	svc := client.New(
		client.WithBaseURL(cfg.baseURL),
		client.WithTimeout(cfg.timeout),
		client.WithLogger(log.Default()),
	)

	start := time.Now()
	s, err := session.Login(ctx, svc, user)
	if err != nil {
		return nil, err
	}
	log.Printf("%s (%s)", s.Message, time.Since(start).Round(time.Millisecond))
	return s, nil
}

// withJSONSubmitter rebuilds c around a JSON submitter once the form id and
// roll number are known. c has not been edited yet, so nothing is lost.
func withJSONSubmitter(c *wizard.Controller, out io.Writer, indent, rollNumber string) (*wizard.Controller, error) {
	form := c.Schema()
	submitter, err := submit.NewJSON(out,
		submit.WithFormID(form.ID),
		submit.WithRollNumber(rollNumber),
		submit.WithIndent(indent),
	)
	if err != nil {
		return nil, err
	}
	return wizard.New(form, wizard.WithSubmitter(submitter))
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Printf("close output: %v", err)
		}
	}, nil
}
