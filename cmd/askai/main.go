package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aschepis/askai/askai"
	"github.com/aschepis/askai/config"
	"github.com/aschepis/askai/llm"
	asklogger "github.com/aschepis/askai/logger"
	"gopkg.in/yaml.v3"
)

// Exit codes per failure kind.
const (
	exitModelFailure      = 2
	exitAPIFailure        = 3
	exitUnexpectedFailure = 4
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		switch llm.Kind(err) {
		case llm.ErrorKindModel:
			os.Exit(exitModelFailure)
		case llm.ErrorKindAPI:
			os.Exit(exitAPIFailure)
		case llm.ErrorKindUnexpected:
			os.Exit(exitUnexpectedFailure)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", config.GetConfigPath(), "Path to the YAML settings file")
		envFile     = flag.String("env", config.DefaultEnvFile, "Path to a .env file with API keys")
		provider    = flag.String("provider", "", "Provider override: openai, anthropic or ollama")
		model       = flag.String("model", "", "Model override")
		maxTokens   = flag.Int64("max-tokens", 0, "Maximum answer tokens (0 uses the configured value)")
		system      = flag.String("system", "", "System prompt")
		historyFile = flag.String("history", "", "YAML or JSON file with earlier turns ([{input, output}, ...])")
		logFile     = flag.String("logfile", "", "Path to log file. If not set, logs to stderr")
		pretty      = flag.Bool("pretty", false, "Use pretty console output (only valid when logfile is not set)")
		status      = flag.Bool("status", false, "Report which providers have credentials and exit")
		initConfig  = flag.Bool("init-config", false, "Write the default settings file to -config and exit")
	)
	flag.Parse()

	if *logFile != "" && *pretty {
		return fmt.Errorf("--logfile and --pretty are mutually exclusive")
	}

	logger, err := asklogger.InitWithOptions(*logFile, *pretty)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if *initConfig {
		defaults := config.Defaults()
		if err := config.Save(&defaults, *configPath); err != nil {
			return err
		}
		logger.Info().Str("path", *configPath).Msg("Wrote default configuration")
		return nil
	}

	appConfig, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	credentials, err := config.LoadCredentials(*envFile)
	if err != nil {
		return err
	}

	if *status {
		registry := llm.NewProviderRegistry(appConfig.ProviderConfig(), credentials)
		for _, p := range llm.Providers {
			fmt.Printf("%-10s configured=%t\n", p, registry.IsProviderConfigured(p))
		}
		return nil
	}

	if *provider != "" {
		appConfig.Ask.Provider = *provider
	}
	if *model != "" {
		appConfig.Ask.Model = *model
	}
	if *maxTokens != 0 {
		appConfig.Ask.MaxTokens = *maxTokens
	}

	question, err := buildQuestion(flag.Args(), *system, *historyFile, os.Stdin)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timeout := appConfig.TimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	answer, err := askai.Ask(ctx, appConfig.LLMConfig(), question,
		askai.WithCredentials(credentials),
		askai.WithProviderConfig(appConfig.ProviderConfig()),
		askai.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

// buildQuestion takes the prompt from args, or stdin when there are none.
func buildQuestion(args []string, system, historyFile string, stdin io.Reader) (llm.Question, error) {
	q := llm.Question{NewPrompt: strings.Join(args, " ")}

	if q.NewPrompt == "" && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return q, fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		q.NewPrompt = strings.TrimSpace(string(data))
	}

	if system != "" {
		q.SystemPrompt = &system
	}

	if historyFile != "" {
		data, err := os.ReadFile(historyFile) //#nosec 304 -- intentional file read for history
		if err != nil {
			return q, fmt.Errorf("failed to read history %q: %w", historyFile, err)
		}
		if err := yaml.Unmarshal(data, &q.Messages); err != nil {
			return q, fmt.Errorf("failed to parse history %q: %w", historyFile, err)
		}
	}

	if q.NewPrompt == "" {
		return q, errors.New("no prompt given: pass it as arguments or on stdin")
	}

	return q, nil
}
