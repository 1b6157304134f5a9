package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dskvich/tgcast/pkg/broadcast"
	"github.com/dskvich/tgcast/pkg/domain"
	"github.com/dskvich/tgcast/pkg/input"
	"github.com/dskvich/tgcast/pkg/logger"
	"github.com/dskvich/tgcast/pkg/report"
	"github.com/dskvich/tgcast/pkg/telegram"
)

const defaultEnvFile = ".env"

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
	ChatIDsFile         string `env:"CHAT_IDS_FILE" envDefault:"chat_ids.txt"`
	MessageFile         string `env:"MESSAGE_FILE" envDefault:"message.txt"`
	TelegramAPIEndpoint string `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
	NoColor             string `env:"NO_COLOR"`
}

const helpTemplate = `{{.Long}}

Usage:
  {{.CommandPath}}         send the message file to every destination
  {{.CommandPath}} help    show this help

Environment:
  TELEGRAM_BOT_TOKEN     bot token (required)
  CHAT_IDS_FILE          destinations, one chat id or @username per line (default chat_ids.txt)
  MESSAGE_FILE           message body, sent with HTML parse mode (default message.txt)
  ENV_FILE               env file read before the environment (default .env)
  TELEGRAM_API_ENDPOINT  Bot API endpoint pattern, for a self-hosted Bot API server
  LOG_LEVEL              debug, info, warn or error (default info)
  NO_COLOR               disable colored output
`

var logLevel = new(slog.LevelVar)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &logger.Options{
		Level:       logLevel,
		TimeFormat:  logger.DefaultOptions.TimeFormat,
		ShortSource: true,
	})))

	if err := newRootCmd(environMap(os.Environ())).Execute(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
}

func newRootCmd(environ map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tgcast",
		Short: "Broadcast a message to Telegram chats",
		Long:  "tgcast sends the contents of MESSAGE_FILE to every chat listed in CHAT_IDS_FILE using a Telegram bot.",
		Args:  cobra.ArbitraryArgs,
		// help, --help and -h are matched case-insensitively below.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				switch command := strings.ToLower(args[0]); command {
				case "help", "--help", "-h":
					return cmd.Help()
				default:
					return fmt.Errorf("unknown command %q, run '%s help' for usage", command, cmd.CommandPath())
				}
			}
			return runMain(cmd.Context(), environ, cmd.OutOrStdout())
		},
	}
	cmd.SetHelpTemplate(helpTemplate)
	return cmd
}

func runMain(ctx context.Context, environ map[string]string, out io.Writer) error {
	cfg, err := loadConfig(environ)
	if err != nil {
		return err
	}

	logLevel.Set(logger.ParseLevel(cfg.LogLevel))
	if cfg.NoColor != "" {
		color.NoColor = true
	}

	console := report.NewConsole(out)

	console.ReadingDestinations(cfg.ChatIDsFile)
	destinations, err := input.ReadDestinations(cfg.ChatIDsFile)
	if err != nil {
		return fmt.Errorf("reading destinations: %w", err)
	}
	console.DestinationsFound(len(destinations))

	console.ReadingMessage(cfg.MessageFile)
	text, err := input.ReadMessage(cfg.MessageFile)
	if err != nil {
		return fmt.Errorf("reading message: %w", err)
	}

	sender := telegram.NewSender(cfg.TelegramBotToken, telegram.WithEndpoint(cfg.TelegramAPIEndpoint))
	summary := broadcast.New(sender, console).Run(ctx, destinations, text)
	console.Summary(summary)

	if err := summary.Err(); err != nil {
		return fmt.Errorf("%w to %d of %d destinations: %w", domain.ErrDeliveryFailed, summary.Failed, summary.Total, err)
	}
	return nil
}

// loadConfig parses environ on top of the optional env file. Variables already in environ win.
func loadConfig(environ map[string]string) (Config, error) {
	envFile := environ["ENV_FILE"]
	if envFile == "" {
		envFile = defaultEnvFile
	}

	fileEnv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: reading %s: %w", domain.ErrConfig, envFile, err)
	}

	merged := make(map[string]string, len(fileEnv)+len(environ))
	for k, v := range fileEnv {
		merged[k] = v
	}
	for k, v := range environ {
		merged[k] = v
	}

	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: merged}); err != nil {
		return Config{}, fmt.Errorf("%w: parsing env config: %w", domain.ErrConfig, err)
	}
	return cfg, nil
}

func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}
