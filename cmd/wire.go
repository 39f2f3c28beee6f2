package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/elfplan/internal/config"
	"github.com/abhisek/elfplan/internal/identity"
	"github.com/abhisek/elfplan/internal/imagegen"
	"github.com/abhisek/elfplan/internal/journey"
	"github.com/abhisek/elfplan/internal/kv"
	"github.com/abhisek/elfplan/internal/llm"
	"github.com/abhisek/elfplan/internal/logger"
	"github.com/abhisek/elfplan/internal/mailer"
	"github.com/abhisek/elfplan/internal/payment"
	"github.com/abhisek/elfplan/internal/plangen"
	"github.com/abhisek/elfplan/internal/reminder"
	"github.com/abhisek/elfplan/internal/session"
)

// deps is the wired service graph shared by the commands.
type deps struct {
	cfg       config.Config
	log       zerolog.Logger
	store     kv.Store
	sessions  *session.Service
	reminders *reminder.Service
	journeys  *journey.Service
	payments  payment.FactSource
}

func (d *deps) close() {
	if d.store != nil {
		_ = d.store.Close()
	}
}

// buildDeps opens the store and wires the full service graph. The LLM
// provider comes from the environment; without one, plan generation and
// the hotline are unavailable and the affected commands fail up front.
func buildDeps(cmd *cobra.Command, serviceName string) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(serviceName)

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	store, err := kv.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	sessions := session.NewService(store, log)

	var gen *plangen.Service
	provider, err := llm.NewProviderFromEnv(cmd.Context(), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Plan generation and the hotline will be unavailable.")
	} else {
		gen = plangen.NewService(provider, plangen.DefaultConfig())
	}

	var images imagegen.Oracle
	if cfg.ImageAPIKey != "" {
		images, err = imagegen.NewOpenAIOracle(cfg.ImageAPIKey, cfg.ImageModel)
		if err != nil {
			return nil, fmt.Errorf("image oracle: %w", err)
		}
	}

	var sender mailer.Sender
	if cfg.MailBaseURL != "" {
		sender = mailer.NewHTTPSender(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom)
	} else {
		sender = &mailer.LogSender{Log: log}
	}

	var payments payment.FactSource = payment.Static{}
	if cfg.PayPalClientID != "" {
		payments = payment.NewPayPalSource(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalSecret)
	}

	reminders := reminder.NewService(store, sessions, images, sender, log)
	journeys := journey.NewService(sessions, gen, reminders, &identity.StoreResolver{Store: store}, sender, log)

	return &deps{
		cfg:       cfg,
		log:       log,
		store:     store,
		sessions:  sessions,
		reminders: reminders,
		journeys:  journeys,
		payments:  payments,
	}, nil
}
