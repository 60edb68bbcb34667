// Command edubot runs the educational assistant as an interactive chat.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/edubot/agent"
	"github.com/sweetpotato0/edubot/assistant"
	"github.com/sweetpotato0/edubot/config"
	"github.com/sweetpotato0/edubot/knowledge"
	"github.com/sweetpotato0/edubot/pkg/logging"
	"github.com/sweetpotato0/edubot/pkg/telemetry"
	"github.com/sweetpotato0/edubot/pkg/tokenizer"
	"github.com/sweetpotato0/edubot/provider/claude"
	"github.com/sweetpotato0/edubot/provider/gemini"
	"github.com/sweetpotato0/edubot/provider/openai"
	"github.com/sweetpotato0/edubot/router"
	"github.com/sweetpotato0/edubot/session"
	"github.com/sweetpotato0/edubot/session/store"
)

func main() {
	root := &cobra.Command{
		Use:   "edubot",
		Short: "Asistente educativo multi-agente",
		Long:  "Chatbot educativo que enruta consultas a agentes de cursos, carreras y ventas.",
	}
	root.AddCommand(newChatCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newChatCmd() *cobra.Command {
	var (
		sessionID string
		provider  string
		model     string
		catalog   string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Inicia una conversación interactiva",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if provider != "" {
				cfg.LLM.Provider = provider
			}
			if model != "" {
				cfg.LLM.Model = model
			}
			if catalog != "" {
				cfg.CatalogPath = catalog
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg, sessionID)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "ID de sesión a retomar (vacío crea una nueva)")
	cmd.Flags().StringVar(&provider, "provider", "", "Proveedor LLM: gemini, openai o claude")
	cmd.Flags().StringVar(&model, "model", "", "Modelo del proveedor")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Ruta del catálogo de cursos")
	return cmd
}

func runChat(ctx context.Context, cfg *config.Config, sessionID string) error {
	logger := logging.Logger()

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "edubot",
		Disable:     cfg.DisableTelemetry,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer shutdown(context.Background())

	dispatcher, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}

	sess, err := dispatcher.Sessions().GetOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	sessionID = sess.ID()
	logger.Info("chat started", "session_id", sessionID, "provider", cfg.LLM.Provider)

	fmt.Println("Bienvenido al asistente educativo. Escribe 'salir' para terminar o 'reiniciar' para empezar de nuevo.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Tú: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "salir", "exit":
			fmt.Println("¡Hasta pronto!")
			return nil
		case "reiniciar", "reset":
			if err := dispatcher.ResetSession(ctx, sessionID); err != nil {
				logger.Error("reset failed", "error", err)
				continue
			}
			fmt.Println("Conversación reiniciada.")
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		reply, err := dispatcher.Process(turnCtx, sessionID, input)
		cancel()
		if err != nil {
			logger.Error("turn failed", "error", err)
			continue
		}

		fmt.Printf("Asistente (%s): %s\n", reply.Category, reply.Text)
	}
	return scanner.Err()
}

func buildDispatcher(cfg *config.Config) (*assistant.Dispatcher, error) {
	catalog, err := knowledge.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	opts := []assistant.Option{assistant.WithCatalog(catalog)}

	sessions, err := buildSessions(cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, assistant.WithSessions(sessions))

	for _, cat := range router.Categories() {
		client, err := buildClient(cfg)
		if err != nil {
			return nil, err
		}
		a, err := agent.New(
			agent.WithCategory(cat),
			agent.WithClient(client),
			agent.WithTemperature(cfg.LLM.Temperature),
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, assistant.WithAgent(a))
	}

	// Token counting is best effort; an unknown model just disables it.
	if tok, err := tokenizer.New("gpt-4o-mini"); err == nil {
		opts = append(opts, assistant.WithTokenizer(tok))
	}

	return assistant.New(opts...)
}

func buildSessions(cfg *config.Config) (*session.Manager, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		redisStore := store.NewRedisStore(&store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      time.Duration(cfg.Redis.TTLHours) * time.Hour,
		})
		return session.NewManager(session.WithStore(redisStore)), nil
	case config.StorePostgres:
		pgStore, err := store.NewPostgresStore(&store.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		return session.NewManager(session.WithStore(pgStore)), nil
	default:
		return session.NewManager(session.WithStore(store.NewMemoryStore())), nil
	}
}

func buildClient(cfg *config.Config) (agent.LLMClient, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		c := openai.DefaultConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		c.MaxTokens = int64(cfg.LLM.MaxTokens)
		return openai.New(c), nil
	case config.ProviderClaude:
		c := claude.DefaultConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		c.MaxTokens = int64(cfg.LLM.MaxTokens)
		return claude.New(c), nil
	case config.ProviderGemini:
		c := gemini.DefaultConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			c.Model = cfg.LLM.Model
		}
		c.MaxTokens = cfg.LLM.MaxTokens
		return gemini.New(c), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
	}
}
