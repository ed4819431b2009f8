package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentlinkco/recruitbot/internal/classify"
	"github.com/talentlinkco/recruitbot/internal/config"
	"github.com/talentlinkco/recruitbot/internal/gateway"
	"github.com/talentlinkco/recruitbot/internal/kb"
	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/llm"
	"github.com/talentlinkco/recruitbot/internal/orchestrator"
	"github.com/talentlinkco/recruitbot/internal/stage"
	"github.com/talentlinkco/recruitbot/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "recruitbot",
	Short: "recruitbot - recruitment agency chat assistant",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway (channels + reply pipeline + summarizer)",
	RunE:  runGateway,
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Resolve one message locally through the reply pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize the config directory",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recruitbot status",
	RunE:  runStatus,
}

var (
	sessionFlag string
	langFlag    string
)

func init() {
	askCmd.Flags().StringVar(&sessionFlag, "session", "cli", "session key for the local turn")
	askCmd.Flags().StringVar(&langFlag, "lang", "", "language hint (en, ru, uk, pl, cs)")
	rootCmd.AddCommand(runCmd, askCmd, onboardCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("API key not set. Run 'recruitbot onboard' or set RECRUITBOT_API_KEY / OPENAI_API_KEY")
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}
	return gw.Run(context.Background())
}

// runAsk resolves a single turn against the local store, bypassing the
// channel transports. Useful for trying out taught answers and the
// discovery script.
func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("API key not set. Run 'recruitbot onboard' or set RECRUITBOT_API_KEY / OPENAI_API_KEY")
	}

	st, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	classifier := classify.New()
	if cfg.Classifier.CatalogPath != "" {
		classifier, err = classify.NewFromCatalog(cfg.Classifier.CatalogPath)
		if err != nil {
			return fmt.Errorf("load keyword catalog: %w", err)
		}
		defer classifier.Close()
	}

	client := llm.NewChainClient(cfg)
	o := orchestrator.New(
		st,
		client,
		lang.NewCanonicalizer(client, st, cfg),
		kb.NewMatcher(st),
		classifier,
		stage.New(st),
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)

	reply, err := o.HandleIncoming(cmd.Context(), "cli:"+sessionFlag, "cli", args[0], langFlag)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgPath := config.ConfigPath()
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to set your API key and Telegram token\n", cfgPath)
	fmt.Println("  2. Or set RECRUITBOT_API_KEY / RECRUITBOT_TELEGRAM_TOKEN")
	fmt.Println("  3. Run 'recruitbot ask \"Hello\"' to test the pipeline")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Models: %v\n", cfg.Models.Chain)
	fmt.Printf("Database: %s\n", cfg.Storage.DBPath)
	if key := cfg.Provider.APIKey; key != "" && len(key) > 8 {
		fmt.Printf("API Key: %s...%s\n", key[:4], key[len(key)-4:])
	} else if key != "" {
		fmt.Println("API Key: set")
	} else {
		fmt.Println("API Key: not set")
	}
	fmt.Printf("Telegram: enabled=%v\n", cfg.Channels.Telegram.Enabled)
	fmt.Printf("Summary: enabled=%v every=%d turns\n", cfg.Summary.Enabled, cfg.Summary.EveryTurns)
	return nil
}
