package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"goldstrategist/internal/app"
	"goldstrategist/internal/catalog"
	"goldstrategist/internal/config"
	"goldstrategist/internal/finance"
	"goldstrategist/internal/keystore"
	"goldstrategist/internal/llm"
	"goldstrategist/internal/orchestrator"
	"goldstrategist/internal/profile"
	"goldstrategist/internal/usage"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	keys, err := keystore.NewStore(cfg.KeystorePath)
	if err != nil {
		log.Fatalf("Failed to initialize key store: %v", err)
	}
	for _, k := range cfg.GeminiAPIKeys {
		if err := keys.AddKey(k); err != nil {
			log.Fatalf("Failed to seed API key: %v", err)
		}
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "impact":
		runImpact(os.Args[2:])
	case "strategy":
		runStrategy(cfg, keys, logger, os.Args[2:])
	case "keys":
		runKeys(keys, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func profileFlags(fs *flag.FlagSet) (store, category, visits, aov, discount *string) {
	store = fs.String("store", "", "Store name")
	category = fs.String("category", "restaurant", "Business category")
	visits = fs.String("visits", "0", "Daily customer visits")
	aov = fs.String("aov", "0", "Average order value in rupees")
	discount = fs.String("discount", "0", "Current discount percentage")
	return
}

func runImpact(args []string) {
	fs := flag.NewFlagSet("impact", flag.ExitOnError)
	store, category, visits, aov, discount := profileFlags(fs)
	fs.Parse(args)

	p := profile.New(*store, *category, *visits, *aov, *discount)
	proj := finance.Project(p.DailyVisits, p.AverageOrderValue, p.DiscountPercent)

	fmt.Printf("Loss per bill:      %s\n", finance.FormatINR(proj.PerBill.Loss))
	fmt.Printf("Voucher value:      %s\n", finance.FormatINR(proj.PerBill.VoucherValue))
	fmt.Printf("Gold cost per bill: %s\n", finance.FormatINR(proj.PerBill.GoldCost))
	fmt.Printf("Saving per bill:    %s\n", finance.FormatINR(proj.PerBill.Save))
	fmt.Printf("Daily saving:       %s\n", finance.FormatINR(proj.Savings.Daily))
	fmt.Printf("Monthly saving:     %s\n", finance.FormatINRCompact(proj.Savings.Monthly))
	fmt.Printf("Yearly saving:      %s\n", finance.FormatINRCompact(proj.Savings.Yearly))
}

func runStrategy(cfg *config.Config, keys *keystore.Store, logger *slog.Logger, args []string) {
	fs := flag.NewFlagSet("strategy", flag.ExitOnError)
	store, category, visits, aov, discount := profileFlags(fs)
	menuPath := fs.String("menu", "", "Path to a plain-text menu file, or - for stdin")
	imagePath := fs.String("image", "", "Path to a menu photo (jpg, png or webp)")
	fs.Parse(args)

	var menuText string
	switch *menuPath {
	case "":
	case "-":
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read menu from stdin: %v", err)
		}
		menuText = string(raw)
	default:
		raw, err := os.ReadFile(*menuPath)
		if err != nil {
			log.Fatalf("Failed to read menu file: %v", err)
		}
		menuText = string(raw)
	}

	var images []llm.InlineImage
	if *imagePath != "" {
		img, err := loadImage(*imagePath)
		if err != nil {
			log.Fatalf("Failed to read menu image: %v", err)
		}
		images = append(images, img)
	}

	tracker := usage.OpenTracker(cfg.UsageDBPath)
	primary := llm.NewGeminiClient()

	var secondary llm.TextCompleter
	if cfg.GroqAPIKey != "" {
		secondary = llm.NewGroqClient(cfg.GroqAPIKey)
	}
	tertiary := llm.NewPollinationsClient()

	orch := orchestrator.New(primary, secondary, tertiary, tracker, catalog.Default(), logger)
	orch.AttemptTimeout = cfg.AttemptTimeout
	orch.OnEvent = func(e orchestrator.Event) {
		fmt.Fprintf(os.Stderr, "... %s\n", e.Message)
	}

	application := app.NewApp(orch, keys, logger)

	p := profile.New(*store, *category, *visits, *aov, *discount)
	bundle, err := application.BuildStrategy(context.Background(), p, menuText, images)
	if err != nil {
		log.Fatalf("Strategy generation failed: %v", err)
	}

	out, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode strategy: %v", err)
	}
	fmt.Println(string(out))
}

func runKeys(keys *keystore.Store, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: goldstrategist keys <add|list> [key]")
		os.Exit(1)
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			log.Fatal("Usage: goldstrategist keys add <api-key>")
		}
		if err := keys.AddKey(args[1]); err != nil {
			log.Fatalf("Failed to add key: %v", err)
		}
		fmt.Println("Key saved.")
	case "list":
		stored, err := keys.Keys()
		if err != nil {
			log.Fatalf("Failed to list keys: %v", err)
		}
		if len(stored) == 0 {
			fmt.Println("No keys stored. Add one with: goldstrategist keys add <api-key>")
			return
		}
		for _, k := range stored {
			fmt.Println(maskKey(k))
		}
	default:
		fmt.Printf("Unknown keys subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

// maskKey hides all but the last four characters of an API key.
func maskKey(k string) string {
	if len(k) <= 4 {
		return k
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

func loadImage(path string) (llm.InlineImage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return llm.InlineImage{}, err
	}

	mime := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".webp":
		mime = "image/webp"
	}

	return llm.InlineImage{
		MIMEType: mime,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}

func printUsage() {
	fmt.Println("Usage: goldstrategist <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  impact      Project the savings of switching from discounts to gold rewards")
	fmt.Println("  strategy    Generate a deal, voucher and repeat-visit strategy")
	fmt.Println("  keys        Manage stored API keys (add, list)")
}
