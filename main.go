package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/wanokuni/internal/bot"
	"github.com/example/wanokuni/internal/curriculum"
	"github.com/example/wanokuni/internal/database"
	"github.com/example/wanokuni/internal/engine"
	"github.com/example/wanokuni/internal/excel"
	"github.com/example/wanokuni/internal/scheduler"
)

func main() {
	importPath := flag.String("import", "", "import curriculum from an .xlsx or .csv file and exit")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importPath != "" {
		runImport(*importPath)
		return
	}

	eng, progress, err := buildEngine()
	if err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	b, err := bot.NewBot(token, eng, progress)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	sched := scheduler.New(eng, b)
	sched.Start()
	defer sched.Stop()

	// Catch up on reviews that came due while the process was down.
	if err := sched.RunManualCheck(); err != nil {
		log.Printf("Initial reminder check failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}

// buildEngine loads the curriculum and progress from the database and
// wires them into a scheduling engine.
func buildEngine() (*engine.Engine, *database.ProgressRepository, error) {
	curriculumRepo := database.NewCurriculumRepository()

	radicals, err := curriculumRepo.GetAllRadicals()
	if err != nil {
		return nil, nil, fmt.Errorf("loading radicals: %w", err)
	}
	kanji, err := curriculumRepo.GetAllKanji()
	if err != nil {
		return nil, nil, fmt.Errorf("loading kanji: %w", err)
	}
	vocabulary, err := curriculumRepo.GetAllVocabulary()
	if err != nil {
		return nil, nil, fmt.Errorf("loading vocabulary: %w", err)
	}

	if len(radicals) == 0 {
		return nil, nil, fmt.Errorf("curriculum is empty, run with -import first")
	}

	catalog := curriculum.New(radicals, kanji, vocabulary)
	progress := database.NewProgressRepository()

	eng, err := engine.New(engine.Config{
		Catalog: catalog,
		Store:   progress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building engine: %w", err)
	}

	log.Printf("Curriculum loaded: %d radicals, %d kanji, %d vocabulary (max level %d)",
		len(radicals), len(kanji), len(vocabulary), catalog.MaxLevel())
	return eng, progress, nil
}

func runImport(path string) {
	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportCurriculum(config)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import finished: %d radicals, %d kanji, %d vocabulary (%d skipped)",
		result.Radicals, result.Kanji, result.Vocabulary, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("  import error: %s", e)
	}
}
