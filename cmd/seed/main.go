package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/niksmo/furnistore/config"
	"github.com/niksmo/furnistore/internal/app"
	"github.com/niksmo/furnistore/pkg/sigctx"
	"github.com/spf13/pflag"
)

const tokenEnvName = "FURNISTORE_CONTENT_TOKEN"

type flags struct {
	fixture string
	envFile string
	patch   bool
	publish bool
}

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	f := getFlagsValues()
	loadEnv(f.envFile)

	cfg := config.Load()
	if token, ok := os.LookupEnv(tokenEnvName); ok {
		cfg.Content.Token = token
	}

	data, err := os.ReadFile(f.fixture)
	if err != nil {
		fail(err)
	}

	docs, err := readFixture(data, f.patch)
	if err != nil {
		fail(err)
	}

	seeder := app.NewSeeder(sigCtx, cfg, f.publish)
	defer seeder.Close()

	start := time.Now()
	if err := seeder.SeedDocuments(sigCtx, docs, f.patch); err != nil {
		slog.Error("failed to seed documents", "err", err)
		fallDown()
	}

	fmt.Printf("seeded %d documents in %s\n", len(docs), time.Since(start))
}

func getFlagsValues() flags {
	var f flags
	pflag.StringVarP(&f.fixture, "fixture", "f", "fixtures/seed.hujson", "HuJSON file of content documents")
	pflag.StringVar(&f.envFile, "env", ".env", "file with secret environment variables")
	pflag.BoolVar(&f.patch, "patch", false, "patch fields of existing documents instead of replacing them")
	pflag.BoolVar(&f.publish, "publish", false, "publish written documents to the content mirror")
	pflag.String("config", "/config.yaml", "config file")
	pflag.Parse()
	return f
}

// loadEnv reads secrets such as the write token. Variables already set in
// the environment win.
func loadEnv(path string) {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fail(err)
	}
}

func fail(err error) {
	fmt.Printf("seed: %v\n", err)
	fallDown()
}

func fallDown() {
	os.Exit(2)
}
