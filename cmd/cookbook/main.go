package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/cookbook-cataloger/internal/catalog"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/classify"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/common"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/diagnostics"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/export"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/extract"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/pipeline"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/repository"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/vision"
)

const defaultCatalogPath = "recipe_catalog.json"

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func usage() {
	printError(`Usage: cookbook <command> [flags]

Commands:
  process    classify and extract every page image in a folder
  files      extract specific page images, in order, into an existing catalog
  list       list cataloged recipes
  random     pick a random recipe, optionally filtered
  delete     delete recipes by list number
  analyze    report pages that failed or under-extracted
  pages      read page numbers off images and report capture gaps
  reprocess  re-run extraction over failed and partial pages
  export     write the catalog to an XLSX workbook
  importdb   mirror the catalog into a relational database
  check      verify the configured model answers
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()

	var err error
	switch cmd := os.Args[1]; cmd {
	case "process":
		err = runProcess(ctx, cfg, logger, os.Args[2:])
	case "files":
		err = runFiles(ctx, cfg, logger, os.Args[2:])
	case "list":
		err = runList(logger, os.Args[2:])
	case "random":
		err = runRandom(logger, os.Args[2:])
	case "delete":
		err = runDelete(logger, os.Args[2:])
	case "analyze":
		err = runAnalyze(ctx, cfg, logger, os.Args[2:])
	case "pages":
		err = runPages(ctx, cfg, logger, os.Args[2:])
	case "reprocess":
		err = runReprocess(ctx, cfg, logger, os.Args[2:])
	case "export":
		err = runExport(logger, os.Args[2:])
	case "importdb":
		err = runImportDB(ctx, cfg, logger, os.Args[2:])
	case "check":
		err = runCheck(ctx, cfg, logger, os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		printError("Error: unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

// newGateway wires the model registry and both transport clients.
func newGateway(cfg *common.Config, model string, logger *slog.Logger) (*llm.ModelGateway, error) {
	registry, err := llm.NewRegistry(cfg.LLM.RegistryPath)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = cfg.LLM.Model
	}
	return llm.NewModelGateway(llm.GatewayParams{
		Registry:    registry,
		Anthropic:   llm.NewAnthropicClient(cfg.LLM.HostedURL, cfg.LLM.APIKey, cfg.LLM.Timeout, logger),
		Ollama:      llm.NewOllamaClient(cfg.LLM.LocalURL, cfg.LLM.Timeout, logger),
		Model:       model,
		BackupModel: cfg.LLM.BackupModel,
		Logger:      logger,
	}), nil
}

func newRunner(gateway *llm.ModelGateway, cfg *common.Config, logger *slog.Logger) *pipeline.Runner {
	return pipeline.NewRunner(pipeline.RunnerParams{
		Classifier: classify.NewClassifier(gateway, logger),
		Chapters:   extract.NewChapterExtractor(gateway, logger),
		Recipes:    extract.NewRecipeExtractor(gateway, logger),
		Partials:   extract.NewPartialExtractor(gateway, logger),
		MaxRetries: cfg.Pipeline.MaxRetries,
		Logger:     logger,
	})
}

func runProcess(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	folder := fs.String("folder", "", "folder of page images (required)")
	out := fs.String("catalog", defaultCatalogPath, "catalog file to write")
	model := fs.String("model", "", "model to use (default from COOKBOOK_MODEL)")
	sortBy := fs.String("sort", cfg.Pipeline.SortBy, "page order: name or date")
	_ = fs.Parse(args)

	if *folder == "" {
		return fmt.Errorf("--folder is required")
	}

	gateway, err := newGateway(cfg, *model, logger)
	if err != nil {
		return err
	}
	runner := newRunner(gateway, cfg, logger)

	cat, err := runner.ProcessFolder(ctx, *folder, gateway.Model(), *sortBy)
	if err != nil {
		return err
	}

	store := repository.NewCatalogStore(*out, logger)
	if err := store.Save(cat); err != nil {
		return err
	}
	fmt.Printf("Processed %d images: %d chapters, %d recipes -> %s\n",
		cat.Metadata.TotalImages, len(cat.Chapters), len(cat.Recipes), store.Path())
	return nil
}

func runFiles(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("files", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file to update")
	model := fs.String("model", "", "model to use")
	_ = fs.Parse(args)

	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("at least one image path is required")
	}

	gateway, err := newGateway(cfg, *model, logger)
	if err != nil {
		return err
	}
	runner := newRunner(gateway, cfg, logger)

	result, err := runner.ProcessFiles(ctx, paths)
	if err != nil {
		return err
	}

	store := repository.NewCatalogStore(*path, logger)
	cat, err := store.Load()
	if err != nil {
		if !store.Exists() {
			cat = entity.NewCatalog("", gateway.Model(), len(paths))
		} else {
			return err
		}
	}

	stats := catalog.UpsertRecipes(cat, result.Recipes, result.Chapters, "", logger)
	cat.ProcessingLog = append(cat.ProcessingLog, result.Log...)
	if err := store.Save(cat); err != nil {
		return err
	}
	fmt.Printf("Upserted %d recipes: %d added, %d updated, %d merged\n",
		len(result.Recipes), stats.Added, stats.Updated, stats.Merged)
	return nil
}

func runList(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file")
	byChapter := fs.Bool("chapters", false, "group recipes by chapter")
	_ = fs.Parse(args)

	cat, err := repository.NewCatalogStore(*path, logger).Load()
	if err != nil {
		return err
	}

	if *byChapter {
		listByChapter(cat)
		return nil
	}

	names := make([]string, len(cat.Recipes))
	for i, r := range cat.Recipes {
		names[i] = r.Name
		if n := len(r.SubRecipes); n > 0 {
			names[i] = fmt.Sprintf("%s (+%d sub-recipes)", r.Name, n)
		}
	}
	sort.Strings(names)
	for i, name := range names {
		fmt.Printf("%3d. %s\n", i+1, name)
	}
	fmt.Printf("\n%d recipes\n", len(names))
	return nil
}

func listByChapter(cat *entity.Catalog) {
	byChapter := make(map[string][]string)
	for _, r := range cat.Recipes {
		ch := r.Chapter
		if ch == "" {
			ch = "Unknown"
		}
		byChapter[ch] = append(byChapter[ch], r.Name)
	}
	chapters := make([]string, 0, len(byChapter))
	for ch := range byChapter {
		chapters = append(chapters, ch)
	}
	sort.Strings(chapters)
	for _, ch := range chapters {
		names := byChapter[ch]
		sort.Strings(names)
		fmt.Printf("%s (%d)\n", ch, len(names))
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
	}
}

func runRandom(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file")
	chapter := fs.String("chapter", "", "restrict to one chapter")
	dietary := fs.String("dietary", "", "restrict to a dietary tag, e.g. gluten-free")
	macro := fs.String("macro", "", "restrict to a macro bucket: high_protein, low_carb, low_calorie")
	_ = fs.Parse(args)

	cat, err := repository.NewCatalogStore(*path, logger).Load()
	if err != nil {
		return err
	}

	pick, err := catalog.RandomRecipe(cat, catalog.PickFilters{
		Chapter: *chapter,
		Dietary: *dietary,
		Macro:   *macro,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", pick.Name)
	if pick.Chapter != "" {
		fmt.Printf("  Chapter: %s\n", pick.Chapter)
	}
	if pick.Serves != "" {
		fmt.Printf("  Serves: %s\n", pick.Serves)
	}
	if pick.PrepTime != "" {
		fmt.Printf("  Prep: %s\n", pick.PrepTime)
	}
	if pick.Calories != "" {
		fmt.Printf("  Calories: %s\n", pick.Calories)
	}
	if len(pick.DietaryInfo) > 0 {
		fmt.Printf("  Dietary: %s\n", strings.Join(pick.DietaryInfo, ", "))
	}
	return nil
}

func runDelete(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("at least one recipe number is required (see 'cookbook list')")
	}
	ordinals := make([]int, 0, fs.NArg())
	for _, arg := range fs.Args() {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid recipe number %q", arg)
		}
		ordinals = append(ordinals, n)
	}

	store := repository.NewCatalogStore(*path, logger)
	cat, err := store.Load()
	if err != nil {
		return err
	}

	// Ordinals refer to the alphabetical listing, so resolve against it.
	names := make([]string, len(cat.Recipes))
	for i, r := range cat.Recipes {
		names[i] = r.Name
	}
	sort.Strings(names)
	for _, n := range ordinals {
		if n < 1 || n > len(names) {
			return fmt.Errorf("recipe number %d out of range (1-%d)", n, len(names))
		}
		fmt.Printf("  %3d. %s\n", n, names[n-1])
	}

	if !*yes {
		fmt.Printf("Delete %d recipe(s)? [y/N]: ", len(ordinals))
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Map listing ordinals back to catalog positions before deleting.
	positions := make([]int, 0, len(ordinals))
	for _, n := range ordinals {
		target := names[n-1]
		for i, r := range cat.Recipes {
			if r.Name == target {
				positions = append(positions, i+1)
				break
			}
		}
	}

	deleted, err := catalog.DeleteByOrdinals(cat, positions)
	if err != nil {
		return err
	}
	if err := store.Save(cat); err != nil {
		return err
	}
	fmt.Printf("Deleted: %s\n", strings.Join(deleted, ", "))
	return nil
}

func runAnalyze(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file")
	folder := fs.String("folder", "", "source folder override for file paths")
	diagnose := fs.Bool("diagnose", false, "ask the model to explain each failed page")
	model := fs.String("model", cfg.LLM.Model, "model for -diagnose queries")
	_ = fs.Parse(args)

	cat, err := repository.NewCatalogStore(*path, logger).Load()
	if err != nil {
		return err
	}

	a := diagnostics.AnalyzeCatalog(cat, *folder)
	printAnalysis(a)

	if !*diagnose || len(a.FailedFiles) == 0 {
		return nil
	}

	gateway, err := newGateway(cfg, *model, logger)
	if err != nil {
		return err
	}
	for _, issue := range a.FailedFiles {
		fmt.Printf("\nDiagnosing %s...\n", issue.File)
		image, err := vision.LoadAttachment(issue.Path)
		if err != nil {
			fmt.Printf("  could not load image: %v\n", err)
			continue
		}
		d := diagnostics.DiagnoseFailure(ctx, gateway, image, issue.Entry.Classification, issue.Entry.RecipesExtracted, logger)
		if d.Error != "" {
			fmt.Printf("  diagnosis failed: %s\n", d.Error)
			continue
		}
		for _, v := range d.RecipesVisible {
			fmt.Printf("  visible: %s (complete=%t, continuation=%t)\n", v.Name, v.IsComplete, v.HasContinuationFromPrevious)
		}
		for _, r := range d.FailureReasons {
			fmt.Printf("  reason: %s\n", r)
		}
		for _, r := range d.Recommendations {
			fmt.Printf("  recommend: %s\n", r)
		}
	}
	return nil
}

func printAnalysis(a *diagnostics.Analysis) {
	printIssues := func(title string, issues []diagnostics.FileIssue) {
		if len(issues) == 0 {
			return
		}
		fmt.Printf("%s (%d):\n", title, len(issues))
		for _, issue := range issues {
			fmt.Printf("  %s: %s", issue.File, issue.Reason)
			if issue.Priority != "" {
				fmt.Printf(" [%s]", issue.Priority)
			}
			fmt.Println()
		}
		fmt.Println()
	}

	printIssues("Failed pages", a.FailedFiles)
	printIssues("Partial-only pages", a.PartialOnly)
	printIssues("Low-confidence pages", a.LowConfidence)
	printIssues("Skipped pages", a.SkippedFiles)

	if len(a.Unmatched) > 0 {
		fmt.Printf("Unextracted recipes (%d):\n", len(a.Unmatched))
		for _, u := range a.Unmatched {
			fmt.Printf("  %s (%s)\n", u.Name, u.Chapter)
		}
		fmt.Println()
	}

	s := a.Summary
	fmt.Printf("Summary: %d files, %d recipes, %d failed, %d partial-only, %d low-confidence, %d skipped, %d unextracted\n",
		s.TotalFilesProcessed, s.TotalRecipesExtracted, s.FailedCount,
		s.PartialOnlyCount, s.LowConfidenceCount, s.SkippedCount, s.UnmatchedRecipeCount)
}

func runPages(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("pages", flag.ExitOnError)
	folder := fs.String("folder", "", "folder of page images (required)")
	path := fs.String("catalog", "", "catalog file to correlate against (optional)")
	model := fs.String("model", "", "model to use")
	_ = fs.Parse(args)

	if *folder == "" {
		return fmt.Errorf("--folder is required")
	}

	gateway, err := newGateway(cfg, *model, logger)
	if err != nil {
		return err
	}
	analyzer := diagnostics.NewPageAnalyzer(gateway, logger)

	analysis, err := analyzer.AnalyzeFolder(ctx, *folder, gateway.Model(), cfg.Pipeline.MaxRetries)
	if err != nil {
		return err
	}

	if c := analysis.Coverage; c != nil {
		fmt.Printf("Pages %d-%d: %d captured, %d missing (%.1f%% coverage)\n",
			c.FirstPageFound, c.LastPageFound, c.PagesCaptured, c.PagesMissing, c.CoveragePercent)
	}
	if len(analysis.PageRanges) > 0 {
		fmt.Printf("Captured ranges: %s\n", strings.Join(analysis.PageRanges, ", "))
	}
	if len(analysis.MissingRanges) > 0 {
		fmt.Printf("Missing ranges:  %s\n", strings.Join(analysis.MissingRanges, ", "))
	}

	if *path != "" {
		cat, err := repository.NewCatalogStore(*path, logger).Load()
		if err != nil {
			return err
		}
		correlation := diagnostics.CorrelateWithCatalog(analysis, cat)
		fmt.Printf("\n%d unextracted recipes, %d missing pages\n",
			correlation.UnmatchedCount, correlation.MissingPagesCount)
		for _, suggestion := range correlation.Suggestions {
			fmt.Printf("  %s\n", suggestion)
		}
	}
	return nil
}

func runReprocess(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("reprocess", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file")
	folder := fs.String("folder", "", "source folder override for file paths")
	model := fs.String("model", "", "model to use")
	lowConf := fs.Bool("include-low-confidence", false, "also reprocess low-confidence pages")
	dryRun := fs.Bool("dry-run", false, "plan only, do not call the model")
	_ = fs.Parse(args)

	store := repository.NewCatalogStore(*path, logger)
	cat, err := store.Load()
	if err != nil {
		return err
	}

	analysis := diagnostics.AnalyzeCatalog(cat, *folder)

	gateway, err := newGateway(cfg, *model, logger)
	if err != nil {
		return err
	}
	runner := newRunner(gateway, cfg, logger)

	result, err := diagnostics.Reprocess(ctx, analysis, runner, cat, diagnostics.ReprocessOptions{
		IncludeLowConfidence: *lowConf,
		DryRun:               *dryRun,
	}, logger)
	if err != nil {
		return err
	}

	if result.DryRun {
		fmt.Printf("Would reprocess %d page(s):\n", len(result.Planned))
		for _, issue := range result.Planned {
			fmt.Printf("  %s: %s\n", issue.File, issue.Reason)
		}
		for _, skipped := range result.Skipped {
			fmt.Printf("  skipped (missing file): %s\n", skipped)
		}
		return nil
	}

	if err := store.Save(cat); err != nil {
		return err
	}
	fmt.Printf("Reprocessed %d page(s): %d added, %d updated, %d merged\n",
		len(result.Planned), result.Added, result.Updated, result.Merged)
	return nil
}

func runExport(logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file")
	out := fs.String("out", "recipe_catalog.xlsx", "output XLSX file path")
	_ = fs.Parse(args)

	cat, err := repository.NewCatalogStore(*path, logger).Load()
	if err != nil {
		return err
	}

	data, err := export.NewService(logger).ExportCatalogXLSX(cat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Exported %d recipes -> %s\n", len(cat.Recipes), *out)
	return nil
}

func runImportDB(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("importdb", flag.ExitOnError)
	path := fs.String("catalog", defaultCatalogPath, "catalog file")
	name := fs.String("name", "", "catalog name in the database (default: source folder)")
	_ = fs.Parse(args)

	if cfg.Database.DSN == "" {
		return fmt.Errorf("DB_URL env var is required (postgres DSN or sqlite file path)")
	}

	cat, err := repository.NewCatalogStore(*path, logger).Load()
	if err != nil {
		return err
	}
	if *name == "" {
		*name = cat.Metadata.SourceFolder
	}

	mirror, err := repository.OpenMirror(cfg.Database.DSN, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mirror.Close(); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}()

	imported, err := mirror.Import(ctx, cat, *name)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d recipes into %s\n", imported, *name)
	return nil
}

func runCheck(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	model := fs.String("model", "", "model to use")
	_ = fs.Parse(args)

	gateway, err := newGateway(cfg, *model, logger)
	if err != nil {
		return err
	}

	reply, err := gateway.Query(ctx, llm.QueryRequest{
		Prompt: "Reply with the single word: ok",
	})
	if err != nil {
		return fmt.Errorf("model %s unreachable: %w", gateway.Model(), err)
	}
	fmt.Printf("Model %s responded: %s\n", gateway.Model(), strings.TrimSpace(truncateReply(reply, 80)))
	return nil
}

func truncateReply(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
