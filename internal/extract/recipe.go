package extract

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/joseph-ayodele/cookbook-cataloger/constants"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/entity"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/llm"
	"github.com/joseph-ayodele/cookbook-cataloger/internal/vision"
)

// Enhancer produces a text-optimized copy of a page image for the
// last-resort extraction pass. The returned func releases the copy.
type Enhancer func(path string) (llm.ImageAttachment, func(), error)

// RecipeExtractor pulls recipes from recipe pages, escalating through
// layout-specific prompts until the page gives up everything it shows.
type RecipeExtractor struct {
	gateway  llm.Gateway
	enhancer Enhancer
	logger   *slog.Logger
}

func NewRecipeExtractor(gateway llm.Gateway, logger *slog.Logger) *RecipeExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeExtractor{gateway: gateway, enhancer: vision.Enhance, logger: logger}
}

// Request carries one page into extraction.
type Request struct {
	Path  string // full path, needed for the enhancement pass
	File  string // base name recorded as the recipe source
	Image llm.ImageAttachment

	Chapter        *entity.Chapter
	Pending        *entity.Recipe
	Classification entity.Classification
	MaxRetries     int
}

// Result is what one page yielded.
type Result struct {
	Recipes []entity.Recipe
	Partial *entity.Recipe

	// Attempt is the 1-based prompt that produced the result; 0 when the
	// enhancement pass produced it.
	Attempt int
}

// rawRecipe mirrors the model's reply shape. Completeness defaults to true
// when the model omits it.
type rawRecipe struct {
	Name           string             `json:"name"`
	IsComplete     *bool              `json:"is_complete"`
	IsContinuation bool               `json:"is_continuation"`
	MealType       string             `json:"meal_type"`
	DishRole       string             `json:"dish_role"`
	Serves         string             `json:"serves"`
	PrepTime       string             `json:"prep_time"`
	CookTime       string             `json:"cook_time"`
	TotalTime      string             `json:"total_time"`
	Calories       string             `json:"calories"`
	Protein        string             `json:"protein"`
	Carbs          string             `json:"carbs"`
	Fat            string             `json:"fat"`
	DietaryInfo    []string           `json:"dietary_info"`
	Description    string             `json:"description"`
	Ingredients    []string           `json:"ingredients"`
	SubRecipes     []entity.SubRecipe `json:"sub_recipes"`
	Instructions   []string           `json:"instructions"`
	Tips           []string           `json:"tips"`
	NutritionFull  string             `json:"nutrition_full"`
}

type rawExtraction struct {
	Recipes         []rawRecipe `json:"recipes"`
	HasContinuation bool        `json:"has_continuation"`
}

// parseExtraction recovers the recipes object from a reply and checks it
// against the extraction schema. A reply that fails the schema counts as a
// parse failure, so the attempt ladder moves on.
func parseExtraction(reply string) (rawExtraction, error) {
	var parsed rawExtraction
	obj, err := llm.ExtractJSONObjectBytes(reply)
	if err != nil {
		return parsed, err
	}
	if err := llm.ValidateExtraction(obj); err != nil {
		return parsed, err
	}
	if err := json.Unmarshal(obj, &parsed); err != nil {
		return parsed, err
	}
	return parsed, nil
}

// Extract runs the escalating prompt ladder against the page. The best
// attempt so far is kept; a later prompt replaces it only by finding more.
// It stops early once the page yielded every recipe the classifier saw, or
// three when the expected count is unknown. A page that still yields nothing
// gets one final pass over an enhanced copy of the image.
func (e *RecipeExtractor) Extract(ctx context.Context, req Request) Result {
	chapterCtx := ""
	if req.Chapter != nil {
		chapterCtx = chapterContextLine(req.Chapter.ChapterTitle)
	}
	continuationCtx := ""
	if req.Pending != nil {
		continuationCtx = continuationContextLine(req.Pending.Name)
	}

	prompts := recipePrompts(chapterCtx, continuationCtx)
	maxAttempts := req.MaxRetries + 1
	if maxAttempts > len(prompts) {
		maxAttempts = len(prompts)
	}

	expected := len(req.Classification.RecipeNamesVisible)
	best := Result{}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		reply, err := e.gateway.Query(ctx, llm.QueryRequest{
			Prompt:    prompts[attempt],
			Images:    []llm.ImageAttachment{req.Image},
			ForceJSON: true,
		})
		if err != nil {
			e.logger.Warn("extract.recipe.query_error", "file", req.File, "attempt", attempt+1, "error", err)
			continue
		}

		parsed, err := parseExtraction(reply)
		if err != nil {
			e.logger.Warn("extract.recipe.parse_error", "file", req.File, "attempt", attempt+1, "error", err)
			continue
		}

		currentCount := len(best.Recipes)
		if len(parsed.Recipes) <= currentCount && currentCount != 0 {
			continue
		}

		complete, partial := e.resolve(parsed.Recipes, req)
		if len(complete) > 0 || partial != nil || attempt == 0 {
			best = Result{Recipes: complete, Partial: partial, Attempt: attempt + 1}
		}

		found := len(complete)
		if partial != nil {
			found++
		}
		if expected > 0 {
			if found >= expected {
				return best
			}
		} else if len(complete) >= 3 {
			return best
		}
	}

	if len(best.Recipes) == 0 {
		if enhanced := e.extractEnhanced(ctx, req, chapterCtx); enhanced != nil {
			return *enhanced
		}
	}
	return best
}

// resolve converts raw recipes into entities, stamping chapter context and
// folding continuations into the pending recipe when there is one. A
// continuation with no pending context is kept as a standalone recipe rather
// than dropped.
func (e *RecipeExtractor) resolve(raws []rawRecipe, req Request) ([]entity.Recipe, *entity.Recipe) {
	var complete []entity.Recipe
	var partial *entity.Recipe

	for _, raw := range raws {
		recipe := raw.toEntity(req.File)
		if req.Chapter != nil {
			recipe.Chapter = req.Chapter.ChapterTitle
			recipe.ChapterNumber = req.Chapter.ChapterNumber
		}

		switch {
		case recipe.IsContinuation && req.Pending != nil:
			merged := MergeContinuation(*req.Pending, recipe)
			if recipe.IsComplete {
				complete = append(complete, merged)
			} else {
				partial = &merged
			}
		case recipe.IsContinuation:
			recipe.Note = "Detected as continuation but no previous page context"
			recipe.IsContinuation = false
			if recipe.IsComplete {
				complete = append(complete, recipe)
			} else {
				partial = &recipe
			}
		case recipe.IsComplete:
			complete = append(complete, recipe)
		default:
			partial = &recipe
		}
	}
	return complete, partial
}

// extractEnhanced is the zero-yield fallback: one photo-focused prompt over
// a contrast-boosted copy of the page.
func (e *RecipeExtractor) extractEnhanced(ctx context.Context, req Request, chapterCtx string) *Result {
	if e.enhancer == nil || req.Path == "" {
		return nil
	}
	e.logger.Info("extract.recipe.enhance_retry", "file", req.File)

	image, cleanup, err := e.enhancer(req.Path)
	if err != nil {
		e.logger.Warn("extract.recipe.enhance_error", "file", req.File, "error", err)
		return nil
	}
	defer cleanup()

	reply, err := e.gateway.Query(ctx, llm.QueryRequest{
		Prompt:    preprocessedPrompt(chapterCtx),
		Images:    []llm.ImageAttachment{image},
		ForceJSON: true,
	})
	if err != nil {
		e.logger.Warn("extract.recipe.enhance_query_error", "file", req.File, "error", err)
		return nil
	}

	parsed, err := parseExtraction(reply)
	if err != nil || len(parsed.Recipes) == 0 {
		return nil
	}

	var complete []entity.Recipe
	for _, raw := range parsed.Recipes {
		recipe := raw.toEntity(req.File)
		if req.Chapter != nil {
			recipe.Chapter = req.Chapter.ChapterTitle
			recipe.ChapterNumber = req.Chapter.ChapterNumber
		}
		recipe.Preprocessed = true
		complete = append(complete, recipe)
	}
	e.logger.Info("extract.recipe.enhance_ok", "file", req.File, "recipes", len(complete))
	return &Result{Recipes: complete}
}

func (r rawRecipe) toEntity(file string) entity.Recipe {
	isComplete := true
	if r.IsComplete != nil {
		isComplete = *r.IsComplete
	}
	return entity.Recipe{
		Name:           r.Name,
		MealType:       constants.CanonicalMealType(r.MealType),
		DishRole:       constants.CanonicalDishRole(r.DishRole),
		Serves:         r.Serves,
		PrepTime:       r.PrepTime,
		CookTime:       r.CookTime,
		TotalTime:      r.TotalTime,
		Calories:       r.Calories,
		Protein:        r.Protein,
		Carbs:          r.Carbs,
		Fat:            r.Fat,
		DietaryInfo:    r.DietaryInfo,
		Description:    r.Description,
		Ingredients:    r.Ingredients,
		SubRecipes:     r.SubRecipes,
		Instructions:   r.Instructions,
		Tips:           r.Tips,
		NutritionFull:  r.NutritionFull,
		IsComplete:     isComplete,
		IsContinuation: r.IsContinuation,
		SourceImage:    file,
	}
}
