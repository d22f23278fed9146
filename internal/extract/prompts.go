package extract

import "fmt"

// chapterPrompt asks for the chapter heading and its advertised recipe list.
const chapterPrompt = `Analyze this cookbook chapter or table of contents page. Extract the following information and respond in valid JSON format only:

{
    "chapter_number": "the chapter number if visible (e.g., 'Chapter Two', '2', etc.) or null",
    "chapter_title": "the chapter title/name (e.g., 'Breakfast', 'Leafy Salads', 'Appetizers') or null",
    "recipe_list": ["list of recipe names mentioned on this page - extract ALL of them exactly as written"],
    "notes": "any other relevant information about this chapter"
}

Important:
- Extract ALL recipe names you can see listed
- Keep recipe names EXACTLY as written (preserve capitalization)
- The chapter title is usually the largest text or heading
- If you can't determine something, use null
- Respond with ONLY the JSON, no other text`

// recipePrompts returns the escalating extraction strategies. The first scans
// the whole page, the second assumes a two-column layout, the third ignores a
// dominating photograph. Each later prompt targets a layout the earlier ones
// miss.
func recipePrompts(chapterContext, continuationContext string) []string {
	return []string{
		chapterContext + continuationContext + `IMPORTANT: This cookbook page may show MULTIPLE recipes. Some pages have 2, 3, 4, or even 5 short recipes.
Scan the ENTIRE image carefully from TOP to BOTTOM on BOTH the LEFT and RIGHT sides.

Extract ALL recipes shown. For EACH recipe provide this JSON format:
{
    "recipes": [
        {
            "name": "exact recipe name/title",
            "is_complete": true/false (see COMPLETION RULES below),
            "is_continuation": true/false (see CONTINUATION RULES below),
            "meal_type": "breakfast/lunch/dinner/any (see classification rules below)",
            "dish_role": "main/side/sub_recipe (see classification rules below)",
            "serves": "serving size (e.g., '4', '6-8') or null",
            "prep_time": "prep time if shown (e.g., '10 minutes') or null",
            "cook_time": "cooking time if shown or null",
            "total_time": "total time if shown or null",
            "calories": "calorie number only, e.g., '143' or '350' or null",
            "protein": "protein grams, e.g., '8g' or '24g' or null",
            "carbs": "carb grams, e.g., '21g' or '15g' or null",
            "fat": "fat grams, e.g., '3g' or '12g' or null",
            "dietary_info": ["ONLY dietary restriction tags like 'DAIRY-FREE', 'VEGAN', 'GLUTEN-FREE', 'NUT-FREE', 'VEGETARIAN' - NOT macros/calories"],
            "description": "the intro paragraph describing the recipe, if any",
            "ingredients": [
                "ingredient 1 with amount",
                "ingredient 2 with amount"
            ],
            "sub_recipes": [
                {
                    "name": "name of sub-recipe like 'Sriracha Vinaigrette' or 'Barbecue Ranch Dressing'",
                    "ingredients": ["ingredient 1", "ingredient 2"],
                    "instructions": ["preparation steps for the sub-recipe"]
                }
            ],
            "instructions": [
                "step 1",
                "step 2"
            ],
            "tips": ["any tips, variations, DIY notes, or substitutions mentioned"],
            "nutrition_full": "full nutrition line as a string, e.g., '143 CALORIES | 8 GRAMS PROTEIN | 21 GRAMS CARBOHYDRATES | 3 GRAMS FAT'"
        }
    ],
    "has_continuation": true/false (does a recipe continue onto the NEXT page?)
}

MEAL TYPE CLASSIFICATION (meal_type):
- "breakfast": Traditional morning foods - eggs, pancakes, waffles, oatmeal, breakfast burritos, bacon dishes, smoothie bowls
- "lunch": Midday foods - sandwiches, wraps, lighter salads, soups, quick meals
- "dinner": Evening/hearty meals - steaks, roasts, pasta mains, substantial proteins, hearty stews
- "any": Versatile dishes that work for multiple meals - many salads, grain bowls, some soups
Use your judgment based on ingredients, portion size, and traditional eating patterns (not what someone COULD eat, but what's typical).

DISH ROLE CLASSIFICATION (dish_role):
- "main": The primary dish/entrée - substantial, could be the star of the meal
- "side": Accompaniment - vegetables, slaws, smaller salads, side dishes
- "sub_recipe": A COMPONENT that goes into another recipe - dressings, vinaigrettes, sauces, marinades, spice blends, rubs
  (Note: If it's a dressing/sauce shown as part of a larger recipe, keep it in sub_recipes array AND classify the main recipe appropriately)

CRITICAL:
- Scan BOTH the LEFT side AND RIGHT side of the image, TOP to BOTTOM
- There may be 1, 2, 3, 4, or even 5+ recipes visible - extract ALL of them
- Short recipes (just a few ingredients and steps) are common - don't skip them
- Look for recipe TITLES/HEADINGS - each heading marks a new recipe
- Include ALL ingredients for EACH recipe
- Look for VARIATION TIP, DIY, or SUBSTITUTION notes at the bottom
- dietary_info should ONLY contain tags like DAIRY-FREE, VEGAN, GLUTEN-FREE - NOT calories or macros
- Put calorie/protein/carb/fat numbers in their respective fields

SUB-RECIPES ARE CRITICAL - DO NOT MISS THEM:
- Sub-recipes are dressings, vinaigrettes, sauces, marinades shown WITHIN a main recipe
- They are often in COLORED BOXES or SHADED SECTIONS (gray, olive, tan backgrounds)
- They have their OWN name (e.g., "Cilantro-Lime Vinaigrette", "Kalamata Feta Vinaigrette", "Barbecue Ranch Dressing")
- They have their OWN ingredient list
- They may have their OWN instructions
- Put these in the "sub_recipes" array of the PARENT recipe, NOT as separate recipes
- Example: "Cilantro-Lime Avocado Shrimp Salad" should have sub_recipes: [{name: "Cilantro-Lime Vinaigrette", ingredients: [...]}]

COMPLETION RULES (is_complete):
Set is_complete=FALSE if ANY of these are true:
- Instructions are CUT OFF at the bottom of the page (sentence doesn't end, or no clear ending like "Serve" or "Enjoy")
- You see text going off the edge of the visible area
- The recipe clearly continues (e.g., "continued on next page")
- Instructions seem incomplete (e.g., batter is made but never baked)
Set is_complete=TRUE only if the recipe has a clear ending (final step like "Serve immediately", "Enjoy!", or a complete final instruction)

CONTINUATION RULES (is_continuation):
Set is_continuation=TRUE if ANY of these are true:
- The FIRST text you see is mid-instruction (not starting with step 1 or a title)
- Instructions at the TOP of the page don't start with "1."
- Text begins mid-sentence
- There's no recipe title/heading before the first instructions
Set is_continuation=FALSE if the recipe starts fresh with a title and step 1

Respond with ONLY valid JSON.`,

		chapterContext + `This appears to be a TWO-COLUMN cookbook layout.

LEFT COLUMN: Contains one recipe
RIGHT COLUMN: Contains another recipe

Extract BOTH recipes completely. Include:
- Recipe names (titles at top of each column)
- All ingredients listed under each recipe
- Any sub-recipes (dressings, sauces) shown in boxes
- Instructions numbered at bottom
- Tips/variations in colored text
- Macros: calories, protein, carbs, fat as SEPARATE fields (just the numbers)
- dietary_info: ONLY restriction tags like VEGAN, GLUTEN-FREE (NOT macros)

JSON format:
{"recipes": [{recipe1}, {recipe2}], "has_continuation": false}

Each recipe needs: name, meal_type (breakfast/lunch/dinner/any), dish_role (main/side/sub_recipe), serves, calories, protein, carbs, fat, dietary_info, ingredients, sub_recipes, instructions, tips.

Respond with ONLY JSON.`,

		chapterContext + `This page has a LARGE FOOD PHOTOGRAPH taking up significant space. IGNORE THE PHOTO COMPLETELY.

Focus ONLY on the TEXT areas of the page. Look for:
1. RECIPE TITLE - usually in large/bold text
2. INGREDIENTS LIST - look for measurements like cups, tablespoons, teaspoons, ounces, pounds
3. NUMBERED INSTRUCTIONS - steps 1, 2, 3, etc.
4. SERVING INFO - "Serves 4" or similar
5. NUTRITION INFO - calories, protein, carbs, fat (often at bottom)
6. PREP/COOK TIME - "Prep time: X minutes"

The recipe text might be in a SINGLE COLUMN next to the photo, or wrapped around it.

Extract the recipe in this JSON format:
{
    "recipes": [
        {
            "name": "exact recipe title",
            "meal_type": "breakfast/lunch/dinner/any",
            "dish_role": "main/side/sub_recipe",
            "serves": "serving size",
            "prep_time": "prep time if shown",
            "cook_time": "cooking time if shown",
            "calories": "calorie number only",
            "protein": "protein grams",
            "carbs": "carb grams",
            "fat": "fat grams",
            "dietary_info": ["DAIRY-FREE", "VEGAN", etc - only dietary tags],
            "ingredients": ["ingredient 1 with amount", "ingredient 2 with amount", ...],
            "instructions": ["step 1", "step 2", ...],
            "tips": ["any tips or variations"]
        }
    ],
    "has_continuation": false
}

READ ALL THE TEXT CAREFULLY - don't let the photo distract you. Respond with ONLY valid JSON.`,
	}
}

// preprocessedPrompt is the last-resort pass run against the enhanced image.
// It forbids invented titles so a blurry page yields nothing rather than a
// hallucinated recipe.
func preprocessedPrompt(chapterContext string) string {
	return chapterContext + `This page has a LARGE FOOD PHOTOGRAPH. IGNORE THE PHOTO - focus ONLY on TEXT.

Extract the recipe from the text areas. Look for:
- RECIPE TITLE (large/bold text) - DO NOT invent a title if you don't see one clearly
- INGREDIENTS (measurements: cups, tbsp, tsp, oz, lb)
- NUMBERED INSTRUCTIONS (1, 2, 3...)
- SERVES/SERVINGS info
- PREP TIME / COOK TIME
- NUTRITION (calories, protein, carbs, fat)

IMPORTANT:
- Only extract recipes you can CLEARLY see on the page
- If you only see instructions without a title, this may be a CONTINUATION of a previous recipe
- DO NOT hallucinate or invent recipe names - if unsure, return empty recipes array
- If the page only shows continuation instructions (no title, no ingredients), return: {"recipes": [], "has_continuation": true}

JSON format:
{
    "recipes": [{
        "name": "recipe title - MUST be visible on page",
        "meal_type": "breakfast/lunch/dinner/any",
        "dish_role": "main/side/sub_recipe",
        "serves": "servings",
        "prep_time": "prep time",
        "cook_time": "cook time",
        "calories": "calories only",
        "protein": "protein grams",
        "carbs": "carb grams",
        "fat": "fat grams",
        "dietary_info": [],
        "ingredients": ["ingredient 1", "ingredient 2", ...],
        "instructions": ["step 1", "step 2", ...],
        "tips": []
    }],
    "has_continuation": false
}

Respond with ONLY valid JSON.`
}

// partialPrompt targets a page that only continues an already-started recipe.
func partialPrompt(name string) string {
	return fmt.Sprintf(`This page shows the CONTINUATION of a recipe from the previous page.
The recipe name is: %q

IMPORTANT: This is NOT a new recipe - it is the ENDING/CONTINUATION of an existing recipe.
Look for:
1. Any remaining ingredient list items (if ingredients continued from previous page)
2. Remaining instruction steps (might start with step 3, 4, 5, etc. - NOT step 1)
3. Any tips, variations, DIY notes, or substitutions mentioned at the bottom
4. Per serving nutrition information

DO NOT:
- Create a new recipe name
- Treat this as a new recipe
- Include content from other recipes that might be on the page

Respond in JSON:
{
    "additional_ingredients": ["any additional ingredients if the list continues"],
    "additional_instructions": ["step N", "step N+1", ... (continuing from where previous page left off)],
    "additional_tips": ["any tips, variations, DIY notes mentioned"],
    "nutrition_per_serving": "full nutrition line if shown",
    "is_complete": true/false (does this recipe fully end on this page, or continue further?)
}

Only extract content that clearly belongs to the continuing recipe %q.
If you see a completely different recipe title, ignore it - only extract the continuation content.
Respond with ONLY valid JSON.`, name, name)
}

// chapterContextLine prefixes extraction prompts with the active chapter.
func chapterContextLine(chapterTitle string) string {
	if chapterTitle == "" {
		return ""
	}
	return fmt.Sprintf("These recipes are from the chapter: %s\n", chapterTitle)
}

// continuationContextLine warns the model a recipe may continue onto this page.
func continuationContextLine(pendingName string) string {
	if pendingName == "" {
		return ""
	}
	return fmt.Sprintf(`
NOTE: A recipe %q may continue from the previous page.
If you see instructions continuing without a recipe title, they belong to this recipe.
`, pendingName)
}
