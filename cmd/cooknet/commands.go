package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"cooknet-client/internal/recipeutil"
	"cooknet-client/internal/types"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	cred, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", cred.Username, strings.Join(cred.Roles, ", "))
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password, 8 characters minimum")
	fs.Parse(args)

	resp, err := a.client.Register(ctx, types.RegisterRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s, now run: cooknet login -email %s\n", resp.Username, resp.Email)
	return nil
}

func (a *app) cmdLogout() error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func (a *app) cmdWhoami() error {
	cred, err := a.client.Current()
	if err != nil {
		return err
	}
	if cred == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> roles: %s\n", cred.Username, cred.Email, strings.Join(cred.Roles, ", "))
	return nil
}

func (a *app) cmdSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	name := fs.String("name", "", "recipe name contains")
	ingredient := fs.String("ingredient", "", "ingredient name contains")
	catType := fs.String("type", "", "category type to filter on, with -value")
	catValue := fs.String("value", "", "category value to filter on, with -type")
	fs.Parse(args)

	page, err := a.client.SearchRecipes(ctx, *name, *ingredient)
	if err != nil {
		return err
	}
	recipes := recipeutil.FilterByStrictCategory(page.Content, *catType, *catValue)

	// Refresh the offline copy with whatever we just fetched.
	if err := a.cache.SaveRecipes(recipes); err != nil {
		fmt.Fprintf(os.Stderr, "warning: offline cache not updated: %v\n", err)
	}

	w := tableWriter()
	fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tRATING")
	for _, r := range recipes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f (%d)\n",
			r.ID, markMatches(r.Name, *name), r.Author.Username, r.AverageRating, r.RatingCount)
	}
	w.Flush()
	fmt.Printf("%d of %d recipes\n", len(recipes), page.TotalElements)
	return nil
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	servings := fs.Int("servings", 0, "rescale ingredient amounts to this many servings")
	fs.Parse(args)
	id, err := argID(fs.Args())
	if err != nil {
		return err
	}

	r, err := a.client.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if err := a.cache.SaveRecipes([]types.Recipe{*r}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: offline cache not updated: %v\n", err)
	}
	printRecipe(*r, *servings, a.client.ImageURL(r.Image))
	return nil
}

func (a *app) cmdMy(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("my", flag.ExitOnError)
	group := fs.String("group", "", "group output by this category type")
	fs.Parse(args)

	recipes, err := a.client.MyRecipes(ctx)
	if err != nil {
		return err
	}
	for _, g := range recipeutil.GroupByCategoryType(recipes, *group) {
		if g.Name != recipeutil.BucketAll {
			fmt.Printf("%s:\n", g.Name)
		}
		w := tableWriter()
		fmt.Fprintln(w, "ID\tNAME\tSTATUS")
		for _, r := range g.Recipes {
			fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, r.Status)
		}
		w.Flush()
	}
	return nil
}

func (a *app) cmdCreate(ctx context.Context, args []string) error {
	var req types.CreateRecipeRequest
	if err := readJSONFile(args, &req); err != nil {
		return err
	}
	r, err := a.client.CreateRecipe(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("created draft recipe %d %q, submit it with: cooknet submit %d\n", r.ID, r.Name, r.ID)
	return nil
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: cooknet edit <id> <recipe.json>")
	}
	id, err := argID(args[:1])
	if err != nil {
		return err
	}
	var req types.UpdateRecipeRequest
	if err := readJSONFile(args[1:], &req); err != nil {
		return err
	}
	r, err := a.client.UpdateRecipe(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Printf("updated recipe %d, status %s\n", r.ID, r.Status)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	if err := a.client.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted recipe %d\n", id)
	return nil
}

func (a *app) cmdSubmit(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	if err := a.client.SendToModeration(ctx, id); err != nil {
		return err
	}
	fmt.Printf("recipe %d sent to moderation\n", id)
	return nil
}

func (a *app) cmdModerate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cooknet moderate list | approve <id> | reject <id>")
	}
	switch args[0] {
	case "list":
		recipes, err := a.client.PendingRecipes(ctx)
		if err != nil {
			return err
		}
		w := tableWriter()
		fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tCREATED")
		for _, r := range recipes {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, r.Author.Username, r.CreatedAt)
		}
		w.Flush()
		return nil
	case "approve":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		if err := a.client.ApproveRecipe(ctx, id); err != nil {
			return err
		}
		fmt.Printf("recipe %d approved\n", id)
		return nil
	case "reject":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		if err := a.client.RejectRecipe(ctx, id); err != nil {
			return err
		}
		fmt.Printf("recipe %d rejected\n", id)
		return nil
	default:
		return fmt.Errorf("unknown moderate action %q", args[0])
	}
}

func (a *app) cmdRate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: cooknet rate <id> <score 1-5>")
	}
	id, err := argID(args[:1])
	if err != nil {
		return err
	}
	score, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("score must be a number: %q", args[1])
	}
	if err := a.client.RateRecipe(ctx, id, score); err != nil {
		return err
	}
	fmt.Printf("rated recipe %d with %d\n", id, score)
	return nil
}

func (a *app) cmdFavorites(ctx context.Context, args []string) error {
	action := "list"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "list":
		recipes, err := a.client.Favorites(ctx)
		if err != nil {
			return err
		}
		w := tableWriter()
		fmt.Fprintln(w, "ID\tNAME\tAUTHOR")
		for _, r := range recipes {
			fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, r.Author.Username)
		}
		w.Flush()
		return nil
	case "add":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		return a.client.AddFavorite(ctx, id)
	case "remove":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		return a.client.RemoveFavorite(ctx, id)
	default:
		return fmt.Errorf("unknown favorites action %q", action)
	}
}

func (a *app) cmdUploadImage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cooknet upload-image <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := a.client.UploadImage(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}

func (a *app) cmdFeedback(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	topic := fs.String("topic", string(types.TopicOther), "INGREDIENT, CATEGORY, BUG, IDEA, COMPLAINT or OTHER")
	message := fs.String("message", "", "feedback text")
	email := fs.String("email", "", "contact email, defaults to the signed-in account")
	fs.Parse(args)

	if *email == "" {
		cred, err := a.client.Current()
		if err != nil {
			return err
		}
		if cred != nil {
			*email = cred.Email
		}
	}
	err := a.client.SubmitFeedback(ctx, types.FeedbackRequest{
		Email:   *email,
		Topic:   types.FeedbackTopic(*topic),
		Message: *message,
	})
	if err != nil {
		return err
	}
	fmt.Println("feedback submitted")
	return nil
}

func argID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing id argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func readJSONFile(args []string, out any) error {
	if len(args) == 0 {
		return fmt.Errorf("missing JSON file argument")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	return nil
}

func tableWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// markMatches wraps the parts of text matching term in brackets so search
// hits stand out on a plain terminal.
func markMatches(text, term string) string {
	var b strings.Builder
	for _, seg := range recipeutil.Highlight(text, term) {
		if seg.Match {
			b.WriteString("[")
			b.WriteString(seg.Text)
			b.WriteString("]")
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func printRecipe(r types.Recipe, servings int, imageURL string) {
	fmt.Printf("%s (#%d) by %s\n", r.Name, r.ID, r.Author.Username)
	if r.Description != nil && *r.Description != "" {
		fmt.Println(*r.Description)
	}
	fmt.Printf("status %s, rating %.1f (%d votes)\n", r.Status, r.AverageRating, r.RatingCount)
	if r.CookingTimeMinutes != nil {
		fmt.Printf("cooking time: %d min\n", *r.CookingTimeMinutes)
	}
	if imageURL != "" {
		fmt.Printf("image: %s\n", imageURL)
	}
	for typeName, cv := range r.CategoryValues {
		fmt.Printf("%s: %s\n", typeName, cv.CategoryValue)
	}

	target := servings
	if target <= 0 {
		target = r.BaseServings
	}
	mult := recipeutil.ScaleServings(r, target)
	fmt.Printf("\ningredients for %d servings:\n", target)
	w := tableWriter()
	for _, ing := range r.Ingredients {
		amount := ""
		if ing.Amount != nil {
			amount = recipeutil.ScaleAmount(*ing.Amount, mult, ing.Unit)
		}
		fmt.Fprintf(w, "  %s\t%s\n", ing.Name, amount)
	}
	w.Flush()

	if kcal, ok := recipeutil.CaloriesPerServing(r); ok {
		fmt.Printf("about %d kcal per serving\n", kcal)
	}

	fmt.Println("\nsteps:")
	for i, step := range r.Steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
}
