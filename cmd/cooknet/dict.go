package main

import (
	"context"
	"fmt"
	"os"

	"cooknet-client/internal/localdata"
	"cooknet-client/internal/types"
)

// cmdDict lists reference data. Fetched dictionaries are mirrored into the
// offline cache; when the platform is unreachable the cached copy is shown
// instead.
func (a *app) cmdDict(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cooknet dict ingredients | units | category-types | category-values")
	}
	switch args[0] {
	case "ingredients":
		items, err := fetchDict(ctx, a, localdata.DictIngredients, a.client.Ingredients)
		if err != nil {
			return err
		}
		w := tableWriter()
		fmt.Fprintln(w, "ID\tNAME\tKCAL/100G")
		for _, ing := range items {
			kcal := ""
			if ing.EnergyKcal100g != nil {
				kcal = fmt.Sprintf("%.0f", *ing.EnergyKcal100g)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", ing.ID, ing.Name, kcal)
		}
		w.Flush()
		return nil
	case "units":
		items, err := fetchDict(ctx, a, localdata.DictUnits, a.client.Units)
		if err != nil {
			return err
		}
		w := tableWriter()
		fmt.Fprintln(w, "CODE\tLABEL")
		for _, u := range items {
			fmt.Fprintf(w, "%s\t%s\n", u.Code, u.Label)
		}
		w.Flush()
		return nil
	case "category-types":
		items, err := fetchDict(ctx, a, localdata.DictCategoryTypes, a.client.CategoryTypes)
		if err != nil {
			return err
		}
		w := tableWriter()
		fmt.Fprintln(w, "ID\tNAME")
		for _, ct := range items {
			fmt.Fprintf(w, "%d\t%s\n", ct.ID, ct.NameType)
		}
		w.Flush()
		return nil
	case "category-values":
		items, err := fetchDict(ctx, a, localdata.DictCategoryValues, a.client.CategoryValues)
		if err != nil {
			return err
		}
		w := tableWriter()
		fmt.Fprintln(w, "ID\tTYPE\tVALUE")
		for _, cv := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", cv.ID, cv.TypeName, cv.CategoryValue)
		}
		w.Flush()
		return nil
	default:
		return fmt.Errorf("unknown dictionary %q", args[0])
	}
}

// fetchDict pulls a dictionary from the platform and mirrors it locally,
// falling back to the cached copy if the fetch fails.
func fetchDict[T any](ctx context.Context, a *app, name string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	items, err := fetch(ctx)
	if err == nil {
		if cerr := a.cache.SaveDictionary(name, items); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: offline cache not updated: %v\n", cerr)
		}
		return items, nil
	}

	var cached []T
	found, cerr := a.cache.LoadDictionary(name, &cached)
	if cerr != nil || !found {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "platform unreachable, showing cached %s: %v\n", name, err)
	return cached, nil
}

func (a *app) cmdOffline(_ context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cooknet offline list | search <term> | show <id> | purge")
	}
	switch args[0] {
	case "list":
		return a.printCachedRecipes(a.cache.Recipes())
	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: cooknet offline search <term>")
		}
		return a.printCachedRecipes(a.cache.SearchRecipes(args[1]))
	case "show":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		r, found, err := a.cache.Recipe(id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("recipe %d is not cached, fetch it once with: cooknet show %d", id, id)
		}
		printRecipe(*r, 0, a.client.ImageURL(r.Image))
		return nil
	case "purge":
		if err := a.cache.Purge(); err != nil {
			return err
		}
		fmt.Println("offline cache cleared")
		return nil
	default:
		return fmt.Errorf("unknown offline action %q", args[0])
	}
}

func (a *app) printCachedRecipes(recipes []types.Recipe, err error) error {
	if err != nil {
		return err
	}
	w := tableWriter()
	fmt.Fprintln(w, "ID\tNAME\tAUTHOR\tSTATUS")
	for _, r := range recipes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, r.Author.Username, r.Status)
	}
	w.Flush()
	return nil
}
