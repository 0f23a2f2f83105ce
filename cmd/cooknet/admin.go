package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"cooknet-client/internal/types"
)

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cooknet admin users | user | roles | block | unblock | stats | audit | ingredients | feedback")
	}
	switch args[0] {
	case "users":
		return a.adminUsers(ctx, args[1:])
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("usage: cooknet admin user <email>")
		}
		u, err := a.client.AdminUserByEmail(ctx, args[1])
		if err != nil {
			return err
		}
		printUser(*u)
		return nil
	case "roles":
		if len(args) < 3 {
			return fmt.Errorf("usage: cooknet admin roles <user-id> <ROLE,...>")
		}
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		return a.client.AdminUpdateUserRoles(ctx, id, strings.Split(args[2], ","))
	case "block":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		return a.client.AdminSetUserBlocked(ctx, id, true)
	case "unblock":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		return a.client.AdminSetUserBlocked(ctx, id, false)
	case "stats":
		return a.adminStats(ctx)
	case "audit":
		return a.adminAudit(ctx, args[1:])
	case "ingredients":
		return a.adminIngredients(ctx, args[1:])
	case "feedback":
		return a.adminFeedback(ctx, args[1:])
	default:
		return fmt.Errorf("unknown admin action %q", args[0])
	}
}

func (a *app) adminUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin users", flag.ExitOnError)
	role := fs.String("role", "", "only users with this role")
	email := fs.String("email", "", "email contains")
	blocked := fs.Bool("blocked", false, "only blocked users")
	fs.Parse(args)

	var (
		users []types.User
		err   error
	)
	if *role == "" && *email == "" && !*blocked {
		users, err = a.client.AdminUsers(ctx)
	} else {
		filter := types.UserFilter{Role: *role, Email: *email}
		if *blocked {
			b := true
			filter.Blocked = &b
		}
		users, err = a.client.AdminFilterUsers(ctx, filter)
	}
	if err != nil {
		return err
	}

	w := tableWriter()
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLES\tBLOCKED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, strings.Join(u.Roles, ","), u.Blocked)
	}
	w.Flush()
	return nil
}

func (a *app) adminStats(ctx context.Context) error {
	stats, err := a.client.AdminStatistics(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("users: %d, recipes: %d, ingredients: %d\n",
		stats.TotalUsers, stats.TotalRecipes, stats.TotalIngredients)

	if len(stats.PopularCategoriesValue) > 0 {
		fmt.Println("popular categories:")
		for _, cs := range stats.PopularCategoriesValue {
			fmt.Printf("  %s (%d recipes)\n", cs.CategoryValueName, cs.RecipeCount)
		}
	}
	if len(stats.TopAuthors) > 0 {
		fmt.Println("top authors:")
		for _, as := range stats.TopAuthors {
			fmt.Printf("  %s (%d recipes)\n", as.Username, as.RecipeCount)
		}
	}
	return nil
}

func (a *app) adminAudit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin audit", flag.ExitOnError)
	actionType := fs.String("action", "", "filter by action type, e.g. UPDATE")
	entityType := fs.String("entity", "", "filter by entity type, e.g. RECIPE")
	fs.Parse(args)

	var (
		entries []types.AuditEntry
		err     error
	)
	if *actionType == "" && *entityType == "" {
		entries, err = a.client.AdminAuditLogs(ctx)
	} else {
		entries, err = a.client.AdminFilterAuditLogs(ctx, types.AuditFilter{
			ActionType: *actionType,
			EntityType: *entityType,
		})
	}
	if err != nil {
		return err
	}

	w := tableWriter()
	fmt.Fprintln(w, "WHEN\tADMIN\tACTION\tENTITY\tID\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.CreatedAt, e.AdminEmail, e.ActionType, e.EntityType, e.EntityID, e.Description)
	}
	w.Flush()
	return nil
}

func (a *app) adminIngredients(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		items, err := a.client.AdminIngredients(ctx)
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
	case "add":
		fs := flag.NewFlagSet("admin ingredients add", flag.ExitOnError)
		name := fs.String("name", "", "ingredient name")
		kcal := fs.Float64("kcal", 0, "energy per 100g")
		fs.Parse(args[1:])
		req := types.IngredientRequest{Name: *name}
		if *kcal > 0 {
			req.EnergyKcal100g = kcal
		}
		ing, err := a.client.AdminCreateIngredient(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("created ingredient %d %q\n", ing.ID, ing.Name)
		return nil
	case "delete":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		return a.client.AdminDeleteIngredient(ctx, id)
	default:
		return fmt.Errorf("unknown ingredients action %q", args[0])
	}
}

func (a *app) adminFeedback(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		page, err := a.client.AdminFeedbackTickets(ctx, 0, 20)
		if err != nil {
			return err
		}
		w := tableWriter()
		fmt.Fprintln(w, "ID\tTOPIC\tSTATUS\tFROM\tMESSAGE")
		for _, t := range page.Content {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Topic, t.Status, t.Email, t.Message)
		}
		w.Flush()
		return nil
	case "status":
		if len(args) < 3 {
			return fmt.Errorf("usage: cooknet admin feedback status <id> <NEW|IN_PROGRESS|RESOLVED|REJECTED>")
		}
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		return a.client.AdminUpdateFeedbackStatus(ctx, id, types.FeedbackStatus(args[2]))
	default:
		return fmt.Errorf("unknown feedback action %q", args[0])
	}
}

func printUser(u types.User) {
	fmt.Printf("%s <%s> id %d\n", u.Username, u.Email, u.ID)
	fmt.Printf("roles: %s\n", strings.Join(u.Roles, ", "))
	fmt.Printf("registered: %s\n", u.RegistrationDate)
	if u.LastLoginAt != nil {
		fmt.Printf("last login: %s\n", *u.LastLoginAt)
	}
	if u.Blocked {
		fmt.Println("account is blocked")
	}
}
