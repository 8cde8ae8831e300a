package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/noverdy/ispcli/internal/client/models"
)

// Admin runs the package-management view: list, search, create, edit and
// delete packages. Requires an administrator account.
func (a *App) Admin(ctx context.Context) error {
	user := a.session.User()
	if user == nil {
		return errors.New("please login first")
	}
	if !user.IsAdmin {
		return errors.New("admin privileges required")
	}

	if err := a.adminCatalog.Load(ctx); err != nil {
		return a.checkExpired(err)
	}
	defer a.adminCatalog.CancelPendingSearch()

	fmt.Fprintln(a.out, "Package management. Commands: list, search <term>, create, edit <id>, delete <id>, exit")

	for {
		fmt.Fprintf(a.out, "admin> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Commands: list, search <term>, create, edit <id>, delete <id>, exit")
		case "list":
			a.printPackages(a.adminCatalog.Packages())
		case "search":
			a.adminCatalog.DebouncedSearch(strings.Join(args, " "))
		case "create":
			cmdErr = a.createPackage(ctx)
		case "edit":
			cmdErr = a.withPackageID(args, func(id int64) error { return a.editPackage(ctx, id) })
		case "delete":
			cmdErr = a.withPackageID(args, func(id int64) error { return a.deletePackage(ctx, id) })
		case "exit", "quit":
			return nil
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			if err := a.checkExpired(cmdErr); err != nil {
				return err
			}
		}
	}
}

func (a *App) withPackageID(args []string, fn func(id int64) error) error {
	if len(args) != 1 {
		return errors.New("expected a package id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid package id %q", args[0])
	}
	return fn(id)
}

func (a *App) createPackage(ctx context.Context) error {
	draft, err := a.promptDraft(models.PackageDraft{})
	if err != nil {
		return err
	}

	created, err := a.coordinator.Create(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created package %d: %s\n", created.ID, created.Name)
	return nil
}

// editPackage applies the edit optimistically: the prompt closes and the new
// value is visible immediately, then the server call settles in the
// background semantics of the coordinator (rollback on failure).
func (a *App) editPackage(ctx context.Context, id int64) error {
	prior, ok := a.adminCatalog.Get(id)
	if !ok {
		return fmt.Errorf("no package with id %d", id)
	}

	draft, err := a.promptDraft(models.PackageDraft{Name: prior.Name, Description: prior.Description, Price: prior.Price})
	if err != nil {
		return err
	}

	if err := a.coordinator.Update(ctx, id, draft); err != nil {
		fmt.Fprintln(a.out, "Update failed, changes were reverted.")
		return err
	}
	fmt.Fprintf(a.out, "Updated package %d.\n", id)
	return nil
}

func (a *App) deletePackage(ctx context.Context, id int64) error {
	pkg, ok := a.adminCatalog.Get(id)
	if !ok {
		return fmt.Errorf("no package with id %d", id)
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete the %s package? (y/n)", pkg.Name), a.out)
	if err != nil || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Delete cancelled.")
		return nil
	}

	if err := a.coordinator.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted package %d.\n", id)
	return nil
}

// promptDraft collects the editable package fields. Empty input keeps the
// default shown in the prompt, so edits can change a single field.
func (a *App) promptDraft(defaults models.PackageDraft) (models.PackageDraft, error) {
	draft := defaults

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", defaults.Name), a.out)
	if err != nil {
		return draft, err
	}
	if name != "" {
		draft.Name = name
	}

	description, err := getSimpleText(a.reader, fmt.Sprintf("Description [%s]", defaults.Description), a.out)
	if err != nil {
		return draft, err
	}
	if description != "" {
		draft.Description = description
	}

	rawPrice, err := getSimpleText(a.reader, fmt.Sprintf("Price in minor units [%d]", defaults.Price), a.out)
	if err != nil {
		return draft, err
	}
	if rawPrice != "" {
		price, err := strconv.ParseInt(rawPrice, 10, 64)
		if err != nil {
			return draft, &ValidationError{Field: "price", Reason: "must be an integer amount"}
		}
		draft.Price = price
	}

	if err := validateName(draft.Name); err != nil {
		return draft, err
	}
	if err := validatePrice(draft.Price); err != nil {
		return draft, err
	}
	return draft, nil
}
