package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/noverdy/ispcli/internal/client/gateway"
	"github.com/noverdy/ispcli/internal/client/models"
	"github.com/noverdy/ispcli/internal/client/mutation"
)

// Dashboard runs the customer view: browse and search the package catalog
// and purchase a package through the staged confirmation flow.
func (a *App) Dashboard(ctx context.Context) error {
	user := a.session.User()
	if user == nil {
		return errors.New("please login first")
	}

	if err := a.catalog.Load(ctx); err != nil {
		return a.checkExpired(err)
	}
	defer a.catalog.CancelPendingSearch()

	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Name)
	fmt.Fprintln(a.out, "Commands: list, search <term>, buy <id>, exit")

	for {
		fmt.Fprintf(a.out, "packages> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return nil
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]
		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Commands: list, search <term>, buy <id>, exit")
		case "list":
			a.printPackages(a.catalog.Packages())
		case "search":
			a.catalog.DebouncedSearch(strings.Join(args, " "))
		case "buy":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "Usage: buy <id>")
				continue
			}
			if err := a.buy(ctx, args[0]); err != nil {
				if expErr := a.checkExpired(err); expErr != nil {
					return expErr
				}
				fmt.Fprintln(a.out, err.Error())
			}
		case "exit", "quit":
			return nil
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// buy drives the purchase confirmation workflow for one package.
func (a *App) buy(ctx context.Context, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid package id %q", rawID)
	}

	pkg, ok := a.catalog.Get(id)
	if !ok {
		return fmt.Errorf("no package with id %d", id)
	}

	if !a.purchase.Select(pkg) {
		return errors.New("another purchase is already in progress")
	}

	answer, err := getSimpleText(a.reader,
		fmt.Sprintf("Purchase the %s package for %s per month? (y/n)", pkg.Name, FormatCurrency(pkg.Price)), a.out)
	if err != nil || !strings.EqualFold(answer, "y") {
		a.purchase.Cancel()
		fmt.Fprintln(a.out, "Purchase cancelled.")
		return nil
	}

	confirmErr := a.purchase.Confirm(ctx)
	if errors.Is(confirmErr, gateway.ErrSessionExpired) {
		return confirmErr
	}
	if confirmErr == nil {
		fmt.Fprintln(a.out, a.purchase.Message())
		return nil
	}

	for a.purchase.State() == mutation.PurchaseFailed {
		fmt.Fprintln(a.out, a.purchase.Message())
		answer, err := getSimpleText(a.reader, "Try again? (y/n)", a.out)
		if err != nil || !strings.EqualFold(answer, "y") {
			a.purchase.Cancel()
			return nil
		}
		retryErr := a.purchase.Retry(ctx)
		if errors.Is(retryErr, gateway.ErrSessionExpired) {
			return retryErr
		}
		if retryErr == nil {
			fmt.Fprintln(a.out, a.purchase.Message())
			return nil
		}
	}
	return nil
}

func (a *App) printPackages(list []models.Package) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No packages found. Try adjusting your search term.")
		return
	}
	for _, p := range list {
		fmt.Fprintf(a.out, "%4d  %-24s %12s/month  %s\n", p.ID, p.Name, FormatCurrency(p.Price), p.Description)
	}
}

// checkExpired maps a forced logout to a view exit; other errors are shown
// inline and the view keeps running.
func (a *App) checkExpired(err error) error {
	if errors.Is(err, gateway.ErrSessionExpired) {
		fmt.Fprintln(a.out, "Your session has expired. Please login again.")
		return err
	}
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
	}
	return nil
}
