package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in user and token expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := app.Session()
			user := sess.User()
			if user == nil {
				return errors.New("not logged in")
			}

			fmt.Printf("Name:  %s\n", user.Name)
			fmt.Printf("Email: %s\n", user.Email)
			if user.IsAdmin {
				fmt.Println("Role:  admin")
			} else {
				fmt.Println("Role:  customer")
			}

			if exp, ok := sess.TokenExpiry(); ok {
				fmt.Printf("Token expires: %s\n", exp.Format(time.RFC1123))
			}
			return nil
		},
	}
}
