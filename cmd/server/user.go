package main

import (
	"fmt"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
	"github.com/lsandon/fertiviltro-app/internal/service"
	"github.com/spf13/cobra"
)

var (
	userName     string
	userPassword string
	userRole     string
)

// userCmd manages login accounts without going through the API.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user",
	Long: `Create a login account directly in the record store.

A client account sees only the client whose nombre equals its username.`,
	RunE: runUserAdd,
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Reset a user's password",
	RunE:  runUserPasswd,
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "username", "", "account username")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "account password")
	userAddCmd.Flags().StringVar(&userRole, "role", string(domain.RoleClient), "admin or client")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")

	userPasswdCmd.Flags().StringVar(&userName, "username", "", "account username")
	userPasswdCmd.Flags().StringVar(&userPassword, "password", "", "new password")
	_ = userPasswdCmd.MarkFlagRequired("username")
	_ = userPasswdCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd, userPasswdCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	_, logger, backend, store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	users := service.UserService{Users: repository.NewUserRepository(store), Logger: logger}
	u, err := users.Provision(cmd.Context(), service.RegisterInput{
		Username: userName,
		Password: userPassword,
		Role:     domain.UserRole(userRole),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", u.Username, u.Role)
	return nil
}

func runUserPasswd(cmd *cobra.Command, _ []string) error {
	_, logger, backend, store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	users := service.UserService{Users: repository.NewUserRepository(store), Logger: logger}
	if err := users.SetPassword(cmd.Context(), userName, userPassword); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", userName)
	return nil
}
