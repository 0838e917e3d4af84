package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// foodrun register <email> <password>
var registerCmd = &cobra.Command{
	Use:   "register <email> <password>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		sess, err := s.mgr.Register(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Registered and logged in as %s\n", sess.User.Username)
		return nil
	},
}

// foodrun login <email> <password>
var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		sess, err := s.mgr.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", sess.User.Username)
		return nil
	},
}

// foodrun logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.mgr.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// foodrun whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.requireUser(); err != nil {
			return err
		}

		user, err := s.gw.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s (id %d, %d points)\n", user.Username, user.ID, user.Points)
		return nil
	},
}
