package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var (
		userIDStr   string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a profile snapshot into the SQLite store",
		Long:  "Replace a user's skills, education, experience and resume in the SQLite store with the contents of a profile snapshot file. A new user ID is generated when --user is omitted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID := uuid.New()
			if userIDStr != "" {
				parsed, err := uuid.Parse(userIDStr)
				if err != nil {
					return fmt.Errorf("invalid user ID: %w", err)
				}
				userID = parsed
			}

			p, err := readProfile(profilePath)
			if err != nil {
				return err
			}

			ctx := background(cmd)
			rt, err := root.open(ctx, runtimeOptions{store: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.sqlite == nil {
				return fmt.Errorf("import supports only the SQLite store; unset DATABASE_URL and set SQLITE_PATH")
			}
			if err := rt.sqlite.ImportProfile(ctx, userID, p); err != nil {
				return err
			}

			rt.logger.Info("profile imported", "user_id", userID.String(), "skills", len(p.Skills))
			return writeJSON(cmd.OutOrStdout(), "", map[string]string{"userId": userID.String()})
		},
	}

	cmd.Flags().StringVarP(&userIDStr, "user", "u", "", "User ID to import into (default: new ID)")
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Profile snapshot JSON file (required)")
	mustMarkRequired(cmd, "profile")
	return cmd
}
