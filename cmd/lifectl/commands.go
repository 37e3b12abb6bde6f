package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EPFL-Life/life-sub001/internal/auth"
	"github.com/EPFL-Life/life-sub001/internal/bootstrap"
	"github.com/EPFL-Life/life-sub001/internal/geocode"
	"github.com/EPFL-Life/life-sub001/internal/model"
	"github.com/EPFL-Life/life-sub001/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create sample associations and events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		repos, closeRepos, err := bootstrap.Repositories(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepos()

		publisher, closePublisher, err := bootstrap.Publisher(cfg)
		if err != nil {
			return err
		}
		defer closePublisher()

		associations := service.NewAssociationServiceImpl(repos.Associations, repos.Events, publisher)
		events := service.NewEventServiceImpl(repos.Events, repos.Associations, publisher)

		n, err := seed(ctx, associations, events)
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records\n", n)

		return err
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		repos, closeRepos, err := bootstrap.Repositories(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRepos()

		events := service.NewEventServiceImpl(repos.Events, repos.Associations, nil)

		tag, _ := cmd.Flags().GetString("tag")

		var list []model.Event
		if tag != "" {
			list, err = events.ListByTag(ctx, tag)
		} else {
			list, err = events.List(ctx)
		}
		if err != nil {
			return err
		}

		return printEvents(cmd, list)
	},
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode <query>",
	Short: "Resolve a place name to coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		locations, err := geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderTimeout).Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(locations)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <uid> <name>",
	Short: "Issue a development sign-in token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		identity := auth.Identity{UserID: args[0], Name: args[1]}

		if admin, _ := cmd.Flags().GetBool("admin"); admin {
			if err := promote(cmd, identity); err != nil {
				return err
			}
		}

		token, err := auth.NewIssuer(cfg.AuthSecret, cfg.AuthTokenTTL).Issue(identity)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)

		return nil
	},
}

func promote(cmd *cobra.Command, identity auth.Identity) error {
	ctx := cmd.Context()

	repos, closeRepos, err := bootstrap.Repositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	users := service.NewUserServiceImpl(repos.Users, repos.Associations, repos.Events, repos.Tx, nil)
	if _, err := users.SignIn(ctx, identity.UserID, identity.Name); err != nil {
		return err
	}

	_, err = users.SetRole(ctx, identity.UserID, model.RoleAdmin)

	return err
}

func printEvents(cmd *cobra.Command, events []model.Event) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tASSOCIATION\tTIME\tPRICE\tTAGS")

	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%v\n", e.ID, e.Title, e.AssociationID, e.Time, e.Price, []string(e.Tags))
	}

	return w.Flush()
}
