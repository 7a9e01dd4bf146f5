package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cl "bandlife/internal/cli"
	"bandlife/internal/config"
	"bandlife/internal/game"
	"bandlife/internal/syncq"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "bnd",
		Short:        "Bandlife CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newStatusCmd(&apiBase),
		newStartCmd(&apiBase),
		newWorkCmd(&apiBase),
		newRestCmd(&apiBase),
		newPracticeCmd(&apiBase),
		newPerformCmd(&apiBase),
		newVenuesCmd(&apiBase),
		newShopCmd(&apiBase),
		newAdventureCmd(&apiBase),
		newRetireCmd(&apiBase),
		newSyncCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a Bandlife account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Signup(ctx, email, password)
			if err != nil {
				return err
			}
			if strings.TrimSpace(session.AccessToken) == "" {
				printWarn("Signup created. Verify email, then run `bnd login`.")
				return nil
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Signup complete. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to Bandlife",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your band's current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.CurrentGame(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderGame(out)
		},
	}
}

func newStartCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a new playthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			name, err := promptRequired("Character name")
			if err != nil {
				return err
			}
			position, err := promptChoice("Position", game.Positions, "vocals")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.StartGame(ctx, sess.AccessToken, name, position, "", 0)
			if err != nil {
				return err
			}
			printSuccess("New playthrough started. Good luck out there.")
			return renderGame(out)
		},
	}
}

func newWorkCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Work a part-time job for money",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, "work", func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error) {
				return client.Work(ctx, token, idem)
			}, syncq.Command{Action: "work"})
		},
	}
}

func newRestCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rest",
		Short: "Rest to recover mental health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, "rest", func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error) {
				return client.Rest(ctx, token, idem)
			}, syncq.Command{Action: "rest"})
		},
	}
}

func newPracticeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "practice",
		Short: "Run a practice session (rhythm minigame score 0-100)",
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := promptInt("Session score (0-100)", 0, 100)
			if err != nil {
				return err
			}
			return runAction(cmd, apiBase, "practice", func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error) {
				return client.Practice(ctx, token, idem, score)
			}, syncq.Command{Action: "practice", Score: score})
		},
	}
}

func newPerformCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "perform [venue]",
		Short: "Play a show at a venue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var venueID string
			var err error
			if len(args) > 0 {
				venueID = strings.ToLower(strings.TrimSpace(args[0]))
			} else {
				venueID, err = promptRequired("Venue ID (see `bnd venues`)")
				if err != nil {
					return err
				}
			}
			return runAction(cmd, apiBase, "perform", func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error) {
				return client.Perform(ctx, token, venueID, idem)
			}, syncq.Command{Action: "perform", Venue: venueID})
		},
	}
}

func newVenuesCmd(apiBase *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venues",
		Short: "List venues your band can play",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			all, _ := cmd.Flags().GetBool("all")
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ListVenues(ctx, sess.AccessToken, all)
			if err != nil {
				return err
			}
			return renderVenues(out)
		},
	}
	cmd.Flags().Bool("all", false, "include venues above your fame")
	return cmd
}

func newShopCmd(apiBase *string) *cobra.Command {
	shop := &cobra.Command{
		Use:   "shop",
		Short: "Instrument shop commands",
	}
	shop.AddCommand(newShopOffersCmd(apiBase))
	shop.AddCommand(newShopBuyCmd(apiBase))
	shop.AddCommand(newShopRepairCmd(apiBase))
	shop.AddCommand(newShopLeaveCmd(apiBase))
	return shop
}

func newShopOffersCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "offers [member]",
		Short: "Browse instruments on offer for a member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			member := "main"
			if len(args) > 0 {
				member = strings.ToLower(strings.TrimSpace(args[0]))
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.ShopOffers(ctx, sess.AccessToken, member)
			if err != nil {
				return err
			}
			return renderOffers(out, member)
		},
	}
}

func newShopBuyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy [member]",
		Short: "Buy an instrument from the current offers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			member := "main"
			if len(args) > 0 {
				member = strings.ToLower(strings.TrimSpace(args[0]))
			}
			itemName, err := promptRequired("Instrument name")
			if err != nil {
				return err
			}
			itemPower, err := promptInt("Instrument power", 1, 1000)
			if err != nil {
				return err
			}
			idem := uuid.NewString()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Purchase(ctx, sess.AccessToken, member, itemName, itemPower, idem)
			if err != nil {
				// Purchases are never queued offline: the offer may
				// not exist by the time the queue replays.
				return err
			}
			return renderGame(out)
		},
	}
}

func newShopRepairCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repair [member]",
		Short: "Repair a member's instrument",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			member := "main"
			if len(args) > 0 {
				member = strings.ToLower(strings.TrimSpace(args[0]))
			}
			return runAction(cmd, apiBase, "repair", func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error) {
				return client.Repair(ctx, token, member, idem)
			}, syncq.Command{Action: "repair", Member: member})
		},
	}
}

func newShopLeaveCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the shop without buying",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, "leave_shop", func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error) {
				return client.LeaveShop(ctx, token, idem)
			}, syncq.Command{Action: "leave_shop"})
		},
	}
}

func newAdventureCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "adventure",
		Short: "Go on today's adventure (once per day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, apiBase, "adventure", func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error) {
				return client.Adventure(ctx, token, idem)
			}, syncq.Command{Action: "adventure"})
		},
	}
}

func newRetireCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "retire",
		Short: "End the current playthrough",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			confirm, err := promptChoice("Retire the band? This ends the run", []string{"yes", "no"}, "no")
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printInfo("The show goes on.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			out, err := client.Retire(ctx, sess.AccessToken, uuid.NewString())
			if err != nil {
				return err
			}
			printSuccess("Playthrough retired.")
			return renderGame(out)
		},
	}
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay locally queued offline actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			queue, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			commands := make([]map[string]any, 0, len(queue))
			for _, q := range queue {
				commands = append(commands, map[string]any{
					"action":          q.Action,
					"game_id":         q.GameID,
					"score":           q.Score,
					"venue":           q.Venue,
					"member":          q.Member,
					"idempotency_key": q.IdempotencyKey,
				})
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			out, err := client.SyncReplay(ctx, sess.AccessToken, commands)
			if err != nil {
				return err
			}
			if err := syncq.Clear(); err != nil {
				return err
			}
			return renderSyncResults(out)
		},
	}
}

type actionFunc func(ctx context.Context, client *cl.Client, token, idem string) (map[string]any, error)

// runAction performs one authenticated game action. When the request
// dies on the wire the command goes into the local queue for the next
// `bnd sync`; API-level rejections surface immediately.
func runAction(cmd *cobra.Command, apiBase *string, name string, fn actionFunc, queued syncq.Command) error {
	sess, err := cl.LoadSession()
	if err != nil {
		return fmt.Errorf("login required: %w", err)
	}
	idem := uuid.NewString()
	client := newClient(apiBase)
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	out, err := fn(ctx, client, sess.AccessToken, idem)
	if err != nil {
		if isAPIStructuredError(err) {
			return err
		}
		queued.IdempotencyKey = idem
		if qErr := syncq.Push(queued); qErr != nil {
			return fmt.Errorf("request failed and could not queue: %v (%w)", qErr, err)
		}
		printWarn(fmt.Sprintf("Offline: queued %s for `bnd sync`.", name))
		return nil
	}
	return renderAction(name, out)
}

func isAPIStructuredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "api status")
}
