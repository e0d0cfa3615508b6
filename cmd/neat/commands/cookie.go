package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/neatjs/neat/pkg/cookie"
)

func newCookieCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookie",
		Short: "Manage the cookie jar directly",
	}

	cmd.AddCommand(newCookieSetCommand())
	cmd.AddCommand(newCookieGetCommand())
	cmd.AddCommand(newCookieDeleteCommand())
	cmd.AddCommand(newCookieClearCommand())
	cmd.AddCommand(newCookieListCommand())
	cmd.AddCommand(newCookieWatchCommand())

	return cmd
}

// openCookies opens only the configured jar.
func openCookies() (*cookie.Store, cookie.Jar, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	e := &env{cfg: cfg}
	if err := e.openJar(); err != nil {
		return nil, nil, err
	}
	return cookie.NewStore(e.jar), e.jar, nil
}

func newCookieSetCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Write a cookie",
		Example: `  # Session cookie
  neat cookie set lang en

  # Cookie expiring in a week
  neat cookie set lang en --days 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openCookies()
			if err != nil {
				return err
			}

			if days == 0 {
				err = store.SetSession(args[0], args[1])
			} else {
				err = store.Set(args[0], args[1], days)
			}
			if err != nil {
				return fmt.Errorf("failed to set cookie: %w", err)
			}

			log.Debug().Str("name", args[0]).Int("days", days).Msg("Cookie written")
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "expiration in days (0 for a session cookie)")

	return cmd
}

func newCookieGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Print a cookie value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openCookies()
			if err != nil {
				return err
			}

			v, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("cookie %q not found", args[0])
			}
			return printResult(cmd, map[string]string{"name": args[0], "value": v}, v)
		},
	}
}

func newCookieDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Expire a cookie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openCookies()
			if err != nil {
				return err
			}
			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("failed to delete cookie: %w", err)
			}
			return nil
		},
	}
}

func newCookieClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Expire every cookie in the jar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := openCookies()
			if err != nil {
				return err
			}
			return store.ClearAll()
		},
	}
}

type cookieListing struct {
	Name    string     `json:"name"`
	Value   string     `json:"value"`
	Expires *time.Time `json:"expires,omitempty"`
}

// entryLister is implemented by jars that keep expirations.
type entryLister interface {
	Entries() ([]cookie.Entry, error)
}

func newCookieListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List live cookies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, jar, err := openCookies()
			if err != nil {
				return err
			}

			var listing []cookieListing
			if el, ok := jar.(entryLister); ok {
				entries, err := el.Entries()
				if err != nil {
					return err
				}
				for _, en := range entries {
					listing = append(listing, cookieListing{
						Name:    en.Name,
						Value:   cookie.Unescape(en.Value),
						Expires: en.Expires,
					})
				}
			} else {
				raw, err := jar.Cookie()
				if err != nil {
					return err
				}
				for _, name := range cookie.Names(raw) {
					v, _ := store.Get(name)
					listing = append(listing, cookieListing{Name: name, Value: v})
				}
			}
			sort.Slice(listing, func(i, j int) bool { return listing[i].Name < listing[j].Name })

			lines := make([]string, len(listing))
			for i, c := range listing {
				lines[i] = c.Name + "=" + c.Value
				if c.Expires != nil {
					lines[i] += "\t(expires " + c.Expires.UTC().Format(cookie.TimeFormat) + ")"
				}
			}
			return printResult(cmd, listing, strings.Join(lines, "\n"))
		},
	}
}

func newCookieWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the cookie string whenever the jar file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, jar, err := openCookies()
			if err != nil {
				return err
			}

			fj, ok := jar.(*cookie.FileJar)
			if !ok {
				return fmt.Errorf("watch requires the file cookie jar")
			}

			out := cmd.OutOrStdout()
			err = fj.Watch(cmd.Context(), func() {
				raw, err := fj.Cookie()
				if err != nil {
					log.Warn().Err(err).Msg("Failed to reload cookie jar")
					return
				}
				fmt.Fprintln(out, raw)
			})
			if err != nil {
				return err
			}

			log.Info().Str("path", fj.Path()).Msg("Watching cookie jar")
			<-cmd.Context().Done()
			return nil
		},
	}
}
