package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"meetbook/internal/caldav"
	"meetbook/internal/commands"
	"meetbook/internal/config"
	"meetbook/internal/edit"
	"meetbook/internal/google"
	"meetbook/internal/ics"
	"meetbook/internal/ledger"
	"meetbook/internal/models"
	"meetbook/internal/storage"
	"meetbook/internal/syncer"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "meetbook",
		Usage: "Keep track of contacts and the meetings you have with them.",
		Commands: []*cli.Command{
			personCommand(),
			meetingCommand(),
			exportCommand(),
			importICSCommand(),
			importGoogleCommand(),
			publishCommand(),
			authCommand(),
		},
	}
}

// session is one loaded ledger plus what is needed to save it again.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	file   *storage.File
	svc    *commands.Service
	out    io.Writer
}

func (s *session) ledger() *ledger.Ledger { return s.svc.Ledger() }

func (s *session) save() error {
	if err := s.file.Save(s.ledger().Snapshot()); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// openSession loads configuration and the ledger file.
func openSession(c *cli.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger()

	file := storage.NewFile(logger, cfg.LedgerFile)
	snap, err := file.LoadOrSample()
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	l := ledger.New(logger)
	if err := l.Load(snap); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	return &session{
		cfg:    cfg,
		logger: logger,
		file:   file,
		svc:    commands.NewService(l, logger),
		out:    c.App.Writer,
	}, nil
}

// mutating wraps an action that changes the ledger; the ledger is saved when
// the action succeeds and --dry-run was not given.
func mutating(fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		if err := fn(c, s); err != nil {
			return err
		}
		if c.Bool("dry-run") {
			s.logger.Info("Dry run, ledger not saved.", "file", s.cfg.LedgerFile)
			return nil
		}
		return s.save()
	}
}

func readOnly(fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		return fn(c, s)
	}
}

func personFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: required, Usage: "full name"},
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: required, Usage: "email address"},
		&cli.StringFlag{Name: "phone", Aliases: []string{"p"}, Required: required, Usage: "phone number"},
		&cli.StringFlag{Name: "company", Aliases: []string{"c"}, Required: required, Usage: "company"},
		&cli.StringFlag{Name: "position", Aliases: []string{"j"}, Required: required, Usage: "job title"},
		&cli.StringFlag{Name: "importance", Aliases: []string{"i"}, Required: required, Usage: "low, medium or high"},
		&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "tag, may be repeated"},
	}
}

func personCommand() *cli.Command {
	return &cli.Command{
		Name:  "person",
		Usage: "Manage contacts.",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a contact.",
				Flags: personFlags(true),
				Action: mutating(func(c *cli.Context, s *session) error {
					p, err := models.BuildPerson(c.String("name"), c.String("email"), c.String("phone"),
						c.String("company"), c.String("position"), c.String("importance"), c.StringSlice("tag"))
					if err != nil {
						return err
					}
					if err := s.svc.AddPerson(p); err != nil {
						return err
					}
					fmt.Fprintf(s.out, "New contact added: %s\n", p)
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Edit the contact at INDEX in the contact list.",
				ArgsUsage: "INDEX",
				Flags:     personFlags(false),
				Action: mutating(func(c *cli.Context, s *session) error {
					index, err := indexArg(c)
					if err != nil {
						return err
					}
					d, err := personDescriptor(c)
					if err != nil {
						return err
					}
					p, err := s.svc.EditPerson(index, d)
					if err != nil {
						return err
					}
					fmt.Fprintf(s.out, "Edited contact: %s\n", p)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete the contact at INDEX in the contact list.",
				ArgsUsage: "INDEX",
				Action: mutating(func(c *cli.Context, s *session) error {
					index, err := indexArg(c)
					if err != nil {
						return err
					}
					p, err := s.svc.DeletePerson(index)
					if err != nil {
						return err
					}
					fmt.Fprintf(s.out, "Deleted contact: %s\n", p)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "List all contacts.",
				Action: readOnly(func(c *cli.Context, s *session) error {
					printPersons(s.out, s.svc.ListPersons())
					return nil
				}),
			},
			{
				Name:  "find",
				Usage: "List contacts whose name or company contains any of the keywords.",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "name", Aliases: []string{"n"}, Usage: "name keyword, may be repeated"},
					&cli.StringSliceFlag{Name: "company", Aliases: []string{"c"}, Usage: "company keyword, may be repeated"},
				},
				Action: readOnly(func(c *cli.Context, s *session) error {
					if len(c.StringSlice("name")) == 0 && len(c.StringSlice("company")) == 0 {
						return fmt.Errorf("at least one --name or --company keyword is required")
					}
					printPersons(s.out, s.svc.Find(c.StringSlice("name"), c.StringSlice("company")))
					return nil
				}),
			},
			{
				Name:      "filter",
				Usage:     "List contacts with a tag containing TERM.",
				ArgsUsage: "TERM",
				Action: readOnly(func(c *cli.Context, s *session) error {
					if c.NArg() != 1 {
						return fmt.Errorf("expected exactly one TERM argument")
					}
					printPersons(s.out, s.svc.FilterByTag(c.Args().First()))
					return nil
				}),
			},
			{
				Name:  "sort",
				Usage: "List contacts sorted by name or importance.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "by", Value: "name", Usage: "name or importance"},
					&cli.StringFlag{Name: "order", Value: "asc", Usage: "asc or desc"},
				},
				Action: readOnly(func(c *cli.Context, s *session) error {
					list, err := s.svc.SortPersons(c.String("by"), c.String("order"))
					if err != nil {
						return err
					}
					printPersons(s.out, list)
					return nil
				}),
			},
		},
	}
}

func meetingFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "time", Aliases: []string{"dt"}, Required: required, Usage: "yyyy-MM-dd HH:mm, dd/MM/yyyy HH:mm or MM/dd/yyyy HH:mm"},
		&cli.StringSliceFlag{Name: "person", Aliases: []string{"mp"}, Required: required, Usage: "participant name, may be repeated"},
		&cli.StringFlag{Name: "notes", Aliases: []string{"mn"}, Usage: "notes"},
	}
}

func meetingCommand() *cli.Command {
	return &cli.Command{
		Name:  "meeting",
		Usage: "Manage meetings.",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a meeting.",
				Flags: meetingFlags(true),
				Action: mutating(func(c *cli.Context, s *session) error {
					at, err := models.ParseMeetingTime(c.String("time"))
					if err != nil {
						return err
					}
					m := models.NewMeeting(at, c.StringSlice("person"), models.NewNotes(c.String("notes")))
					if err := s.svc.AddMeeting(m); err != nil {
						return err
					}
					fmt.Fprintf(s.out, "New meeting added: %s\n", m)
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Edit the meeting at INDEX in the meeting list.",
				ArgsUsage: "INDEX",
				Flags:     meetingFlags(false),
				Action: mutating(func(c *cli.Context, s *session) error {
					index, err := indexArg(c)
					if err != nil {
						return err
					}
					d, err := meetingDescriptor(c)
					if err != nil {
						return err
					}
					s.svc.ListMeetings()
					m, err := s.svc.EditMeeting(index, d)
					if err != nil {
						return err
					}
					fmt.Fprintf(s.out, "Edited meeting: %s\n", m)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete the meeting at INDEX in the meeting list.",
				ArgsUsage: "INDEX",
				Action: mutating(func(c *cli.Context, s *session) error {
					index, err := indexArg(c)
					if err != nil {
						return err
					}
					s.svc.ListMeetings()
					m, err := s.svc.DeleteMeeting(index)
					if err != nil {
						return err
					}
					fmt.Fprintf(s.out, "Deleted meeting: %s\n", m)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "List meetings in time order.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "with", Usage: "only meetings this person takes part in"},
				},
				Action: readOnly(func(c *cli.Context, s *session) error {
					list := s.svc.ListMeetings()
					if c.IsSet("with") {
						list = s.svc.MeetingsWith(c.String("with"))
					}
					printMeetings(s.out, list)
					return nil
				}),
			},
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write all meetings to an iCalendar file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "meetings.ics", Usage: "output file, - for stdout"},
		},
		Action: readOnly(func(c *cli.Context, s *session) error {
			opts, err := icsOptions(s.cfg)
			if err != nil {
				return err
			}
			w := s.out
			if path := c.String("out"); path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				defer f.Close()
				w = f
			}
			meetings := s.svc.ListMeetings()
			if err := ics.Encode(w, meetings, s.ledger().Persons(), opts); err != nil {
				return err
			}
			s.logger.Info("Exported meetings.", "count", len(meetings), "file", c.String("out"))
			return nil
		}),
	}
}

func importICSCommand() *cli.Command {
	return &cli.Command{
		Name:      "import-ics",
		Usage:     "Import events from an iCalendar file as meetings.",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be imported without making changes."},
		},
		Action: mutating(func(c *cli.Context, s *session) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one FILE argument")
			}
			opts, err := icsOptions(s.cfg)
			if err != nil {
				return err
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return fmt.Errorf("failed to open calendar file: %w", err)
			}
			defer f.Close()

			events, err := ics.Decode(f, opts.Location)
			if err != nil {
				return err
			}
			return runImport(s, events, opts, c.Bool("dry-run"))
		}),
	}
}

func importGoogleCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-google",
		Usage: "Import upcoming Google Calendar events as meetings.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be imported without making changes."},
		},
		Action: mutating(func(c *cli.Context, s *session) error {
			opts, err := icsOptions(s.cfg)
			if err != nil {
				return err
			}
			creds := googleCredentials(s.cfg)
			accounts, err := google.Accounts(creds)
			if err != nil {
				return fmt.Errorf("could not find any google accounts, did you run auth command? %w", err)
			}
			if len(accounts) == 0 {
				return fmt.Errorf("no google accounts found. Run the 'auth' command first")
			}

			var sources []syncer.EventSource
			for _, acc := range accounts {
				client, err := google.NewClient(c.Context, s.logger, creds, acc)
				if err != nil {
					return fmt.Errorf("failed to create google client for account %s: %w", acc, err)
				}
				sources = append(sources, client)
			}
			s.logger.Info("Initialized Google clients for all accounts.", "count", len(sources))

			events := syncer.FetchEvents(c.Context, s.logger, sources, s.cfg.Google.CalendarIDs, s.cfg.Google.LookaheadDays)
			return runImport(s, events, opts, c.Bool("dry-run"))
		}),
	}
}

func runImport(s *session, events []*models.Event, opts ics.Options, dryRun bool) error {
	sy, err := syncer.NewSyncer(s.logger, s.ledger(), nil, s.cfg.StateFile, dryRun, opts)
	if err != nil {
		return fmt.Errorf("failed to create syncer: %w", err)
	}
	res := sy.Import(events)
	fmt.Fprintf(s.out, "Imported %d meetings (%d skipped, %d rejected).\n", res.Added, res.Skipped, res.Failed)
	return nil
}

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Publish meetings to a CalDAV calendar.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be published without making changes."},
			&cli.IntFlag{Name: "watch", Value: 300, Usage: "Publish every N seconds instead of once."},
		},
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			if c.Bool("dry-run") {
				s.logger.Info("Performing a dry run. No changes will be made.")
			}
			opts, err := icsOptions(s.cfg)
			if err != nil {
				return err
			}
			client, err := caldav.NewClient(c.Context, s.logger, caldav.Config{
				Endpoint:     s.cfg.CalDAV.Endpoint,
				Username:     s.cfg.CalDAV.Username,
				Password:     s.cfg.CalDAV.Password,
				CalendarName: s.cfg.CalDAV.CalendarName,
			})
			if err != nil {
				return fmt.Errorf("failed to create caldav client: %w", err)
			}
			sy, err := syncer.NewSyncer(s.logger, s.ledger(), client, s.cfg.StateFile, c.Bool("dry-run"), opts)
			if err != nil {
				return fmt.Errorf("failed to create syncer: %w", err)
			}

			if !c.IsSet("watch") {
				s.logger.Info("Running a single publish cycle.")
				if _, err := sy.Publish(c.Context); err != nil {
					return fmt.Errorf("publish cycle failed: %w", err)
				}
				return nil
			}
			return watch(c.Context, s, sy, time.Duration(c.Int("watch"))*time.Second)
		},
	}
}

// watch republishes on every tick, reloading the ledger file first so edits
// made by other invocations are picked up.
func watch(ctx context.Context, s *session, sy *syncer.Syncer, interval time.Duration) error {
	s.logger.Info("Starting watcher.", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if snap, err := s.file.Load(); err != nil {
			s.logger.Error("Failed to reload ledger", "error", err)
		} else if err := s.ledger().Load(snap); err != nil {
			s.logger.Error("Failed to reload ledger", "error", err)
		}
		if _, err := sy.Publish(ctx); err != nil {
			s.logger.Error("Publish cycle failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.Logger()
			logger.Info("Starting Google authentication flow.")

			creds := googleCredentials(cfg)
			oauthConfig, err := google.OAuthConfig(creds)
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Fprintf(c.App.Writer, "Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Fprint(c.App.Writer, "Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')

			token, err := google.Exchange(c.Context, oauthConfig, strings.TrimSpace(authCode))
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Fprint(c.App.Writer, "Enter a name for this account (e.g., 'personal', 'work'): ")
			account, _ := reader.ReadString('\n')

			path, err := google.SaveToken(creds, strings.TrimSpace(account), token)
			if err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			logger.Info("Successfully authenticated and saved token.", "file", path)
			return nil
		},
	}
}

func printPersons(w io.Writer, list []*models.Person) {
	for i, p := range list {
		fmt.Fprintf(w, "%d. %s\n", i+1, p)
	}
	fmt.Fprintf(w, "%d contacts listed.\n", len(list))
}

func printMeetings(w io.Writer, list []*models.Meeting) {
	for i, m := range list {
		fmt.Fprintf(w, "%d. %s\n", i+1, m)
	}
	fmt.Fprintf(w, "%d meetings listed.\n", len(list))
}

func indexArg(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one INDEX argument")
	}
	index, err := strconv.Atoi(c.Args().First())
	if err != nil || index < 1 {
		return 0, fmt.Errorf("%w: INDEX must be a positive integer", commands.ErrInvalidIndex)
	}
	return index, nil
}

// personDescriptor collects the person flags that were given.
func personDescriptor(c *cli.Context) (edit.PersonDescriptor, error) {
	var d edit.PersonDescriptor
	if c.IsSet("name") {
		v, err := models.NewName(c.String("name"))
		if err != nil {
			return d, err
		}
		d.Name = edit.Set(v)
	}
	if c.IsSet("email") {
		v, err := models.NewEmail(c.String("email"))
		if err != nil {
			return d, err
		}
		d.Email = edit.Set(v)
	}
	if c.IsSet("phone") {
		v, err := models.NewPhone(c.String("phone"))
		if err != nil {
			return d, err
		}
		d.Phone = edit.Set(v)
	}
	if c.IsSet("company") {
		v, err := models.NewCompany(c.String("company"))
		if err != nil {
			return d, err
		}
		d.Company = edit.Set(v)
	}
	if c.IsSet("position") {
		v, err := models.NewPosition(c.String("position"))
		if err != nil {
			return d, err
		}
		d.Position = edit.Set(v)
	}
	if c.IsSet("importance") {
		v, err := models.ParseImportance(c.String("importance"))
		if err != nil {
			return d, err
		}
		d.Importance = edit.Set(v)
	}
	if c.IsSet("tag") {
		v, err := models.NewTags(c.StringSlice("tag")...)
		if err != nil {
			return d, err
		}
		d.Tags = edit.Set(v)
	}
	return d, nil
}

// meetingDescriptor collects the meeting flags that were given.
func meetingDescriptor(c *cli.Context) (edit.MeetingDescriptor, error) {
	var d edit.MeetingDescriptor
	if c.IsSet("time") {
		at, err := models.ParseMeetingTime(c.String("time"))
		if err != nil {
			return d, err
		}
		d.Time = edit.Set(at)
	}
	if c.IsSet("person") {
		d.Participants = edit.Set(c.StringSlice("person"))
	}
	if c.IsSet("notes") {
		d.Notes = edit.Set(models.NewNotes(c.String("notes")))
	}
	return d, nil
}

func icsOptions(cfg *config.Config) (ics.Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return ics.Options{}, err
	}
	return ics.Options{Location: loc, Duration: cfg.MeetingDuration}, nil
}

func googleCredentials(cfg *config.Config) google.Credentials {
	return google.Credentials{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		TokenDir:     cfg.Google.TokenDir,
	}
}
