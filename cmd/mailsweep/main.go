package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dcortes/mailsweep/internal/agent"
	"github.com/dcortes/mailsweep/internal/config"
	"github.com/dcortes/mailsweep/internal/logging"
	"github.com/dcortes/mailsweep/internal/services"
	"github.com/dcortes/mailsweep/internal/store"
	"github.com/dcortes/mailsweep/internal/version"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to YAML configuration file (default: ~/.config/mailsweep/config.yaml)")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  --config string\n        Path to YAML configuration file\n")
		fmt.Fprintf(os.Stderr, "  --version\n        Show version information and exit\n\n")
		fmt.Fprintf(os.Stderr, "Environment variables with the MAILSWEEP_ prefix override config values.\n")
	}
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetVersionString())
		return
	}

	cfg, err := config.New(*configPathFlag)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	logger, err := logging.InitLogger(cfg.GetLogging())
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.GetStorage().Path)
	if err != nil {
		log.Fatalf("could not open state store: %v", err)
	}
	defer func() { _ = st.Close() }()

	agentCfg := cfg.GetAgent()
	gateway := agent.NewClient(agentCfg.Endpoint, agentCfg.Timeout)

	persister := services.NewStorePersister(st, logger)
	activity := services.NewActivityService(ctx, persister, logger)
	settings := services.NewSettingsService(persister, logger)
	settings.Load(ctx)
	chat := services.NewChatService(gateway, activity, logger)
	cleanup := services.NewCleanupService(gateway, settings, activity, logger)

	fmt.Println(version.GetVersionString())
	fmt.Println("Type an instruction to chat with the assistant, or :help for commands.")
	runREPL(ctx, chat, cleanup, settings, activity)
}

// runREPL is a thin projection of service state onto a line-oriented
// terminal; all orchestration logic lives in the services
func runREPL(ctx context.Context, chat services.ChatService, cleanup services.CleanupService, settings services.SettingsService, activity services.ActivityService) {
	draft := settings.Current()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, ":") {
			if err := chat.Submit(ctx, line); err != nil && !services.IsBusy(err) {
				fmt.Printf("! %s\n", chat.LastError())
			}
			printTranscriptTail(chat)
			printPreviews(chat)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":help":
			printHelp()
		case ":quit", ":q":
			return
		case ":previews":
			printPreviews(chat)
		case ":sel":
			if len(fields) < 2 {
				fmt.Println("usage: :sel <number>")
				continue
			}
			idx, err := strconv.Atoi(fields[1])
			previews := chat.Previews()
			if err != nil || idx < 1 || idx > len(previews) {
				fmt.Println("no such preview")
				continue
			}
			chat.ToggleSelection(previews[idx-1].ID)
			printPreviews(chat)
		case ":all":
			chat.SelectAllOrNone()
			printPreviews(chat)
		case ":delete":
			if err := chat.DeleteSelected(ctx); err != nil && !services.IsBusy(err) {
				fmt.Printf("! %s\n", chat.LastError())
				continue
			}
			printTranscriptTail(chat)
			printPreviews(chat)
		case ":run":
			result, err := cleanup.RunNow(ctx)
			if err != nil {
				if !services.IsBusy(err) {
					fmt.Printf("! %s\n", cleanup.LastError())
				}
				continue
			}
			printSummary(result)
		case ":test":
			result, err := cleanup.TestRun(ctx)
			if err != nil {
				if !services.IsBusy(err) {
					fmt.Printf("! %s\n", cleanup.LastError())
				}
				continue
			}
			printSummary(result)
		case ":log":
			for _, e := range activity.Entries() {
				fmt.Printf("%s  %-7s %4d  %s\n", e.Timestamp, e.Status, e.EmailsDeleted, e.Action)
			}
		case ":settings":
			printSettings(draft)
		case ":set":
			if len(fields) < 3 {
				fmt.Println("usage: :set <field> <value>")
				continue
			}
			if err := applySetting(&draft, fields[1], fields[2]); err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			printSettings(draft)
		case ":save":
			if err := settings.Save(ctx, draft); err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			if settings.SavedRecently(time.Now()) {
				fmt.Println("Settings saved.")
			}
		default:
			fmt.Printf("unknown command %s (try :help)\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Println(`Commands:
  <text>         send an instruction to the assistant
  :previews      show the current email previews
  :sel <n>       toggle selection of preview n
  :all           select all previews, or none if all are selected
  :delete        delete the selected emails
  :run           run the configured cleanup now
  :test          dry-run the configured cleanup
  :log           show the activity log
  :settings      show the cleanup policy draft
  :set <f> <v>   edit the draft (promotional, old_emails, age, schedule,
                 frequency, time, confirm, max)
  :save          save the cleanup policy draft
  :quit          exit`)
}

func printTranscriptTail(chat services.ChatService) {
	messages := chat.Messages()
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.Role == services.RoleAssistant {
		fmt.Printf("assistant: %s\n", last.Content)
	}
}

func printPreviews(chat services.ChatService) {
	previews := chat.Previews()
	if len(previews) == 0 {
		return
	}
	selected := make(map[string]bool)
	for _, id := range chat.SelectedIDs() {
		selected[id] = true
	}
	for i, p := range previews {
		mark := " "
		if selected[p.ID] {
			mark = "*"
		}
		fmt.Printf("%s %2d. %-28s %-40s %s\n", mark, i+1, p.Sender, p.Subject, p.Date)
	}
}

func printSummary(result *agent.PeriodicResult) {
	s := result.CleanupSummary
	fmt.Printf("processed %d, deleted %d, %d rules in %.1fs\n",
		s.TotalEmailsProcessed, s.TotalEmailsDeleted, s.RulesExecuted, s.ExecutionTimeSeconds)
	for _, r := range result.RulesResults {
		fmt.Printf("  %-30s matched %4d deleted %4d\n", r.Rule, r.EmailsMatched, r.EmailsDeleted)
	}
	if result.NextScheduledRun != "" {
		fmt.Printf("next scheduled run: %s\n", result.NextScheduledRun)
	}
}

func printSettings(s services.CleanupSettings) {
	fmt.Printf(`promotional:  %v
old_emails:   %v (older than %d days)
schedule:     enabled=%v %s at %s
confirm:      %v
max per run:  %d
`, s.Promotional, s.OldEmails, s.AgeThresholdDays, s.ScheduleEnabled, s.Frequency, s.ScheduleTime,
		s.RequireConfirmation, s.MaxEmailsPerRun)
}

func applySetting(draft *services.CleanupSettings, field, value string) error {
	next := *draft
	if err := applyField(&next, field, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*draft = next
	return nil
}

func applyField(draft *services.CleanupSettings, field, value string) error {
	switch field {
	case "promotional":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true/false: %w", err)
		}
		draft.Promotional = b
	case "old_emails":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true/false: %w", err)
		}
		draft.OldEmails = b
	case "age":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expected a number of days: %w", err)
		}
		draft.AgeThresholdDays = n
	case "schedule":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true/false: %w", err)
		}
		draft.ScheduleEnabled = b
	case "frequency":
		draft.Frequency = services.Frequency(value)
	case "time":
		draft.ScheduleTime = value
	case "confirm":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true/false: %w", err)
		}
		draft.RequireConfirmation = b
	case "max":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expected a number: %w", err)
		}
		draft.MaxEmailsPerRun = n
	default:
		return fmt.Errorf("unknown setting %q", field)
	}
	return nil
}
