// Command interview runs a mock interview in the terminal against the
// interview backend, authenticating with API_TOKEN. Completed reports are
// archived in a local SQLite file.
package main

import (
	"aiinterviewer/internal/config"
	"aiinterviewer/internal/credits"
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/repository"
	"aiinterviewer/internal/service"
	"aiinterviewer/internal/telemetry"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const archiveOwner = "local"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	role := flag.String("role", "", "current role, e.g. \"Backend Engineer\"")
	experience := flag.Float64("experience", 0, "years of experience")
	difficulty := flag.String("difficulty", string(model.DifficultyModerate), "EASY, MODERATE or HARD")
	stack := flag.String("stack", "", "comma separated tech stack")
	projects := flag.String("projects", "", "recent projects")
	resumeID := flag.Int64("resume", 0, "resume id to interview against")
	history := flag.Bool("history", false, "list archived reports and exit")
	flag.Parse()

	// the terminal belongs to the interview; logs only go to the file
	if _, err := telemetry.InitLogger(cfg.Log, io.Discard); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	meter, shutdownTelemetry, err := telemetry.Init(ctx, cfg.Log, "aiinterviewer-cli")
	if err != nil {
		return err
	}
	defer shutdownTelemetry()
	metrics, err := interview.NewMetrics(meter)
	if err != nil {
		return err
	}

	archive, err := repository.NewSQLiteReportRepo(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer archive.Close()

	if *history {
		return printHistory(ctx, archive)
	}

	if !cfg.API.HasToken() {
		return errors.New("API_TOKEN is required")
	}

	api := service.NewAPIClient(cfg.API, service.StaticCredentials(cfg.API.Token))
	store := credits.NewStore(api)
	if err := store.Refresh(ctx); err != nil {
		fmt.Println("Could not load credits:", err)
	} else {
		printCredits(store.Get())
	}

	in := newLineReader(os.Stdin)
	req := model.ProfileRequest{
		ResumeID:        *resumeID,
		CurrentRole:     *role,
		ExperienceYears: *experience,
		DifficultyLevel: model.Difficulty(*difficulty),
		TechStack:       model.SplitTechStack(*stack),
		RecentProjects:  *projects,
	}
	if req.CurrentRole == "" {
		if req.CurrentRole, err = in.prompt(ctx, "Current role: "); err != nil {
			return err
		}
	}
	if len(req.TechStack) == 0 {
		raw, err := in.prompt(ctx, "Tech stack (comma separated): ")
		if err != nil {
			return err
		}
		req.TechStack = model.SplitTechStack(raw)
	}

	m := interview.New(api, store, interview.NavigatorFunc(func(path string) {
		fmt.Printf("Interview abandoned. Back to %s\n", path)
	}), interview.Options{
		QuestionTimeout: cfg.Interview.QuestionTimeout(),
		ErrorDismiss:    cfg.Interview.ErrorDismiss(),
		InterviewCost:   cfg.Interview.Cost,
		DashboardPath:   cfg.Interview.DashboardPath,
		Metrics:         metrics,
	})
	defer m.Close()

	fmt.Println("Starting interview...")
	if err := m.Dispatch(ctx, interview.BeginSetup{Profile: req}); err != nil {
		if msg := m.Snapshot().Error; msg != "" {
			return errors.New(msg)
		}
		return err
	}

	return interviewLoop(ctx, m, in, archive, store)
}

func interviewLoop(ctx context.Context, m *interview.Machine, in *lineReader, archive repository.ReportRepo, store *credits.Store) error {
	fmt.Println("Type your answer and press Enter. :quit abandons the interview.")
	for {
		snap := m.Snapshot()
		switch snap.State {
		case interview.StateCompleted:
			printReport(snap.Report)
			archiveReport(archive, snap)
			m.Wait()
			printCredits(store.Get())
			return nil
		case interview.StateAbandoned:
			return nil
		}

		if snap.LastEvaluation != nil && snap.LastEvaluation.Feedback != "" {
			fmt.Printf("  feedback: %s\n", snap.LastEvaluation.Feedback)
		}
		q := snap.Question
		fmt.Printf("\n[%s] Q%d: %s\n", q.RoundType, q.QuestionID, q.QuestionText)

		answer, err := in.prompt(ctx, "> ")
		if err != nil || strings.TrimSpace(answer) == ":quit" {
			abandonCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			m.Dispatch(abandonCtx, interview.Abandon{})
			cancel()
			return nil
		}

		if err := m.Dispatch(ctx, interview.SubmitAnswer{Answer: answer}); err != nil {
			if msg := m.Snapshot().Error; msg != "" {
				fmt.Println("!", msg)
			}
			slog.Warn("Answer not accepted", "error", err)
		}
	}
}

func archiveReport(archive repository.ReportRepo, snap interview.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := archive.Save(ctx, &model.ReportRecord{
		Owner:      archiveOwner,
		SessionID:  snap.Report.SessionID,
		Profile:    snap.Profile,
		Report:     *snap.Report,
		ArchivedAt: time.Now(),
	})
	if err != nil {
		fmt.Println("Could not archive report:", err)
	}
}

func printReport(r *model.Report) {
	fmt.Printf("\n=== Interview report (session %d) ===\n", r.SessionID)
	fmt.Printf("Overall %.1f | Technical %.1f | HR %.1f | Project %.1f\n", r.OverallScore, r.TechnicalScore, r.HRScore, r.ProjectScore)
	if r.Summary != "" {
		fmt.Println(r.Summary)
	}
	for i, q := range r.Questions {
		fmt.Printf("%d. [%s] %s (%d)\n   %s\n", i+1, q.RoundType, q.QuestionText, q.Score, q.AIFeedback)
	}
	if r.FinalVerdict != "" {
		fmt.Println("Verdict:", r.FinalVerdict)
	}
}

func printCredits(b model.CreditBalance) {
	fmt.Printf("Credits: %d (free interviews left: %d)\n", b.Credits, b.FreeInterviewsRemaining)
}

func printHistory(ctx context.Context, archive repository.ReportRepo) error {
	records, err := archive.ListByOwner(ctx, archiveOwner, 20)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No archived interviews.")
		return nil
	}
	for _, r := range records {
		role := ""
		if r.Profile != nil {
			role = r.Profile.CurrentRole
		}
		fmt.Printf("%s  session %-6d %-24s %.1f  %s\n",
			r.ArchivedAt.Local().Format("2006-01-02 15:04"), r.SessionID, role, r.Report.OverallScore, r.Report.FinalVerdict)
	}
	return nil
}

// lineReader reads stdin on its own goroutine so prompts can be cancelled
type lineReader struct {
	lines chan string
	errs  chan error
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan string), errs: make(chan error, 1)}
	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			lr.lines <- scanner.Text()
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		lr.errs <- err
	}()
	return lr
}

func (lr *lineReader) prompt(ctx context.Context, label string) (string, error) {
	fmt.Print(label)
	select {
	case line := <-lr.lines:
		return line, nil
	case err := <-lr.errs:
		return "", err
	case <-ctx.Done():
		fmt.Println()
		return "", ctx.Err()
	}
}
