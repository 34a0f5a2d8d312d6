package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/editor"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/notify"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group      bool   // list grouped by active/completed
	ConfigPath string // empty uses ~/.tada/config.toml
	Theme      string // overrides the config theme
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Exit codes.
const (
	ExitOK    = 0
	ExitFail  = 1
	ExitUsage = 2
)

// Run dispatches subcommands and returns an exit code.
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	r := &runner{opt: opt}
	if len(args) == 0 {
		r.help()
		return ExitUsage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.help()
		return ExitOK
	case "auth":
		return r.auth(a)
	}

	if code := r.connect(cmd == "tui"); code != ExitOK {
		return code
	}
	defer r.close()

	switch cmd {
	case "ls":
		status := model.All
		if len(a) > 1 {
			return r.usage("usage: todo ls [all|active|completed]")
		}
		if len(a) == 1 {
			s, err := model.ParseStatus(a[0])
			if err != nil {
				return r.usage("ls: " + err.Error())
			}
			status = s
		}
		return r.list(ctx, status)

	case "tui":
		if err := tui.Run(ctx, r.store); err != nil {
			ui.Fail(r.opt.Stderr, "tui: "+err.Error())
			return ExitFail
		}
		return ExitOK

	case "add":
		if len(a) == 0 {
			return r.usage("usage: todo add <title...>")
		}
		return r.add(ctx, strings.Join(a, " "))

	case "toggle", "done":
		id, code := r.idArg(cmd, a, 1)
		if code != ExitOK {
			return code
		}
		return r.toggle(ctx, id)

	case "rename":
		if len(a) < 1 {
			return r.usage("usage: todo rename <id> <title...>")
		}
		id, code := r.idArg(cmd, a[:1], 1)
		if code != ExitOK {
			return code
		}
		return r.rename(ctx, id, strings.Join(a[1:], " "))

	case "rm":
		id, code := r.idArg(cmd, a, 1)
		if code != ExitOK {
			return code
		}
		return r.remove(ctx, id)

	case "toggle-all":
		return r.bulk(ctx, "toggled", r.store.ToggleAll)

	case "clear-completed":
		return r.bulk(ctx, "cleared", r.store.DeleteCompleted)
	}

	ui.Fail(r.opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.opt.Stderr)
	r.help()
	return ExitUsage
}

type runner struct {
	opt    Options
	cfg    *config.Config
	store  *store.Store
	logger *log.Logger
	closer io.Closer
}

func (r *runner) help() {
	fmt.Fprint(r.opt.Stdout, `todo - a client for your remote todo list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls [all|active|completed]   List todos
  tui                         Interactive list
  add <title...>              Add a todo
  toggle <id>                 Flip completed for a todo
  rename <id> <title...>      Rename a todo (an empty title deletes it)
  rm <id>                     Delete a todo
  toggle-all                  Complete everything, or reopen all if all are done
  clear-completed             Delete every completed todo
  auth <login|logout|status|whoami>   Token authentication

Flags:
  -config <path>   config file (default ~/.tada/config.toml)
  -theme <name>    color theme (classic, neon, mono)
  -group           group ls output by active/completed

Examples:
  todo add "Buy milk"
  todo ls active
  todo toggle 42
  todo rename 42 "Buy oat milk"
`)
}

func (r *runner) usage(msg string) int {
	ui.Fail(r.opt.Stderr, msg)
	return ExitUsage
}

// connect loads config and builds the store. Interactive sessions log to
// the configured file since the TUI owns the terminal.
func (r *runner) connect(interactive bool) int {
	cfg, err := config.Load(r.opt.ConfigPath)
	if err != nil {
		ui.Fail(r.opt.Stderr, "config: "+err.Error())
		return ExitUsage
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return ExitUsage
	}
	r.cfg = cfg

	theme := cfg.Theme
	if r.opt.Theme != "" {
		theme = r.opt.Theme
	}
	if !slices.Contains(ui.Themes(), theme) {
		ui.Fail(r.opt.Stderr, fmt.Sprintf("unknown theme %q (choose from %s)", theme, strings.Join(ui.Themes(), ", ")))
		return ExitUsage
	}
	ui.SetTheme(theme)

	if interactive {
		l, c, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			ui.Fail(r.opt.Stderr, "log: "+err.Error())
			return ExitFail
		}
		r.logger, r.closer = l, c
	} else {
		r.logger = logging.Console(r.opt.Stderr, cfg.LogLevel)
	}

	token, err := auth.Token()
	if err != nil {
		r.logger.Warn("ignoring stored token", "err", err)
	}
	svc, err := api.NewHTTPClient(cfg.BaseURL, api.ClientOptions{
		Token:   token,
		Timeout: cfg.Timeout,
		Logger:  r.logger,
	})
	if err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return ExitUsage
	}
	r.store = store.New(svc, store.Options{
		UserID:   cfg.UserID,
		Notifier: notify.New(cfg.NotifyTTL),
		Logger:   r.logger,
	})
	return ExitOK
}

func (r *runner) close() {
	if r.closer != nil {
		r.closer.Close()
	}
}

func (r *runner) idArg(cmd string, a []string, n int) (int, int) {
	if len(a) != n {
		return 0, r.usage(fmt.Sprintf("usage: todo %s <id>", cmd))
	}
	id, err := strconv.Atoi(a[0])
	if err != nil || id <= 0 {
		return 0, r.usage(cmd + ": not a todo id: " + a[0])
	}
	return id, ExitOK
}

// failed prints the banner message for a failed store call.
func (r *runner) failed() int {
	msg := r.store.Snapshot().Error
	if msg == "" {
		msg = "operation failed"
	}
	ui.Fail(r.opt.Stderr, msg)
	return ExitFail
}

func (r *runner) load(ctx context.Context) bool {
	return r.store.Load(ctx) == nil
}

func (r *runner) list(ctx context.Context, status model.Status) int {
	if !r.load(ctx) {
		return r.failed()
	}
	snap := r.store.Snapshot()
	todos := snap.Todos
	t := ui.Current()

	done := len(todos) - model.Remaining(todos)
	header := fmt.Sprintf("%s %s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "todos"), ui.C(t.Muted, fmt.Sprintf("(user %d)", r.store.UserID())),
		ui.C(t.Success, "✔"), done,
		ui.C(t.Pending, "•"), model.Remaining(todos),
		ui.C(t.Accent, "Total"), len(todos),
	)

	lines := []string{header, ui.C(t.Muted, ui.ProgressBar(done, len(todos), 28)), ""}
	visible := model.Filter(todos, status)
	if r.opt.Group && status == model.All {
		lines = append(lines, groupLines(visible)...)
	} else {
		lines = append(lines, flatLines(visible)...)
	}
	if len(todos) > 0 {
		lines = append(lines, "", ui.FooterLine(todos, status))
	}
	lines = append(lines, "", ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(r.opt.Stdout, lines)
	return ExitOK
}

func (r *runner) add(ctx context.Context, title string) int {
	created, err := r.store.Submit(ctx, title)
	if errors.Is(err, store.ErrEmptyTitle) {
		ui.Fail(r.opt.Stderr, notify.MsgEmptyTitle)
		return ExitUsage
	}
	if err != nil {
		return r.failed()
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("added #%d", created.ID))
	return ExitOK
}

func (r *runner) toggle(ctx context.Context, id int) int {
	if !r.load(ctx) {
		return r.failed()
	}
	t, err := r.store.Toggle(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return r.notFound(id)
	}
	if err != nil {
		return r.failed()
	}
	state := "active"
	if t.Completed {
		state = "completed"
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("#%d is %s", id, state))
	return ExitOK
}

// rename goes through the inline editor so a blank title deletes and an
// unchanged one is a no-op, as in the TUI.
func (r *runner) rename(ctx context.Context, id int, title string) int {
	if !r.load(ctx) {
		return r.failed()
	}
	t, ok := model.Find(r.store.Snapshot().Todos, id)
	if !ok {
		return r.notFound(id)
	}
	var ed editor.Editor
	ed.Begin(t)
	ed.SetText(title)
	switch ed.Submit(ctx, r.store) {
	case editor.Failed:
		return r.failed()
	case editor.Deleted:
		ui.OK(r.opt.Stdout, fmt.Sprintf("deleted #%d", id))
	case editor.Renamed:
		ui.OK(r.opt.Stdout, fmt.Sprintf("renamed #%d", id))
	default:
		ui.OK(r.opt.Stdout, "unchanged")
	}
	return ExitOK
}

func (r *runner) remove(ctx context.Context, id int) int {
	if err := r.store.DeleteOne(ctx, id); err != nil {
		return r.failed()
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("removed #%d", id))
	return ExitOK
}

func (r *runner) bulk(ctx context.Context, verb string, op func(context.Context) store.Batch) int {
	if !r.load(ctx) {
		return r.failed()
	}
	b := op(ctx)
	if len(b.Failed) > 0 {
		ui.Fail(r.opt.Stderr, fmt.Sprintf("%s (%d of %d failed)", r.store.Snapshot().Error, len(b.Failed), len(b.Targets)))
		return ExitFail
	}
	ui.OK(r.opt.Stdout, fmt.Sprintf("%s %d", verb, len(b.Targets)))
	return ExitOK
}

func (r *runner) notFound(id int) int {
	ui.Fail(r.opt.Stderr, fmt.Sprintf("no todo #%d", id))
	fmt.Fprintln(r.opt.Stderr, ui.C(ui.Current().Muted, "Hint: run `todo ls` to see ids"))
	return ExitUsage
}

// -------------- rendering helpers --------------

func flatLines(todos []model.Todo) []string {
	if len(todos) == 0 {
		return []string{ui.C(ui.Current().Muted, "no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, ui.TodoLine(t, false, 80))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	var lines []string
	for _, s := range []model.Status{model.Active, model.Completed} {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, ui.C(ui.Current().Accent, s.String()))
		part := model.Filter(todos, s)
		if len(part) == 0 {
			lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
			continue
		}
		lines = append(lines, flatLines(part)...)
	}
	return lines
}

// -------------- auth ----------------

func (r *runner) auth(a []string) int {
	if len(a) != 1 {
		return r.usage("usage: todo auth <login|logout|status|whoami>")
	}
	switch a[0] {
	case "login":
		return r.authLogin()
	case "logout":
		return r.authLogout()
	case "status":
		return r.authStatus()
	case "whoami":
		return r.authWhoAmI()
	}
	return r.usage("usage: todo auth <login|logout|status|whoami>")
}

func (r *runner) authLogin() int {
	fmt.Fprint(r.opt.Stdout, "Paste your token: ")
	token, err := bufio.NewReader(r.opt.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		ui.Fail(r.opt.Stderr, "read token: "+err.Error())
		return ExitFail
	}
	if _, err := auth.Save(token); err != nil {
		ui.Fail(r.opt.Stderr, "save token: "+err.Error())
		return ExitFail
	}
	ui.OK(r.opt.Stdout, "logged in")
	return ExitOK
}

func (r *runner) authLogout() int {
	if ti, err := auth.Get(); err == nil && ti.Source == auth.SourceEnv {
		ui.OK(r.opt.Stdout, "token is provided by "+auth.EnvVar+" (nothing to delete)")
		return ExitOK
	}
	if err := auth.Delete(); err != nil {
		ui.Fail(r.opt.Stderr, "logout: "+err.Error())
		return ExitFail
	}
	ui.OK(r.opt.Stdout, "logged out")
	return ExitOK
}

func (r *runner) authStatus() int {
	ti, err := auth.Get()
	if errors.Is(err, auth.ErrNoToken) {
		fmt.Fprintln(r.opt.Stdout, ui.C(ui.Current().Muted, "not logged in"))
		fmt.Fprintln(r.opt.Stdout, "Run: todo auth login")
		return ExitOK
	}
	if err != nil {
		ui.Fail(r.opt.Stderr, err.Error())
		return ExitFail
	}
	fmt.Fprintf(r.opt.Stdout, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(r.opt.Stdout, "expires: (unknown)")
	case ti.Expired(time.Now()):
		fmt.Fprintf(r.opt.Stdout, "expires: %s (expired)\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	default:
		fmt.Fprintf(r.opt.Stdout, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(r.opt.Stdout, "env override: "+auth.EnvVar)
	return ExitOK
}

func (r *runner) authWhoAmI() int {
	ti, err := auth.Get()
	if err != nil {
		ui.Fail(r.opt.Stderr, "not logged in. Run: todo auth login")
		return ExitUsage
	}
	claims, err := ti.Claims()
	if err != nil {
		fmt.Fprintln(r.opt.Stdout, "Opaque token (cannot introspect locally).")
		fmt.Fprintln(r.opt.Stdout, "source:", ti.Source)
		return ExitOK
	}
	fmt.Fprintln(r.opt.Stdout, "JWT claims:")
	for _, k := range []string{"sub", "name", "email", "iss", "exp"} {
		if v, ok := claims[k]; ok {
			fmt.Fprintf(r.opt.Stdout, "  %s: %v\n", k, v)
		}
	}
	return ExitOK
}
