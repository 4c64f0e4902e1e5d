package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"golang.org/x/term"

	"VanityTools/internal/generator"
	"VanityTools/internal/ops/encdec"
	"VanityTools/pkg/appcfg"
	"VanityTools/pkg/config"
	"VanityTools/pkg/i18n"
	"VanityTools/pkg/logx"
	"VanityTools/pkg/vanitygen"
)

type Runner struct {
	in     *bufio.Reader
	out    io.Writer
	msg    i18n.Messages
	cfg    *appcfg.Config
	client *vanitygen.Client

	// ReadPassword reads a secret without echo; it falls back to a plain line
	// when stdin is not a terminal.
	ReadPassword func() (string, error)
	InputsBase   string
}

func NewRunner(cfg *appcfg.Config, client *vanitygen.Client) *Runner {
	r := &Runner{
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		msg:        i18n.Get(cfg.Language),
		cfg:        cfg,
		client:     client,
		InputsBase: "inputs",
	}
	r.ReadPassword = r.readPassword
	return r
}

func (r *Runner) prompt() string {
	text, _ := r.in.ReadString('\n')
	return strings.TrimSpace(text)
}

func (r *Runner) yes() bool {
	yn := strings.ToLower(r.prompt())
	return yn == "y" || yn == "yes" || yn == "д" || yn == "да"
}

func (r *Runner) readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return r.prompt(), nil
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(r.out)
	return strings.TrimSpace(string(b)), err
}

func (r *Runner) Run() {
	for {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.msg.MenuTitle)
		fmt.Fprintf(r.out, r.msg.CurrentNetwork, r.client.Network())
		for _, item := range []string{
			r.msg.MenuSearch, r.msg.MenuGenerate, r.msg.MenuDifficulty, r.msg.MenuValid,
			r.msg.MenuNetwork, r.msg.MenuEncrypt, r.msg.MenuDecrypt, r.msg.MenuShowPatterns,
			r.msg.MenuExit,
		} {
			fmt.Fprintln(r.out, item)
		}
		fmt.Fprint(r.out, "> ")

		line, err := r.in.ReadString('\n')
		choice := strings.ToLower(strings.TrimSpace(line))
		switch choice {
		case "1":
			r.handleSearch()
		case "2":
			r.handleGenerate()
		case "3":
			r.handleDifficulty()
		case "4":
			r.handleValid()
		case "5":
			r.handleNetwork()
		case "6":
			r.handleEncrypt()
		case "7":
			r.handleDecrypt()
		case "8":
			r.handleShowPatterns()
		case "":
			return
		default:
			fmt.Fprintln(r.out, r.msg.UnknownCommand, choice)
		}
		if err != nil {
			return
		}
	}
}

func (r *Runner) handleSearch() {
	fmt.Fprintln(r.out, r.msg.EncryptPrompt)
	encrypt := r.yes()

	var pwd, hint string
	if encrypt {
		fmt.Fprint(r.out, r.msg.PasswordPrompt)
		pwd, _ = r.ReadPassword()
		if pwd == "" {
			fmt.Fprintln(r.out, r.msg.EmptyPassword)
			encrypt = false
		} else {
			fmt.Fprint(r.out, r.msg.HintPrompt)
			hint = r.prompt()
		}
	}

	ctx, stop := withInterrupt(context.Background())
	defer stop()

	logx.S().Infow("start search", "network", r.client.Network(), "encrypt", encrypt)
	st, err := generator.Run(ctx, generator.Options{
		PatternsPath:     r.cfg.PatternsPath,
		LogsBase:         r.cfg.LogsBase,
		StorePath:        r.cfg.StorePath,
		LogLevel:         r.cfg.LogLevel,
		Encrypt:          encrypt,
		KeystorePassword: pwd,
		PassHint:         hint,
		HideSecrets:      r.cfg.HideSecretsInConsole,
		Client:           r.client,
	})
	r.restoreConsoleLog()
	if err != nil {
		logx.S().Errorw("search error", "err", err)
	}
	fmt.Fprintf(r.out, r.msg.SearchDone, st.Found, st.Delivered, st.Rejected, st.Duplicate, st.Dir)
}

func (r *Runner) readPattern() (vanitygen.Pattern, bool) {
	fmt.Fprint(r.out, r.msg.PatternPrompt)
	p, err := ParsePattern(r.prompt())
	if err != nil {
		fmt.Fprintf(r.out, r.msg.Failed, err)
		return vanitygen.Pattern{}, false
	}
	return p, true
}

func (r *Runner) handleGenerate() {
	p, ok := r.readPattern()
	if !ok {
		return
	}
	ctx, stop := withInterrupt(context.Background())
	defer stop()

	rec, err := r.client.Generate(ctx, p, vanitygen.Options{})
	if err != nil {
		fmt.Fprintf(r.out, r.msg.Failed, err)
		return
	}
	key := rec.PrivateKey
	if r.cfg.HideSecretsInConsole {
		key = r.msg.SecretHidden
	}
	fmt.Fprintf(r.out, r.msg.GenerateResult, rec.Pattern, rec.Address, key)
	logx.S().Infow("generated", "address", rec.Address, "wif", rec.PrivateKey)
}

func (r *Runner) handleDifficulty() {
	p, ok := r.readPattern()
	if !ok {
		return
	}
	ctx, stop := withInterrupt(context.Background())
	defer stop()

	d, err := r.client.Difficulty(ctx, p, vanitygen.Options{})
	if err != nil {
		fmt.Fprintf(r.out, r.msg.Failed, err)
		return
	}
	fmt.Fprintf(r.out, r.msg.DifficultyValue, d)
}

func (r *Runner) handleValid() {
	p, ok := r.readPattern()
	if !ok {
		return
	}
	ctx, stop := withInterrupt(context.Background())
	defer stop()

	valid, err := r.client.Valid(ctx, p, vanitygen.Options{})
	switch {
	case err != nil:
		fmt.Fprintf(r.out, r.msg.Failed, err)
	case valid:
		fmt.Fprintln(r.out, r.msg.ValidYes)
	default:
		fmt.Fprintln(r.out, r.msg.ValidNo)
	}
}

func (r *Runner) handleNetwork() {
	names := make([]string, 0, 4)
	for _, n := range vanitygen.Networks() {
		names = append(names, n.String())
	}
	fmt.Fprintf(r.out, r.msg.NetworkPrompt, strings.Join(names, "|"))
	if err := r.client.SetNetwork(r.prompt()); err != nil {
		fmt.Fprintf(r.out, r.msg.Failed, err)
		return
	}
	fmt.Fprintf(r.out, r.msg.NetworkChanged, r.client.Network())
}

func (r *Runner) handleEncrypt() {
	fmt.Fprint(r.out, r.msg.PasswordPrompt)
	pwd, _ := r.ReadPassword()
	fmt.Fprint(r.out, r.msg.HintPrompt)
	hint := r.prompt()

	ctx, stop := withInterrupt(context.Background())
	defer stop()
	rep, err := encdec.EncryptResults(ctx, encdec.EncryptOptions{
		InputsBaseDir:        r.InputsBase,
		LogsBase:             r.cfg.LogsBase,
		Password:             pwd,
		PassHint:             hint,
		Network:              r.client.Network(),
		HideSecretsInConsole: r.cfg.HideSecretsInConsole,
	})
	r.restoreConsoleLog()
	r.report(rep, err)
}

func (r *Runner) handleDecrypt() {
	fmt.Fprint(r.out, r.msg.PasswordPrompt)
	pwd, _ := r.ReadPassword()

	ctx, stop := withInterrupt(context.Background())
	defer stop()
	rep, err := encdec.DecryptResults(ctx, encdec.DecryptOptions{
		InputsBaseDir:        r.InputsBase,
		LogsBase:             r.cfg.LogsBase,
		Password:             pwd,
		HideSecretsInConsole: r.cfg.HideSecretsInConsole,
	})
	r.restoreConsoleLog()
	r.report(rep, err)
}

func (r *Runner) report(rep encdec.Report, err error) {
	if err != nil {
		fmt.Fprintf(r.out, r.msg.Failed, err)
		return
	}
	fmt.Fprintf(r.out, r.msg.JobDone, rep.Total, rep.OK, rep.Failed, rep.Dir)
}

func (r *Runner) handleShowPatterns() {
	pc, err := config.Load(r.cfg.PatternsPath)
	if err != nil {
		fmt.Fprintf(r.out, r.msg.ConfigNotLoaded, err)
		return
	}
	fmt.Fprintln(r.out, r.msg.ConfigHeader)
	net := pc.Network
	if net == "" {
		net = r.client.Network().String()
	}
	fmt.Fprintf(r.out, r.msg.ConfigNetwork, net)
	if len(pc.Literal) > 0 {
		fmt.Fprintln(r.out, r.msg.ConfigLiteral)
		for _, p := range pc.Literal {
			fmt.Fprintln(r.out, "  -", p)
		}
	}
	if len(pc.Regexp) > 0 {
		fmt.Fprintln(r.out, r.msg.ConfigRegexp)
		for _, p := range pc.Regexp {
			fmt.Fprintln(r.out, "  -", p)
		}
	}
	fmt.Fprintf(r.out, r.msg.ConfigCaseSensitive, !pc.CaseInsensitive)
	fmt.Fprintf(r.out, r.msg.ConfigMaxResults, pc.MaxResults)
}

// restoreConsoleLog returns logging to the console-only setup once a job that
// opened its own log file is over.
func (r *Runner) restoreConsoleLog() {
	_ = logx.Init(logx.Config{
		Level:                r.cfg.LogLevel,
		ConsoleOnly:          true,
		HideSecretsInConsole: r.cfg.HideSecretsInConsole,
	})
}

// ParsePattern reads "/expr/" as a regular expression and anything else as a
// literal prefix.
func ParsePattern(s string) (vanitygen.Pattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return vanitygen.Pattern{}, fmt.Errorf("empty pattern")
	}
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return vanitygen.Pattern{}, err
		}
		return vanitygen.Regexp(re), nil
	}
	if strings.ContainsAny(s, " \t") {
		return vanitygen.Pattern{}, fmt.Errorf("pattern %q contains whitespace", s)
	}
	return vanitygen.Literal(s), nil
}

// withInterrupt cancels the returned context on SIGINT or SIGTERM until stop is called.
func withInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
