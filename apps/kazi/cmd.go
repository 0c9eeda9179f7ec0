package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/coursework"
	"github.com/trezcool/kazi/core/student"
	logsvc "github.com/trezcool/kazi/services/logger"
	"github.com/trezcool/kazi/storage/canvas"
)

var (
	loadConfigFunc = core.LoadConfig // mockable
	nowFunc        = time.Now        // mockable

	errHelp = errors.New("help provided")
)

type repoFactory func(conf *core.Config, stu student.Student, logger core.Logger) (coursework.Repository, error)

type commandLine struct {
	out    io.Writer
	errOut io.Writer
	styled bool // color + emoji

	// global flags
	configPath string
	verbose    bool

	logger   core.Logger
	reporter *logsvc.RollbarLogger
	conf     *core.Config
	students *student.Service
	newRepo  repoFactory
	closers  []func()
}

func newCommandLine(out, errOut io.Writer) *commandLine {
	return &commandLine{
		out:     out,
		errOut:  errOut,
		styled:  isTerminal(out),
		newRepo: newCanvasRepository,
	}
}

func (cli *commandLine) run(args []string) error {
	defer cli.close()

	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if err != nil && err != errHelp && !core.IsConfigError(err) {
		// main prints the error itself; stderr only gets the details with --verbose
		if cli.logger != nil {
			cli.logger.Debug("command failed", err)
		}
		if cli.reporter != nil {
			cli.reporter.Report("command failed", err)
		}
	}
	return err
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kazi",
		Short: "Read-only Canvas LMS reports for configured students",
		Long: `kazi queries the Canvas LMS API with a student's (or observer's) token and reports
courses, upcoming and overdue assignments, grades, and a ranking of the work that
matters most right now.

Students are configured in $KAZI_CONFIG (default ~/.kazi/config.json):

  {
    "students": {
      "alice": {"name": "Alice", "domain": "school.instructure.com", "token": "...", "userId": "42"}
    },
    "skipCourses": ["homeroom"]
  }`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprint(cli.errOut, cmd.UsageString())
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.errOut)
	root.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "config file (default $"+core.ConfigEnvVar+" or ~/.kazi/config.json)")
	root.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "debug logs on stderr")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.usageError(cmd, err)
	})

	root.AddCommand(
		cli.studentsCmd(),
		cli.coursesCmd(),
		cli.assignmentsCmd(),
		cli.overdueCmd(),
		cli.gradesCmd(),
		cli.prioritiesCmd(),
	)
	return root
}

// studentArg validates `<student_key>` commands.
func (cli *commandLine) studentArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return cli.usageError(cmd, errors.New("exactly one <student_key> is required"))
	}
	return nil
}

func (cli *commandLine) usageError(cmd *cobra.Command, err error) error {
	_, _ = fmt.Fprintf(cli.errOut, "error: %s\n\n", err)
	_, _ = fmt.Fprint(cli.errOut, cmd.UsageString())
	return errHelp
}

func (cli *commandLine) initLogger() error {
	if cli.logger != nil {
		return nil
	}
	zl, err := logsvc.NewZapLogger(cli.verbose, zap.String("run", uuid.NewString()))
	if err != nil {
		return err
	}
	cli.logger = zl
	cli.closers = append(cli.closers, func() { _ = zl.Sync() })
	return nil
}

// loadConf reads the config once per run and sets up everything that depends on it.
func (cli *commandLine) loadConf() error {
	if cli.conf != nil {
		return nil
	}
	conf, err := loadConfigFunc(cli.configPath)
	if err != nil {
		return err
	}
	cli.conf = conf

	if conf.RollbarToken != "" {
		rl := logsvc.NewRollbarLogger(cli.logger, conf)
		rl.Enable(!conf.Debug)
		cli.logger = rl
		cli.reporter = rl
		cli.closers = append(cli.closers, rl.Close)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	cli.students = student.NewService(conf, validate, translator)
	return nil
}

// setup resolves the student and the repository every report reads from.
func (cli *commandLine) setup(key string) (student.Student, coursework.Repository, error) {
	if err := cli.loadConf(); err != nil {
		return student.Student{}, nil, err
	}
	stu, err := cli.students.Get(key)
	if err != nil {
		return student.Student{}, nil, err
	}
	cli.logger.Debug("student resolved", stu)

	repo, err := cli.newRepo(cli.conf, stu, cli.logger)
	if err != nil {
		return student.Student{}, nil, pkgerrors.Wrap(err, "creating canvas client")
	}
	return stu, repo, nil
}

func (cli *commandLine) close() {
	for i := len(cli.closers) - 1; i >= 0; i-- {
		cli.closers[i]()
	}
	cli.closers = nil
}

func newCanvasRepository(conf *core.Config, stu student.Student, logger core.Logger) (coursework.Repository, error) {
	client, err := canvas.NewClient(stu.Domain, stu.Token,
		canvas.WithHTTPClient(&http.Client{Timeout: conf.HTTPTimeout}),
		canvas.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return canvas.NewRepository(client), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
