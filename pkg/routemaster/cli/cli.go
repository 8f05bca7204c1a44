package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/routemaster-go/routemaster/pkg/config"
	"github.com/routemaster-go/routemaster/pkg/routemaster/client"
	"github.com/routemaster-go/routemaster/pkg/routemaster/model"
	"github.com/routemaster-go/routemaster/pkg/util"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const appName string = "routemaster"

type Config struct {
	Routemaster  client.Config `yaml:"routemaster"`
	OTLPEndpoint string        `yaml:"otlp_endpoint"`
	LogLevel     string        `yaml:"log_level"`
}

// Env carries what the commands share besides the parsed flags.
type Env struct {
	Ctx    context.Context
	Out    io.Writer
	Doer   client.HTTPDoer
	Config Config
}

type SubscribeCmd struct {
	Callback string   `long:"callback" help:"Callback URL the service delivers events to"`
	Topic    []string `short:"t" long:"topic" sep:"none" help:"Topic to subscribe to. Repeatable, commas separate several topics."`
	UUID     string   `long:"uuid" help:"Subscriber UUID"`
	Timeout  string   `long:"timeout" help:"Delivery timeout, e.g. 30s or PT30S"`
	Max      int      `long:"max" help:"Maximum events per delivery batch. Zero means no cap."`
	File     []byte   `long:"file" type:"filecontent" help:"Read the subscription JSON from a file instead"`
}

type UnsubscribeCmd struct {
	Topic string `arg:"" help:"Topic to unsubscribe from"`
}

type UnsubscribeAllCmd struct{}

type PushCmd struct {
	Topic     string `arg:"" help:"Topic to publish to"`
	Type      string `long:"type" enum:"created,updated,deleted,noop," default:"" help:"Event type"`
	URL       string `long:"url" help:"URL of the resource the event is about"`
	Data      string `long:"data" help:"Event payload"`
	Timestamp string `long:"timestamp" help:"Event time in RFC 3339"`
	Now       bool   `long:"now" help:"Stamp the event with the current time"`
	File      []byte `long:"file" type:"filecontent" help:"Read the event JSON from a file instead"`
}

type TopicsCmd struct{}

type CLI struct {
	Config         string `short:"c" long:"config" type:"existingfile" help:"Path to the configuration file"`
	Server         string `short:"s" long:"server" help:"Base URL of the routemaster service"`
	ClientID       string `long:"client-id" help:"Client UUID used as the basic auth username"`
	RequestTimeout int    `long:"request-timeout" help:"HTTP request timeout in seconds"`
	LogLevel       string `long:"log-level" enum:"debug,info,warn,error," default:"" help:"Log level"`
	DryRun         bool   `long:"dry-run" help:"Print the request instead of sending it"`

	Subscribe      SubscribeCmd      `cmd:"" help:"Subscribe a callback URL to topics."`
	Unsubscribe    UnsubscribeCmd    `cmd:"" help:"Unsubscribe from one topic."`
	UnsubscribeAll UnsubscribeAllCmd `cmd:"" name:"unsubscribe-all" help:"Remove every subscription of this client."`
	Push           PushCmd           `cmd:"" help:"Push an event to a topic."`
	Topics         TopicsCmd         `cmd:"" help:"List topics."`
}

type App struct {
	Out  io.Writer
	Doer client.HTTPDoer

	// Exit is handed to kong for --help and usage errors.
	Exit func(int)
}

func (a *App) Run(ctx context.Context, args []string) error {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	exit := a.Exit
	if exit == nil {
		exit = os.Exit
	}

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(appName),
		kong.Description("Talk to a routemaster event bus."),
		kong.UsageOnError(),
		kong.Writers(out, os.Stderr),
		kong.Exit(exit),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	if err := setLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	if endpoint := cfg.OTLPEndpoint; endpoint != "" {
		exporter, err := otlp_util.InitExporter(
			otlp_util.WithContext(ctx),
			otlp_util.WithEndPoint(endpoint),
			otlp_util.WithServiceName(appName),
			otlp_util.WithInSecure(),
			otlp_util.WithErrorHandler(func(err error) {
				logrus.Warnf("OTLP error: %v", err)
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize OTLP exporter: %w", err)
		}
		defer func() { _ = exporter.Shutdown(ctx) }()
	}

	env := &Env{
		Ctx:    ctx,
		Out:    out,
		Doer:   a.Doer,
		Config: cfg,
	}
	return kctx.Run(&cli, env)
}

// LoadConfig reads --config when given and lets the global flags override it.
func (cli *CLI) LoadConfig() (Config, error) {
	cfg := Config{}
	if cli.Config != "" {
		if err := config.FromFile(cli.Config, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cli.Server != "" {
		cfg.Routemaster.URL = cli.Server
	}
	if cli.ClientID != "" {
		cfg.Routemaster.ClientID = cli.ClientID
	}
	if cli.RequestTimeout > 0 {
		cfg.Routemaster.Timeout = cli.RequestTimeout
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	return cfg, nil
}

func setLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

func (cli *CLI) newClient(env *Env) (*client.Client, error) {
	var opts []client.ClientOption
	switch {
	case cli.DryRun:
		opts = append(opts, client.ClientWithHTTPDoer(&dryRunDoer{out: env.Out}))
	case env.Doer != nil:
		opts = append(opts, client.ClientWithHTTPDoer(env.Doer))
	}
	return client.NewClientWithConfig(env.Config.Routemaster, opts...)
}

func (cmd *SubscribeCmd) Run(cli *CLI, env *Env) error {
	sub, err := cmd.subscription()
	if err != nil {
		return err
	}

	c, err := cli.newClient(env)
	if err != nil {
		return err
	}
	logrus.Debugf("Subscription: %s", util.StructToJSON(sub))
	if err := c.Subscribe(env.Ctx, sub); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	logrus.Infof("Subscribed %s to %d topic(s), batch limit %d (0 is unlimited).", sub.CallbackURL, len(sub.Topics), util.Deref(sub.MaxEvents, 0))
	return nil
}

func (cmd *SubscribeCmd) subscription() (model.Subscription, error) {
	if len(cmd.File) > 0 {
		sub := model.Subscription{}
		if err := json.Unmarshal(cmd.File, &sub); err != nil {
			return model.Subscription{}, fmt.Errorf("read subscription: %w", err)
		}
		return sub, nil
	}

	if cmd.Callback == "" {
		return model.Subscription{}, fmt.Errorf("--callback is required: %w", model.ErrInvalidURL)
	}

	var opts []model.SubscriptionOption
	if cmd.UUID != "" {
		id, err := uuid.Parse(cmd.UUID)
		if err != nil {
			return model.Subscription{}, fmt.Errorf("--uuid %q: %v: %w", cmd.UUID, err, model.ErrInvalidParameter)
		}
		opts = append(opts, model.SubscriptionWithUUID(id))
	}
	if cmd.Timeout != "" {
		timeout, err := parseTimeoutFlag(cmd.Timeout)
		if err != nil {
			return model.Subscription{}, err
		}
		opts = append(opts, model.SubscriptionWithTimeout(timeout))
	}
	if cmd.Max != 0 {
		opts = append(opts, model.SubscriptionWithMaxEvents(cmd.Max))
	}

	return model.NewSubscription(cmd.Callback, SplitTopics(cmd.Topic), opts...)
}

// SplitTopics expands comma separated flag values. Blank entries are dropped;
// order and duplicates are kept.
func SplitTopics(values []string) []string {
	topics := lo.FlatMap(values, func(value string, _ int) []string {
		return strings.Split(value, ",")
	})
	topics = lo.Map(topics, func(topic string, _ int) string {
		return strings.TrimSpace(topic)
	})
	return lo.Filter(topics, func(topic string, _ int) bool {
		return topic != ""
	})
}

// parseTimeoutFlag accepts Go durations ("30s") and the wire form ("PT30S").
func parseTimeoutFlag(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return model.ParseTimeout(s)
}

func (cmd *UnsubscribeCmd) Run(cli *CLI, env *Env) error {
	c, err := cli.newClient(env)
	if err != nil {
		return err
	}
	if err := c.Unsubscribe(env.Ctx, cmd.Topic); err != nil {
		return fmt.Errorf("failed to unsubscribe from %q: %w", cmd.Topic, err)
	}

	logrus.Infof("Unsubscribed from %q.", cmd.Topic)
	return nil
}

func (cmd *UnsubscribeAllCmd) Run(cli *CLI, env *Env) error {
	c, err := cli.newClient(env)
	if err != nil {
		return err
	}
	if err := c.UnsubscribeAll(env.Ctx); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	logrus.Info("Unsubscribed from all topics.")
	return nil
}

func (cmd *PushCmd) Run(cli *CLI, env *Env) error {
	event, err := cmd.event()
	if err != nil {
		return err
	}

	c, err := cli.newClient(env)
	if err != nil {
		return err
	}
	if err := c.Push(env.Ctx, cmd.Topic, event); err != nil {
		return fmt.Errorf("failed to push to %q: %w", cmd.Topic, err)
	}

	logrus.Infof("Pushed %s event for %s to %q.", event.Type, event.URL, cmd.Topic)
	return nil
}

func (cmd *PushCmd) event() (model.Event, error) {
	if len(cmd.File) > 0 {
		event := model.Event{}
		if err := json.Unmarshal(cmd.File, &event); err != nil {
			return model.Event{}, fmt.Errorf("read event: %w", err)
		}
		return event, nil
	}

	eventType, err := model.ParseEventType(cmd.Type)
	if err != nil {
		return model.Event{}, fmt.Errorf("--type: %w", err)
	}

	var opts []model.EventOption
	switch {
	case cmd.Timestamp != "":
		ts, err := model.ParseTimestamp(cmd.Timestamp)
		if err != nil {
			return model.Event{}, fmt.Errorf("--timestamp: %w", err)
		}
		opts = append(opts, model.EventWithTimestamp(ts))
	case cmd.Now:
		opts = append(opts, model.EventWithTimestamp(time.Now()))
	}

	return model.NewEvent(eventType, cmd.URL, cmd.Data, opts...)
}

func (cmd *TopicsCmd) Run(cli *CLI, env *Env) error {
	c, err := cli.newClient(env)
	if err != nil {
		return err
	}
	topics, err := c.Topics(env.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list topics: %w", err)
	}

	for _, topic := range topics {
		fmt.Fprintln(env.Out, topic)
	}
	return nil
}
