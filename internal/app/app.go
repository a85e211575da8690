// Package app builds the shared application context: the database, the
// key-value store, the notification channel, the remote client and the
// three feature controllers with their command tables.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/api"
	"github.com/ziadkadry99/smartcalc/internal/calculator"
	"github.com/ziadkadry99/smartcalc/internal/config"
	"github.com/ziadkadry99/smartcalc/internal/converter"
	"github.com/ziadkadry99/smartcalc/internal/db"
	"github.com/ziadkadry99/smartcalc/internal/dispatch"
	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/notify"
	"github.com/ziadkadry99/smartcalc/internal/scientific"
	"github.com/ziadkadry99/smartcalc/internal/storage"
	"github.com/ziadkadry99/smartcalc/internal/theme"
)

// notificationRetention is how long banners stay in the notification log.
const notificationRetention = 30 * 24 * time.Hour

// App is the fully wired client. Build it once with New and pass it to
// whatever drives it (a command, the shell, the bridge).
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *db.DB
	Storage       *storage.Local
	Notifications *notify.Store
	Dispatcher    *notify.Dispatcher
	Banners       *notify.Recorder
	Notifier      notify.Notifier
	Client        *api.Client
	Theme         *theme.Manager

	Calculator *calculator.Calculator
	Converter  *converter.Converter
	Scientific *scientific.Calculator

	tables  map[string]*dispatch.Table
	keymaps map[string]*dispatch.Keymap
	books   map[string]Book
	ownsDB  bool
}

type options struct {
	logger     *slog.Logger
	out        io.Writer
	httpClient *http.Client
	database   *db.DB
	onHistory  func(feature string)
	onState    func(feature string, state any)
	onQuick    func(rows []converter.QuickRow)
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger. Defaults to a stderr logger at the
// configured level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOutput prints banners to w. Defaults to stderr; nil silences them.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithHTTPClient sets the client used for remote calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithDatabase uses an already open database instead of the configured
// file. The caller keeps ownership of it.
func WithDatabase(d *db.DB) Option {
	return func(o *options) { o.database = d }
}

// WithHistoryListener is called with the feature name after every
// history change.
func WithHistoryListener(fn func(feature string)) Option {
	return func(o *options) { o.onHistory = fn }
}

// WithStateListener is called with the feature name and its new state
// after every controller state change.
func WithStateListener(fn func(feature string, state any)) Option {
	return func(o *options) { o.onState = fn }
}

// WithQuickTableListener receives the converter's quick table, rebuilt in
// the background whenever its category or units change.
func WithQuickTableListener(fn func(rows []converter.QuickRow)) Option {
	return func(o *options) { o.onQuick = fn }
}

// New wires the application from cfg.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = NewLogger(os.Stderr, cfg.LogLevel, false)
	}

	a := &App{Config: cfg, Logger: o.logger}

	if o.database != nil {
		a.DB = o.database
	} else {
		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.DB = database
		a.ownsDB = true
	}

	a.Storage = storage.NewLocal(a.DB,
		storage.WithQuota(cfg.StorageQuotaBytes),
		storage.WithLogger(a.Logger),
	)

	a.Notifications = notify.NewStore(a.DB)
	cutoff := time.Now().Add(-notificationRetention)
	if n, err := a.Notifications.Prune(context.Background(), cutoff); err != nil {
		a.Logger.Warn("could not prune notification log", "err", err)
	} else if n > 0 {
		a.Logger.Debug("pruned notification log", "removed", n)
	}

	dispatchOpts := []notify.DispatcherOption{
		notify.WithStore(a.Notifications),
		notify.WithLogger(a.Logger),
	}
	if o.out != nil {
		dispatchOpts = append(dispatchOpts, notify.WithWriter(o.out))
	}
	if cfg.WebhookURL != "" {
		dispatchOpts = append(dispatchOpts, notify.WithWebhook(cfg.WebhookURL))
	}
	a.Dispatcher = notify.NewDispatcher(dispatchOpts...)
	a.Banners = notify.NewRecorder()
	a.Notifier = errorDuration(cfg.NotifyDuration(), notify.Multi(a.Dispatcher, a.Banners))

	clientOpts := []api.Option{
		api.WithNotifier(a.Notifier),
		api.WithLogger(a.Logger),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(o.httpClient))
	}
	a.Client = api.NewClient(cfg.APIURL, clientOpts...)

	a.Theme = theme.New(a.Storage, cfg.Theme)

	a.buildControllers(o)
	return a, nil
}

func (a *App) buildControllers(o options) {
	cfg := a.Config
	historyChanged := func(feature string) {
		if o.onHistory != nil {
			o.onHistory(feature)
		}
	}
	stateChanged := func(feature string, s any) {
		if o.onState != nil {
			o.onState(feature, s)
		}
	}

	calcHistory := history.New(history.Options[calculator.Record]{
		Key:    history.Calculator.Key,
		Max:    cfg.History.CalculatorMax,
		Store:  a.Storage,
		Render: func([]history.Entry[calculator.Record]) { historyChanged(history.Calculator.Name) },
	})
	convHistory := history.New(history.Options[converter.Record]{
		Key:    history.Converter.Key,
		Max:    cfg.History.ConverterMax,
		Store:  a.Storage,
		Render: func([]history.Entry[converter.Record]) { historyChanged(history.Converter.Name) },
	})
	sciHistory := history.New(history.Options[scientific.Record]{
		Key:    history.Scientific.Key,
		Max:    cfg.History.ScientificMax,
		Store:  a.Storage,
		Render: func([]history.Entry[scientific.Record]) { historyChanged(history.Scientific.Name) },
	})

	a.Calculator = calculator.New(a.Client, calcHistory,
		calculator.WithNotifier(a.Notifier),
		calculator.WithOnChange(func(s calculator.State) { stateChanged(history.Calculator.Name, s) }),
	)
	convOpts := []converter.Option{
		converter.WithNotifier(a.Notifier),
		converter.WithDebounce(cfg.Debounce()),
		converter.WithOnChange(func(s converter.State) { stateChanged(history.Converter.Name, s) }),
	}
	if o.onQuick != nil {
		convOpts = append(convOpts, converter.WithQuickTable(o.onQuick))
	}
	a.Converter = converter.New(a.Client, convHistory, convOpts...)
	a.Scientific = scientific.New(a.Client, sciHistory,
		scientific.WithNotifier(a.Notifier),
		scientific.WithLogger(a.Logger),
		scientific.WithPrefs(a.Storage),
		scientific.WithDefaultAngleMode(cfg.AngleMode),
		scientific.WithOnChange(func(s scientific.State) { stateChanged(history.Scientific.Name, s) }),
	)

	calcTable := a.Calculator.Commands()
	convTable := a.Converter.Commands()
	sciTable := a.Scientific.Commands()
	a.tables = map[string]*dispatch.Table{
		history.Calculator.Name: calcTable,
		history.Converter.Name:  convTable,
		history.Scientific.Name: sciTable,
	}
	a.keymaps = map[string]*dispatch.Keymap{
		history.Calculator.Name: calculator.Keymap(calcTable),
		history.Converter.Name:  converter.Keymap(convTable),
		history.Scientific.Name: scientific.Keymap(sciTable),
	}
	for name, km := range a.keymaps {
		a.tables[name].Register(ActionShortcuts, a.showShortcuts(km))
		km.Add(ShortcutsKey, ActionShortcuts, "")
	}

	a.books = map[string]Book{
		history.Calculator.Name: &book[calculator.Record]{
			feature:  history.Calculator,
			manager:  calcHistory,
			clear:    a.Calculator.ClearHistory,
			use:      a.Calculator.UseHistory,
			render:   calculator.RenderHistory,
			notifier: a.Notifier,
		},
		history.Converter.Name: &book[converter.Record]{
			feature:  history.Converter,
			manager:  convHistory,
			clear:    a.Converter.ClearHistory,
			use:      a.Converter.UseHistory,
			render:   converter.RenderHistory,
			notifier: a.Notifier,
		},
		history.Scientific.Name: &book[scientific.Record]{
			feature:  history.Scientific,
			manager:  sciHistory,
			settings: a.Scientific.ExportSettings,
			clear:    a.Scientific.ClearHistory,
			use:      a.Scientific.UseHistory,
			render:   scientific.RenderHistory,
			notifier: a.Notifier,
		},
	}
}

// Every feature binds ShortcutsKey to an info banner listing its keys.
const (
	ShortcutsKey    = "ctrl+/"
	ActionShortcuts = "shortcuts"
)

func (a *App) showShortcuts(km *dispatch.Keymap) dispatch.Handler {
	return func(ctx context.Context, _ string) error {
		msg := "Available shortcuts: " + strings.Join(km.Keys(), ", ")
		a.Notifier.Notify(ctx, notify.Info(msg, 3*time.Second))
		return nil
	}
}

// Table returns the command table of a feature.
func (a *App) Table(feature string) (*dispatch.Table, error) {
	t, ok := a.tables[feature]
	if !ok {
		_, err := history.LookupFeature(feature)
		return nil, err
	}
	return t, nil
}

// Keymap returns the keyboard shortcuts of a feature.
func (a *App) Keymap(feature string) (*dispatch.Keymap, error) {
	km, ok := a.keymaps[feature]
	if !ok {
		_, err := history.LookupFeature(feature)
		return nil, err
	}
	return km, nil
}

// Run executes one action of a feature.
func (a *App) Run(ctx context.Context, feature, action, arg string) error {
	t, err := a.Table(feature)
	if err != nil {
		return err
	}
	return t.Run(ctx, action, arg)
}

// State returns the current state of a feature's controller.
func (a *App) State(feature string) (any, error) {
	switch feature {
	case history.Calculator.Name:
		return a.Calculator.State(), nil
	case history.Converter.Name:
		return a.Converter.State(), nil
	case history.Scientific.Name:
		return a.Scientific.State(), nil
	}
	_, err := history.LookupFeature(feature)
	return nil, err
}

// History returns a feature's history list.
func (a *App) History(feature string) (Book, error) {
	b, ok := a.books[feature]
	if !ok {
		_, err := history.LookupFeature(feature)
		return nil, err
	}
	return b, nil
}

// Close stops pending work and releases the database.
func (a *App) Close() error {
	if a.Converter != nil {
		a.Converter.Close()
	}
	if a.ownsDB && a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// errorDuration shows error banners for d instead of the package default.
func errorDuration(d time.Duration, next notify.Notifier) notify.Notifier {
	return notify.NotifierFunc(func(ctx context.Context, n notify.Notification) {
		if d > 0 && n.Severity == notify.SeverityError && n.Duration == notify.DefaultDuration {
			n.Duration = d
		}
		next.Notify(ctx, n)
	})
}
