package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"tricalc/internal/auth"
	"tricalc/internal/config"
	"tricalc/internal/service"
	"tricalc/internal/store"
	"tricalc/internal/strava"
	"tricalc/internal/tui"
)

// errNotConnected is returned by the Strava commands before a login
var errNotConnected = errors.New("strava is not connected, run 'tricalc strava login' first")

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A local .env may carry TRICALC_STRAVA_* credentials; it is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("reading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

// env bundles what every command needs
type env struct {
	cfg   *config.Config
	db    *store.Store
	plans *service.PlanService
	calc  *service.CalculatorService
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	plans := service.NewPlanService(db)
	profile, err := plans.Profile()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &env{
		cfg:   cfg,
		db:    db,
		plans: plans,
		calc:  service.NewCalculatorService(profile),
	}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

// loadConfig reads ~/.tricalc/config.json, writing an example on first start
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		log.Printf("created example config at %s/config.json", configDir)
		cfg, err = config.LoadOrDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		return nil, fmt.Errorf("invalid config %s/config.json: %w", configDir, err)
	}
	return cfg, nil
}

func runTUI(ctx context.Context) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var importSvc *service.ImportService
	client, err := newStravaClient(e)
	switch {
	case err == nil:
		importSvc = service.NewImportService(client, e.db)
	case errors.Is(err, errNotConnected):
		// the import screen explains how to connect
	default:
		log.Printf("strava unavailable: %v", err)
	}

	app := tui.NewApp(tui.Deps{
		Config:  e.cfg,
		Session: service.NewSession(e.cfg.Defaults),
		Calc:    e.calc,
		Store:   e.db,
		Plans:   e.plans,
		Import:  importSvc,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func oauthConfig(cfg *config.Config) *oauth2.Config {
	return auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})
}

// newStravaClient builds an API client from the stored tokens. Refreshed
// tokens are written back to the database.
func newStravaClient(e *env) (*strava.Client, error) {
	if err := e.cfg.ValidateStrava(); err != nil {
		return nil, errNotConnected
	}

	storedAuth, err := e.db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		return nil, errNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	db := e.db
	tokenSource := auth.NewTokenSource(oauthConfig(e.cfg), token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	return strava.NewClient(tokenSource), nil
}

func authenticate(ctx context.Context, e *env, out io.Writer) (*auth.AuthResult, error) {
	if err := e.cfg.ValidateStrava(); err != nil {
		return nil, err
	}

	result, err := auth.Authenticate(ctx, oauthConfig(e.cfg), out)
	if err != nil {
		return nil, err
	}

	// Store the tokens
	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := e.db.SaveAuth(storedAuth); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}

	return result, nil
}
