package tui

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tricalc/internal/analysis"
	"tricalc/internal/config"
	"tricalc/internal/service"
	"tricalc/internal/store"
)

func newTestApp(profile *store.Profile) *App {
	cfg := config.DefaultConfig()
	sess := service.NewSession(cfg.Defaults)
	calc := service.NewCalculatorService(profile)
	return NewApp(Deps{Config: &cfg, Session: sess, Calc: calc})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the app and runs the commands they return, so status
// messages and screen results come back through Update like in the program
func press(a *App, keys ...string) {
	for _, k := range keys {
		_, cmd := a.Update(key(k))
		drain(a, cmd)
	}
}

func drain(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case statusMsg, PlanLoadedMsg, ProfileSavedMsg, planSavedMsg,
		trainingPacesMsg, pacesLoadedMsg, plansLoadedMsg:
		_, next := a.Update(msg)
		drain(a, next)
	case tea.BatchMsg:
		for _, c := range msg {
			drain(a, c)
		}
	}
}

var testProfile = &store.Profile{Name: "Jana", BirthDate: "1999-05-01", Gender: "male"}

func TestNewApp_StartScreen(t *testing.T) {
	if a := newTestApp(nil); a.screen != ScreenProfile {
		t.Errorf("guest start screen = %v, want profile", a.screen)
	}
	if a := newTestApp(testProfile); a.screen != ScreenSwim {
		t.Errorf("start screen = %v, want swim", a.screen)
	}
}

func TestApp_Navigation(t *testing.T) {
	a := newTestApp(testProfile)

	tests := []struct {
		key  string
		want Screen
	}{
		{"2", ScreenBike},
		{"3", ScreenRun},
		{"4", ScreenTotal},
		{"1", ScreenSwim},
		{"?", ScreenHelp},
		{"esc", ScreenSwim},
	}

	for _, tt := range tests {
		press(a, tt.key)
		if a.screen != tt.want {
			t.Errorf("after %q screen = %v, want %v", tt.key, a.screen, tt.want)
		}
	}
}

func TestApp_ToggleMode(t *testing.T) {
	a := newTestApp(testProfile)

	press(a, "m")
	if a.session.Mode != service.ModePace {
		t.Errorf("mode = %q, want pace", a.session.Mode)
	}
	press(a, "m")
	if a.session.Mode != service.ModeTime {
		t.Errorf("mode = %q, want time", a.session.Mode)
	}
}

func TestApp_CyclePresets(t *testing.T) {
	a := newTestApp(testProfile)

	press(a, "p", "p")
	want, _ := analysis.PresetFor(analysis.CategoryOlympic)
	if got := a.session.Distances(); got != want {
		t.Errorf("distances = %+v, want %+v", got, want)
	}
	if a.status != "Preset: Olympic" {
		t.Errorf("status = %q", a.status)
	}
}

func TestApp_AddLegAndReset(t *testing.T) {
	a := newTestApp(testProfile)

	// 750 m at 2:00/100m
	press(a, "a")
	if got := a.session.Plan.SwimSeconds; got != 900 {
		t.Fatalf("swim seconds = %v, want 900", got)
	}
	if a.status != "Swim 0:15:00 added to total" {
		t.Errorf("status = %q", a.status)
	}

	press(a, "4")
	if got := a.calc.Total(a.session).Total; got != "0:15:00" {
		t.Errorf("total = %q, want 0:15:00", got)
	}

	press(a, "R")
	if got := a.session.Plan.TotalSeconds(); got != 0 {
		t.Errorf("plan total after reset = %v, want 0", got)
	}
}

func TestApp_EditingCapturesKeys(t *testing.T) {
	a := newTestApp(testProfile)

	press(a, "e")
	if !a.swim.Editing() {
		t.Fatal("expected distance input to be focused")
	}

	// digits go to the input, not to navigation
	_, cmd := a.Update(key("q"))
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatal("q quit while typing a distance")
		}
	}
	press(a, "2")
	if a.screen != ScreenSwim {
		t.Errorf("screen = %v, want swim while editing", a.screen)
	}

	press(a, "esc")
	if a.swim.Editing() {
		t.Error("esc should stop editing")
	}
}

func TestApp_EnterDistance(t *testing.T) {
	a := newTestApp(testProfile)

	press(a, "2", "e")
	a.bike.input.SetValue("42,5")
	press(a, "enter")

	if got := a.session.Bike.DistanceKm; got != 42.5 {
		t.Errorf("bike km = %v, want 42.5", got)
	}
}

func TestApp_Quit(t *testing.T) {
	a := newTestApp(testProfile)

	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestApp_ProfileSaved(t *testing.T) {
	a := newTestApp(nil)
	if got := a.calc.HeaderSubtitle(); got != "HI GUEST" {
		t.Fatalf("subtitle = %q", got)
	}

	a.Update(ProfileSavedMsg{Profile: testProfile})
	if a.calc.Profile() == nil {
		t.Fatal("profile not applied to the calculator")
	}
	if a.status != "Profile saved" {
		t.Errorf("status = %q", a.status)
	}
}

func TestApp_ProfileWithoutStore(t *testing.T) {
	a := newTestApp(nil)
	a.Init()

	a.profile.inputs[profileName].SetValue("Jana")
	a.profile.inputs[profileBirthDate].SetValue("1999-05-01")
	a.profile.inputs[profileGender].SetValue("male")
	a.profile, _ = a.profile.setFocus(profileGender)

	_, cmd := a.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected save command")
	}
	msg := cmd()
	errMsg, ok := msg.(profileErrMsg)
	if !ok {
		t.Fatalf("msg = %T, want profileErrMsg", msg)
	}
	if errMsg.err != errNoStore {
		t.Errorf("err = %v, want errNoStore", errMsg.err)
	}
}

func TestApp_PlanLoadedSwitchesToTotal(t *testing.T) {
	a := newTestApp(testProfile)

	a.Update(PlanLoadedMsg{Plan: &store.RacePlan{
		Name: "Roth", Mode: "pace",
		SwimMeters: 3800, BikeKm: 180, RunKm: 42.2,
		SwimSeconds: 4200, T1Seconds: 240,
	}})
	if a.screen != ScreenTotal {
		t.Errorf("screen = %v, want total", a.screen)
	}
	if a.status != "Loaded plan Roth" {
		t.Errorf("status = %q", a.status)
	}
	if a.session.Mode != service.ModePace || a.session.Bike.DistanceKm != 180 {
		t.Errorf("session not restored: mode=%q bike=%v", a.session.Mode, a.session.Bike.DistanceKm)
	}
	if a.session.Plan.SwimSeconds != 4200 || a.session.Plan.T1 != (service.Transition{Minutes: 4}) {
		t.Errorf("plan = %+v", a.session.Plan)
	}
}

func TestApp_View(t *testing.T) {
	a := newTestApp(testProfile)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	for _, k := range []string{"1", "2", "3", "4", "5", "6", "7", "?"} {
		press(a, k)
		if a.View() == "" {
			t.Errorf("empty view after %q", k)
		}
	}
}

func TestApp_ImportDoneOffScreen(t *testing.T) {
	a := newTestApp(testProfile)

	a.Update(ImportDoneMsg{Result: &service.ImportResult{
		ActivitiesFetched: 4,
		ActivitiesStored:  3,
		Paces: []service.PaceSummary{
			{Discipline: analysis.Run, Pace: "5:30/km", ActivityCount: 3, Distance: "30.0 km"},
		},
	}})

	if a.screen != ScreenSwim {
		t.Errorf("screen = %v, want swim", a.screen)
	}
	if !a.strava.done || len(a.strava.paces) != 1 {
		t.Errorf("import screen not updated: done=%v paces=%d", a.strava.done, len(a.strava.paces))
	}
}

func TestApp_EnterDistanceRejectsText(t *testing.T) {
	a := newTestApp(testProfile)

	press(a, "2", "e")
	before := a.session.Bike.DistanceKm
	a.bike.input.SetValue("abc")
	press(a, "enter")

	if a.session.Bike.DistanceKm != before {
		t.Errorf("bike km = %v, want %v kept", a.session.Bike.DistanceKm, before)
	}
	if a.status != `"abc" is not a distance` {
		t.Errorf("status = %q", a.status)
	}
}

func TestApp_LegShowsSavedTime(t *testing.T) {
	a := newTestApp(testProfile)

	v := a.View()
	if strings.Contains(v, "In total:") {
		t.Fatal("saved time shown before adding the leg")
	}
	if !strings.Contains(v, "Presets") || !strings.Contains(v, "Sprint") {
		t.Errorf("view missing preset row:\n%s", v)
	}
	press(a, "a")
	if v := a.View(); !strings.Contains(v, "In total: 0:15:00") {
		t.Errorf("view missing saved swim time:\n%s", v)
	}
}

// newStoreApp builds an app over an in-memory database
func newStoreApp(t *testing.T) (*App, *store.Store, *service.PlanService) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	st, err := store.NewTestStore(sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	plans := service.NewPlanService(st)
	a := NewApp(Deps{
		Config:  &cfg,
		Session: service.NewSession(cfg.Defaults),
		Calc:    service.NewCalculatorService(testProfile),
		Store:   st,
		Plans:   plans,
	})
	return a, st, plans
}

// runAsync runs a command on its own goroutine like the program does and
// delivers its message when it is done
func runAsync(cmd tea.Cmd) <-chan tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	return ch
}

func TestApp_ApplyTrainingPaces(t *testing.T) {
	a, st, _ := newStoreApp(t)

	if err := st.UpsertTrainingPace(&store.TrainingPace{
		Discipline:     analysis.Run.String(),
		SecondsPerUnit: 330,
		ActivityCount:  3,
		TotalMeters:    30000,
		UpdatedAt:      time.Now(),
	}); err != nil {
		t.Fatalf("UpsertTrainingPace() error = %v", err)
	}
	if err := st.UpsertActivity(&store.Activity{
		ID: 1, Name: "Long run", Type: "Run", StartDate: time.Now(), Distance: 10000, MovingTime: 3300,
	}); err != nil {
		t.Fatalf("UpsertActivity() error = %v", err)
	}

	press(a, "7")
	if len(a.strava.paces) != 1 || a.strava.stored != 1 {
		t.Fatalf("import screen: paces=%d stored=%d", len(a.strava.paces), a.strava.stored)
	}

	_, cmd := a.Update(key("a"))
	if cmd == nil {
		t.Fatal("expected a command to read the training paces")
	}
	done := runAsync(cmd)

	// the UI keeps working on the session while the command runs
	press(a, "3", "right")
	_ = a.View()

	a.Update(<-done)
	if a.session.Run.Pace != (analysis.Pace{Minutes: 5, Seconds: 30}) {
		t.Errorf("run pace = %+v, want 5:30", a.session.Run.Pace)
	}
	if a.status != "Training paces applied to the calculator" {
		t.Errorf("status = %q", a.status)
	}
}

func TestApp_LoadPlanFromList(t *testing.T) {
	a, _, plans := newStoreApp(t)

	src := service.NewSession(config.DefaultConfig().Defaults)
	src.ApplyPreset(analysis.CategoryHalf)
	src.Plan = service.Plan{SwimSeconds: 2100, BikeSeconds: 9000, RunSeconds: 6000}
	if _, err := plans.Save("Zell am See", src); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	press(a, "5")
	if len(a.plans.items) != 1 {
		t.Fatalf("plans listed = %d, want 1", len(a.plans.items))
	}

	_, cmd := a.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a command to load the plan")
	}
	done := runAsync(cmd)

	press(a, "p")
	_ = a.View()

	a.Update(<-done)
	if a.screen != ScreenTotal {
		t.Errorf("screen = %v, want total", a.screen)
	}
	if got := a.session.Distances(); got != src.Distances() {
		t.Errorf("distances = %+v, want %+v", got, src.Distances())
	}
	if a.session.Plan != src.Plan {
		t.Errorf("plan = %+v, want %+v", a.session.Plan, src.Plan)
	}
}

func TestApp_SavePlanUsesSessionAtEnter(t *testing.T) {
	a, _, plans := newStoreApp(t)

	press(a, "a", "4", "s")
	a.total.nameInput.SetValue("Club sprint")
	want := a.session.Distances()

	_, cmd := a.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	done := runAsync(cmd)

	// switch to 70.3 distances while the plan is written
	press(a, "p", "p", "p")
	_ = a.View()

	_, next := a.Update(<-done)
	drain(a, next)
	if a.status != `Saved plan "Club sprint"` {
		t.Errorf("status = %q", a.status)
	}

	p, err := plans.Find("Club sprint")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	got := analysis.RaceDistances{SwimMeters: p.SwimMeters, BikeKm: p.BikeKm, RunKm: p.RunKm}
	if got != want {
		t.Errorf("saved distances = %+v, want %+v", got, want)
	}
	if p.SwimSeconds != 900 {
		t.Errorf("saved swim = %v, want 900", p.SwimSeconds)
	}
}
