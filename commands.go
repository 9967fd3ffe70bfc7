package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tricalc/internal/analysis"
	"tricalc/internal/config"
	"tricalc/internal/service"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tricalc",
		Short:         "Triathlon race time calculator",
		Long:          "Plan swim, bike and run splits and see how the finishing time ranks in your age group.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.AddCommand(newLegCmd(analysis.Swim))
	root.AddCommand(newLegCmd(analysis.Bike))
	root.AddCommand(newLegCmd(analysis.Run))
	root.AddCommand(newEstimateCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newStravaCmd())
	root.AddCommand(newPresetsCmd())
	return root
}

// newLegCmd computes one leg: the time from distance and pace, or with
// --target the pace (bike: speed) needed for that time
func newLegCmd(d analysis.Discipline) *cobra.Command {
	var distance, speed float64
	var pace, target string

	defaults := config.DefaultConfig().Defaults
	cmd := &cobra.Command{
		Use:   d.String(),
		Short: fmt.Sprintf("Compute the %s leg", d),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			mode := service.ModeTime
			var tgt analysis.TimeComponents
			if target != "" {
				var ok bool
				if tgt, ok = analysis.ParseDuration(target); !ok {
					return fmt.Errorf("target %q must look like H:MM:SS", target)
				}
				mode = service.ModePace
			}

			var r service.LegResult
			switch d {
			case analysis.Swim:
				p, err := parsePaceFlag(pace)
				if err != nil {
					return err
				}
				r = e.calc.Swim(mode, service.SwimInput{DistanceMeters: distance, Pace: p, Target: tgt})
			case analysis.Bike:
				r = e.calc.Bike(mode, service.BikeInput{DistanceKm: distance, SpeedKmh: speed, Target: tgt})
			case analysis.Run:
				p, err := parsePaceFlag(pace)
				if err != nil {
					return err
				}
				r = e.calc.Run(mode, service.RunInput{DistanceKm: distance, Pace: p, Target: tgt})
			}

			printLegResult(cmd.OutOrStdout(), r)
			return nil
		},
	}

	switch d {
	case analysis.Swim:
		cmd.Flags().Float64Var(&distance, "distance", defaults.SwimMeters, "swim distance in meters")
		cmd.Flags().StringVar(&pace, "pace", defaults.SwimPace, "pace per 100 m (M:SS)")
	case analysis.Bike:
		cmd.Flags().Float64Var(&distance, "distance", defaults.BikeKm, "bike distance in km")
		cmd.Flags().Float64Var(&speed, "speed", defaults.BikeSpeed, "average speed in km/h")
	case analysis.Run:
		cmd.Flags().Float64Var(&distance, "distance", defaults.RunKm, "run distance in km")
		cmd.Flags().StringVar(&pace, "pace", defaults.RunPace, "pace per km (M:SS)")
	}
	cmd.Flags().StringVar(&target, "target", "", "target time (H:MM:SS); prints the required pace instead")
	return cmd
}

func parsePaceFlag(raw string) (analysis.Pace, error) {
	p, ok := analysis.ParsePace(raw)
	if !ok {
		return analysis.Pace{}, fmt.Errorf("pace %q must look like M:SS", raw)
	}
	return p, nil
}

func printLegResult(w io.Writer, r service.LegResult) {
	_, _ = fmt.Fprintf(w, "%s: %s\n", r.Label, r.Main)
	if r.Category.Valid() {
		_, _ = fmt.Fprintf(w, "Distance: %s\n", r.Category)
	}
	if r.Percentile != nil {
		_, _ = fmt.Fprintln(w, r.Percentile.Badge())
	}
}

func newEstimateCmd() *cobra.Command {
	var leg, preset string
	var distance, swimMeters, bikeKm, runKm float64

	cmd := &cobra.Command{
		Use:   "estimate <H:MM:SS>",
		Short: "Estimate the age group percentile of a leg or race time",
		Example: "  tricalc estimate 2:35:00 --preset olympic\n" +
			"  tricalc estimate 0:24:30 --leg run --distance 5",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := analysis.ParseDuration(args[0])
			if !ok {
				return fmt.Errorf("time %q must look like H:MM:SS", args[0])
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if e.calc.Profile() == nil {
				return fmt.Errorf("no profile, run 'tricalc profile set' first")
			}

			var pd *service.PercentileDisplay
			if leg != "" {
				d, ok := analysis.ParseDiscipline(leg)
				if !ok {
					return fmt.Errorf("leg %q must be swim, bike or run", leg)
				}
				if distance <= 0 {
					return fmt.Errorf("--distance is required with --leg")
				}
				pd = e.calc.Estimate(d, t.TotalSeconds(), distance)
			} else {
				distances := analysis.RaceDistances{SwimMeters: swimMeters, BikeKm: bikeKm, RunKm: runKm}
				if preset != "" {
					c := analysis.ParseCategory(preset)
					if !c.Valid() {
						return fmt.Errorf("unknown preset %q", preset)
					}
					distances, _ = analysis.PresetFor(c)
				}
				pd = e.calc.EstimateRace(t.TotalSeconds(), distances)
			}

			if pd == nil {
				return fmt.Errorf("no benchmark for these distances, use a standard race distance")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), pd.Badge())
			return nil
		},
	}

	cmd.Flags().StringVar(&leg, "leg", "", "swim, bike or run (default: whole race)")
	cmd.Flags().Float64Var(&distance, "distance", 0, "leg distance (swim in meters, bike and run in km)")
	cmd.Flags().StringVar(&preset, "preset", "", "race preset: sprint, olympic, half or full")
	cmd.Flags().Float64Var(&swimMeters, "swim", 0, "race swim distance in meters")
	cmd.Flags().Float64Var(&bikeKm, "bike", 0, "race bike distance in km")
	cmd.Flags().Float64Var(&runKm, "run", 0, "race run distance in km")
	return cmd
}

func newPlanCmd() *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Saved race plans"}

	plan.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			items, err := e.plans.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				_, _ = fmt.Fprintln(out, "no saved plans")
				return nil
			}
			for _, p := range items {
				_, _ = fmt.Fprintf(out, "%-8s  %-25s  %-12s  %8s  %s\n", p.ShortID, p.Name, p.Category, p.Total, p.SavedAgo)
			}
			return nil
		},
	})

	plan.AddCommand(&cobra.Command{
		Use:   "show <id|name>",
		Short: "Show the splits of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := e.plans.Find(args[0])
			if err != nil {
				return err
			}
			x := service.BuildExport(*p, e.calc)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s (%s)\n", x.Name, x.Category)
			rows := [][2]string{
				{"Swim", x.Swim}, {"T1", x.T1}, {"Bike", x.Bike},
				{"T2", x.T2}, {"Run", x.Run}, {"Total", x.Total},
			}
			for _, r := range rows {
				_, _ = fmt.Fprintf(out, "  %-6s %s\n", r[0], r[1])
			}
			if x.Percentile != nil {
				pd := service.PercentileDisplay{Percentile: x.Percentile.Value, AgeGroup: x.Percentile.AgeGroup}
				_, _ = fmt.Fprintln(out, pd.Badge())
			}
			return nil
		},
	})

	var format, output string
	exportCmd := &cobra.Command{
		Use:   "export <id|name>",
		Short: "Export a plan as YAML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return e.plans.Export(w, args[0], format, e.calc)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", service.FormatYAML, "yaml or json")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	plan.AddCommand(exportCmd)

	plan.AddCommand(&cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := e.plans.Delete(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", p.Name, p.ID)
			return nil
		},
	})

	return plan
}

func newProfileCmd() *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Athlete profile for age group estimates"}

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			p := e.calc.Profile()
			if p == nil {
				_, _ = fmt.Fprintln(out, "no profile, estimates are disabled")
				return nil
			}
			_, _ = fmt.Fprintf(out, "Name:       %s\nBirth date: %s\nGender:     %s\n", p.Name, p.BirthDate, p.Gender)
			_, _ = fmt.Fprintln(out, e.calc.HeaderSubtitle())
			return nil
		},
	})

	var name, birth, gender string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Create or replace the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := e.plans.SaveProfile(name, birth, gender)
			if err != nil {
				return err
			}
			e.calc.SetProfile(p)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved profile: %s\n", e.calc.HeaderSubtitle())
			return nil
		},
	}
	setCmd.Flags().StringVar(&name, "name", "", "your name")
	setCmd.Flags().StringVar(&birth, "birth", "", "birth date (YYYY-MM-DD)")
	setCmd.Flags().StringVar(&gender, "gender", "", "male or female")
	profile.AddCommand(setCmd)

	return profile
}

func newStravaCmd() *cobra.Command {
	s := &cobra.Command{Use: "strava", Short: "Import training paces from Strava"}

	s.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Connect your Strava account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			result, err := authenticate(cmd.Context(), e, out)
			if err != nil {
				return fmt.Errorf("authentication: %w", err)
			}

			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintf(out, "Successfully authenticated as athlete %d!\n", result.AthleteID)

			if e.calc.Profile() == nil {
				_, _ = fmt.Fprintln(out, "Set up a profile for age group estimates:")
				_, _ = fmt.Fprintf(out, "  tricalc profile set --name %q --birth YYYY-MM-DD --gender male|female\n", result.Firstname)
			}
			return nil
		},
	})

	s.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Strava tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.db.DeleteAuth(); err != nil {
				return fmt.Errorf("removing auth: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "strava disconnected, imported paces are kept")
			return nil
		},
	})

	var days int
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import recent activities and average them into training paces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			client, err := newStravaClient(e)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = e.cfg.Strava.ImportDays
			}

			out := cmd.OutOrStdout()
			progress := make(chan service.ImportProgress, 16)
			done := make(chan struct{})
			go func() {
				defer close(done)
				last := ""
				for p := range progress {
					if p.Phase != last {
						_, _ = fmt.Fprintf(out, "%s...\n", p.Phase)
						last = p.Phase
					}
				}
			}()

			result, err := service.NewImportService(client, e.db).Import(cmd.Context(), days, progress)
			<-done
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "%d activities fetched, %d stored, %d skipped\n",
				result.ActivitiesFetched, result.ActivitiesStored, result.ActivitiesSkipped)
			for _, p := range result.Paces {
				_, _ = fmt.Fprintf(out, "  %-5s %-12s %d activities, %s\n", p.Discipline, p.Pace, p.ActivityCount, p.Distance)
			}
			if len(result.Errors) > 0 {
				_, _ = fmt.Fprintf(out, "%d errors occurred\n", len(result.Errors))
			}
			return nil
		},
	}
	importCmd.Flags().IntVar(&days, "days", service.DefaultImportDays, "how many days back to import")
	s.AddCommand(importCmd)

	return s
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the standard race distances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, c := range analysis.Categories {
				r, _ := analysis.PresetFor(c)
				_, _ = fmt.Fprintf(out, "%-8s %-8s swim %5.0f m  bike %5.1f km  run %4.1f km  benchmark %s (T1+T2 %s)\n",
					c.Key(), c, r.SwimMeters, r.BikeKm, r.RunKm,
					analysis.FormatDuration(analysis.BaseRaceTime(c)),
					analysis.FormatDuration(analysis.BaseTransition(c)))
			}
			return nil
		},
	}
}
