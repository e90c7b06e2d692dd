package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"cycling-fitness/internal/analysis"
	"cycling-fitness/internal/config"
	"cycling-fitness/internal/store"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Race.Name = "Vatternrundan"
	cfg.Race.Date = "2026-06-13"
	cfg.Race.RestStops = []config.RestStopConfig{
		{Name: "Hjo", KM: 88, StopMin: 8},
		{Name: "Askersund", KM: 204, StopMin: 10},
	}
	cfg.Athlete.FTPTargetWatts = 300
	cfg.Athlete.FTPTargetDate = "2026-12-31"
	cfg.Athlete.NextTestDate = "2026-07-01"
	return &cfg
}

func TestGetDashboardData(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()
	q := NewQueryService(db, cfg)
	compute := NewComputeService(db)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// One workout inside the trailing week, one before it
	addWorkout(t, db, now.AddDate(0, 0, -10), "Old ride", 90)
	addWorkout(t, db, now.AddDate(0, 0, -2), "Tempo", 75)
	if _, err := compute.RecomputeLoad(now); err != nil {
		t.Fatalf("RecomputeLoad() error = %v", err)
	}

	data, err := q.GetDashboardData(now)
	if err != nil {
		t.Fatalf("GetDashboardData() error = %v", err)
	}

	if !data.HasLoadData {
		t.Error("HasLoadData = false after a recompute")
	}
	if data.FormDescription == "" {
		t.Error("FormDescription empty")
	}
	if data.WeekTSS != 75 {
		t.Errorf("WeekTSS = %v, want 75 (only the in-week ride)", data.WeekTSS)
	}
	if data.WeekWorkouts != 1 {
		t.Errorf("WeekWorkouts = %d, want 1", data.WeekWorkouts)
	}
	if data.DaysToRace != 12 {
		t.Errorf("DaysToRace = %d, want 12 (June 1 -> June 13)", data.DaysToRace)
	}
	if data.RaceName != "Vatternrundan" {
		t.Errorf("RaceName = %q", data.RaceName)
	}
	if len(data.RecentWorkouts) != 2 {
		t.Errorf("RecentWorkouts = %d, want 2", len(data.RecentWorkouts))
	}

	// Chart series: 9 dense days from the first ride through today,
	// chronological, CTL and TSB aligned
	if len(data.CTLHistory) != len(data.TSBHistory) || len(data.CTLHistory) != len(data.ChartDates) {
		t.Fatalf("chart series lengths differ: %d/%d/%d",
			len(data.CTLHistory), len(data.TSBHistory), len(data.ChartDates))
	}
	if len(data.ChartDates) == 0 {
		t.Fatal("empty chart series")
	}
	for i := 1; i < len(data.ChartDates); i++ {
		if !data.ChartDates[i].After(data.ChartDates[i-1]) {
			t.Errorf("chart dates not chronological at %d: %v then %v",
				i, data.ChartDates[i-1], data.ChartDates[i])
		}
	}

	// Growth baseline comes from the first computed day
	earliest, err := db.GetEarliestLoadPoint()
	if err != nil {
		t.Fatalf("GetEarliestLoadPoint() error = %v", err)
	}
	if !data.StartDate.Equal(earliest.Date) {
		t.Errorf("StartDate = %v, want %v (first day of the series)", data.StartDate, earliest.Date)
	}
	if data.StartFitness != earliest.CTL {
		t.Errorf("StartFitness = %v, want %v", data.StartFitness, earliest.CTL)
	}
	if data.CurrentFitness <= data.StartFitness {
		t.Errorf("fitness growth = %v to %v, should rise over a loaded block",
			data.StartFitness, data.CurrentFitness)
	}
}

func TestGetDashboardDataEmpty(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db, testConfig())

	data, err := q.GetDashboardData(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetDashboardData() on empty store error = %v", err)
	}
	if data.HasLoadData {
		t.Error("HasLoadData = true on empty store")
	}
	if data.LatestScored != nil {
		t.Error("LatestScored should be nil on empty store")
	}
}

func TestGetRacePlan(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()
	q := NewQueryService(db, cfg)

	data, err := q.GetRacePlan()
	if err != nil {
		t.Fatalf("GetRacePlan() error = %v", err)
	}

	wantNP := cfg.Race.TargetIF * cfg.Race.ProjectedFTP
	if math.Abs(data.TargetNP-wantNP) > 0.001 {
		t.Errorf("TargetNP = %v, want %v", data.TargetNP, wantNP)
	}
	wantAvg := wantNP / cfg.Race.VariabilityIndex
	if math.Abs(data.TargetAvgPower-wantAvg) > 0.001 {
		t.Errorf("TargetAvgPower = %v, want %v", data.TargetAvgPower, wantAvg)
	}

	if len(data.Scenarios) != 5 {
		t.Fatalf("scenario count = %d, want 5", len(data.Scenarios))
	}

	soloFlat := data.Scenarios[0]
	soloReal := data.Scenarios[1]
	draft := data.Scenarios[2]

	// Course penalty slows the solo rider; drafting more than recovers it
	if soloReal.SpeedKPH >= soloFlat.SpeedKPH {
		t.Errorf("course-adjusted speed %v should be below flat %v", soloReal.SpeedKPH, soloFlat.SpeedKPH)
	}
	if draft.SpeedKPH <= soloReal.SpeedKPH {
		t.Errorf("drafting speed %v should beat solo %v", draft.SpeedKPH, soloReal.SpeedKPH)
	}

	// More drafting benefit, more speed
	conservative := data.Scenarios[3]
	optimistic := data.Scenarios[4]
	if optimistic.SpeedKPH <= conservative.SpeedKPH {
		t.Errorf("25%% draft %v should beat 15%% draft %v", optimistic.SpeedKPH, conservative.SpeedKPH)
	}

	// Total time carries the stop budget
	wantBudget := (8.0 + 10.0) / 60
	if math.Abs(data.StopBudgetHours-wantBudget) > 0.001 {
		t.Errorf("StopBudgetHours = %v, want %v", data.StopBudgetHours, wantBudget)
	}
	for _, s := range data.Scenarios {
		if math.Abs(s.TotalHours-(s.RideHours+wantBudget)) > 0.001 {
			t.Errorf("%s: TotalHours = %v, want ride %v + budget", s.Name, s.TotalHours, s.RideHours)
		}
	}

	// TSS estimate from the primary drafting scenario
	wantTSS := cfg.Race.TargetIF * cfg.Race.TargetIF * 100 * draft.RideHours
	if math.Abs(data.EstimatedTSS-wantTSS) > 0.001 {
		t.Errorf("EstimatedTSS = %v, want %v", data.EstimatedTSS, wantTSS)
	}

	// Rest stops in course order with increasing elapsed time
	if len(data.RestStops) != 2 {
		t.Fatalf("rest stop count = %d, want 2", len(data.RestStops))
	}
	if data.RestStops[1].ElapsedHours <= data.RestStops[0].ElapsedHours {
		t.Errorf("rest stop ETAs not increasing: %v then %v",
			data.RestStops[0].ElapsedHours, data.RestStops[1].ElapsedHours)
	}
	// Second stop's elapsed time includes the first stop's minutes
	wantSecond := data.RestStops[1].KM/draft.SpeedKPH + 8.0/60
	if math.Abs(data.RestStops[1].ElapsedHours-wantSecond) > 0.001 {
		t.Errorf("second stop ETA = %v, want %v", data.RestStops[1].ElapsedHours, wantSecond)
	}
}

func TestGetTaperData(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()
	q := NewQueryService(db, cfg)

	now := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC) // 42 days before June 13

	t.Run("no load series", func(t *testing.T) {
		_, err := q.GetTaperData(now)
		if !errors.Is(err, ErrNoTrainingData) {
			t.Errorf("GetTaperData() error = %v, want ErrNoTrainingData", err)
		}
	})

	point := store.LoadPoint{Date: now, DailyTSS: 80, CTL: 60, ATL: 65, TSB: -5}
	if err := db.UpsertLoadPoints([]store.LoadPoint{point}); err != nil {
		t.Fatalf("UpsertLoadPoints() error = %v", err)
	}

	data, err := q.GetTaperData(now)
	if err != nil {
		t.Fatalf("GetTaperData() error = %v", err)
	}

	if data.DaysToRace != 42 {
		t.Errorf("DaysToRace = %d, want 42", data.DaysToRace)
	}
	if data.Phase != "Peak" {
		t.Errorf("Phase = %q, want Peak at 6 weeks out", data.Phase)
	}
	if data.CurrentCTL != 60 || data.CurrentATL != 65 {
		t.Errorf("current CTL/ATL = %v/%v, want 60/65", data.CurrentCTL, data.CurrentATL)
	}

	// Projection must agree with the simulation run directly
	wantCTL, wantATL, wantTSB := analysis.SimulateTaper(60, 65, 42, taperSchedule(cfg.Taper))
	if math.Abs(data.ProjectedCTL-wantCTL) > 1e-9 ||
		math.Abs(data.ProjectedATL-wantATL) > 1e-9 ||
		math.Abs(data.ProjectedTSB-wantTSB) > 1e-9 {
		t.Errorf("projection = %v/%v/%v, want %v/%v/%v",
			data.ProjectedCTL, data.ProjectedATL, data.ProjectedTSB, wantCTL, wantATL, wantTSB)
	}

	wantOnTrack := wantTSB >= cfg.Taper.TargetTSBMin && wantTSB <= cfg.Taper.TargetTSBMax
	if data.OnTrack != wantOnTrack {
		t.Errorf("OnTrack = %v with projected TSB %v and band [%v, %v]",
			data.OnTrack, wantTSB, cfg.Taper.TargetTSBMin, cfg.Taper.TargetTSBMax)
	}
}

func TestGetFTPProjection(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()
	q := NewQueryService(db, cfg)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no history", func(t *testing.T) {
		_, err := q.GetFTPProjection(now)
		if !errors.Is(err, store.ErrNoFTPHistory) {
			t.Errorf("GetFTPProjection() error = %v, want ErrNoFTPHistory", err)
		}
	})

	older := &store.FTPRecord{
		TestDate: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		Watts:    250, Protocol: "ramp", Confidence: "high",
	}
	recent := &store.FTPRecord{
		TestDate: time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC), // 15 weeks later
		Watts:    265, Protocol: "ramp", Confidence: "high",
	}
	if err := db.InsertFTPRecord(older); err != nil {
		t.Fatalf("InsertFTPRecord() error = %v", err)
	}
	if err := db.InsertFTPRecord(recent); err != nil {
		t.Fatalf("InsertFTPRecord() error = %v", err)
	}

	data, err := q.GetFTPProjection(now)
	if err != nil {
		t.Fatalf("GetFTPProjection() error = %v", err)
	}

	if data.CurrentFTP != 265 {
		t.Errorf("CurrentFTP = %v, want 265 (latest test)", data.CurrentFTP)
	}
	if len(data.History) != 2 {
		t.Errorf("History = %d records, want 2", len(data.History))
	}

	wantGain := analysis.RequiredWeeklyGain(265, 300, now, cfg.FTPTargetDate())
	if math.Abs(data.RequiredWeeklyGain-wantGain) > 1e-9 {
		t.Errorf("RequiredWeeklyGain = %v, want %v", data.RequiredWeeklyGain, wantGain)
	}

	if !data.HasHistoricalRate {
		t.Fatal("HasHistoricalRate = false with two tests")
	}
	// 15 W over 15 weeks
	if math.Abs(data.HistoricalWeeklyGain-1.0) > 0.001 {
		t.Errorf("HistoricalWeeklyGain = %v, want 1.0", data.HistoricalWeeklyGain)
	}

	wantAtRace := analysis.ProjectFTP(265, wantGain, now, cfg.RaceDate())
	if math.Abs(data.ProjectedAtRace-wantAtRace) > 1e-9 {
		t.Errorf("ProjectedAtRace = %v, want %v", data.ProjectedAtRace, wantAtRace)
	}
	if data.NextTestDate.IsZero() {
		t.Error("NextTestDate not populated from config")
	}
	if data.ProjectedAtNextTest <= 265 {
		t.Errorf("ProjectedAtNextTest = %v, should exceed current FTP on a rising trajectory", data.ProjectedAtNextTest)
	}
}

func TestGetWorkoutsList(t *testing.T) {
	db := openTestDB(t)
	q := NewQueryService(db, testConfig())

	for i := 1; i <= 5; i++ {
		addWorkout(t, db, day(i), "Ride", 50)
	}

	workouts, err := q.GetWorkoutsList(3)
	if err != nil {
		t.Fatalf("GetWorkoutsList() error = %v", err)
	}
	if len(workouts) != 3 {
		t.Fatalf("len = %d, want 3", len(workouts))
	}
	if !workouts[0].Date.Equal(day(5)) {
		t.Errorf("first workout date = %v, want newest first", workouts[0].Date)
	}
}
