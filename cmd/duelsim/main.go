package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Cannon-Sense/internal/gunner"
)

// duelScenario is a fully resolved duel setup: arena, physics, and the two
// tanks. Built-in scenarios live in builtinScenarios; custom ones come from a
// YAML file via -config.
type duelScenario struct {
	name          string
	arenaW        float64
	arenaH        float64
	rolling       bool
	groundY       float64
	gravity       float64
	wind          float64
	airResistance float64
	leftX         float64
	rightX        float64
	leftDiff      gunner.Difficulty
	rightDiff     gunner.Difficulty
}

var builtinScenarios = map[string]duelScenario{
	"flat-duel": {
		name:   "flat-duel",
		arenaW: 1000, arenaH: 600, groundY: 500, gravity: 9.8,
		leftX: 100, rightX: 900,
		leftDiff: gunner.DifficultyMedium, rightDiff: gunner.DifficultyMedium,
	},
	"rolling-duel": {
		name:   "rolling-duel",
		arenaW: 1200, arenaH: 700, rolling: true, gravity: 9.8,
		leftX: 150, rightX: 1050,
		leftDiff: gunner.DifficultyMedium, rightDiff: gunner.DifficultyMedium,
	},
	"windy-duel": {
		name:   "windy-duel",
		arenaW: 1000, arenaH: 600, groundY: 500, gravity: 9.8,
		wind: 3, airResistance: 0.002,
		leftX: 120, rightX: 880,
		leftDiff: gunner.DifficultyMedium, rightDiff: gunner.DifficultyMedium,
	},
	"mismatch": {
		name:   "mismatch",
		arenaW: 1000, arenaH: 600, groundY: 500, gravity: 9.8,
		leftX: 100, rightX: 900,
		leftDiff: gunner.DifficultyHard, rightDiff: gunner.DifficultyEasy,
	},
}

// scenarioFile is the YAML shape accepted by -config.
type scenarioFile struct {
	Name  string `yaml:"name"`
	Arena struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"arena"`
	Ground        string  `yaml:"ground"` // "flat" or "rolling"
	GroundY       float64 `yaml:"ground_y"`
	Gravity       float64 `yaml:"gravity"`
	Wind          float64 `yaml:"wind"`
	AirResistance float64 `yaml:"air_resistance"`
	Left          struct {
		X          float64 `yaml:"x"`
		Difficulty string  `yaml:"difficulty"`
	} `yaml:"left"`
	Right struct {
		X          float64 `yaml:"x"`
		Difficulty string  `yaml:"difficulty"`
	} `yaml:"right"`
}

func loadScenarioFile(path string) (duelScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return duelScenario{}, fmt.Errorf("read scenario config: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return duelScenario{}, fmt.Errorf("parse scenario config: %w", err)
	}

	sc := builtinScenarios["flat-duel"]
	sc.name = f.Name
	if sc.name == "" {
		sc.name = path
	}
	if f.Arena.Width > 0 {
		sc.arenaW = f.Arena.Width
	}
	if f.Arena.Height > 0 {
		sc.arenaH = f.Arena.Height
	}
	switch f.Ground {
	case "", "flat":
		sc.rolling = false
	case "rolling":
		sc.rolling = true
	default:
		return duelScenario{}, fmt.Errorf("parse scenario config: unknown ground %q", f.Ground)
	}
	if f.GroundY > 0 {
		sc.groundY = f.GroundY
	}
	if f.Gravity > 0 {
		sc.gravity = f.Gravity
	}
	sc.wind = f.Wind
	sc.airResistance = f.AirResistance
	if f.Left.X > 0 {
		sc.leftX = f.Left.X
	}
	if f.Right.X > 0 {
		sc.rightX = f.Right.X
	}
	if f.Left.Difficulty != "" {
		d, err := gunner.ParseDifficulty(f.Left.Difficulty)
		if err != nil {
			return duelScenario{}, fmt.Errorf("parse scenario config: %w", err)
		}
		sc.leftDiff = d
	}
	if f.Right.Difficulty != "" {
		d, err := gunner.ParseDifficulty(f.Right.Difficulty)
		if err != nil {
			return duelScenario{}, fmt.Errorf("parse scenario config: %w", err)
		}
		sc.rightDiff = d
	}
	return sc, nil
}

// tankStats is one tank's line in a run report, mined from the duel log.
type tankStats struct {
	label       string
	difficulty  gunner.Difficulty
	shots       int
	hits        int
	exploits    int
	corrections int
	resets      int
	fallbacks   int
	invalid     int
	missSum     float64
}

func (ts tankStats) hitRate() float64 {
	if ts.shots == 0 {
		return 0
	}
	return float64(ts.hits) / float64(ts.shots) * 100
}

func (ts tankStats) avgMiss() float64 {
	if ts.shots == 0 {
		return 0
	}
	return ts.missSum / float64(ts.shots)
}

type runStats struct {
	runIndex int
	seed     int64

	report       gunner.DuelOutcomeReport
	firstHitTurn int
	firstExploit int
	firstReset   int
	tanks        []tankStats
}

func main() {
	var runs int
	var turns int
	var seedBase int64
	var seedStep int64
	var scenario string
	var config string
	var leftOverride string
	var rightOverride string
	var verbose bool
	var logLevel string

	flag.IntVar(&runs, "runs", 5, "number of headless duel runs")
	flag.IntVar(&turns, "turns", 120, "turn limit per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "flat-duel", "built-in scenario name")
	flag.StringVar(&config, "config", "", "YAML scenario file (overrides -scenario)")
	flag.StringVar(&leftOverride, "left", "", "override left tank difficulty (easy|medium|hard)")
	flag.StringVar(&rightOverride, "right", "", "override right tank difficulty (easy|medium|hard)")
	flag.BoolVar(&verbose, "verbose", false, "record per-turn aim detail in the duel log")
	flag.StringVar(&logLevel, "log-level", "warn", "engine log level (debug|info|warn|error)")
	flag.Parse()

	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		fmt.Printf("error: bad -log-level %q\n", logLevel)
		return
	}
	log.SetLevel(lvl)
	log.SetReportTimestamp(false)

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if turns <= 0 {
		fmt.Println("error: -turns must be > 0")
		return
	}

	var sc duelScenario
	if config != "" {
		sc, err = loadScenarioFile(config)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	} else {
		var ok bool
		sc, ok = builtinScenarios[scenario]
		if !ok {
			fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, scenarioNames())
			return
		}
	}
	if leftOverride != "" {
		d, err := gunner.ParseDifficulty(leftOverride)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		sc.leftDiff = d
	}
	if rightOverride != "" {
		d, err := gunner.ParseDifficulty(rightOverride)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		sc.rightDiff = d
	}

	fmt.Printf("=== Headless Duel Report ===\n")
	fmt.Printf("scenario=%s runs=%d turns=%d seed_base=%d seed_step=%d left=%s right=%s\n\n",
		sc.name, runs, turns, seedBase, seedStep, sc.leftDiff, sc.rightDiff)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runDuel(i+1, seed, turns, sc, verbose)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

func scenarioNames() string {
	names := make([]string, 0, len(builtinScenarios))
	for n := range builtinScenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func runDuel(runIndex int, seed int64, turns int, sc duelScenario, verbose bool) runStats {
	opts := []gunner.DuelOption{
		gunner.WithArena(sc.arenaW, sc.arenaH),
		gunner.WithSeed(seed),
		gunner.WithGravity(sc.gravity),
		gunner.WithWind(sc.wind),
		gunner.WithAirResistance(sc.airResistance),
		gunner.WithVerbose(verbose),
		gunner.WithTank(sc.leftX, sc.leftDiff),
		gunner.WithTank(sc.rightX, sc.rightDiff),
	}
	if sc.rolling {
		opts = append(opts, gunner.WithRollingGround())
	} else {
		opts = append(opts, gunner.WithFlatGround(sc.groundY))
	}

	d := gunner.NewDuelSim(opts...)
	d.RunUntilDestroyed(turns)

	entries := d.Log.Entries()
	rs := runStats{
		runIndex:     runIndex,
		seed:         seed,
		report:       d.Outcome(),
		firstHitTurn: firstTurn(entries, "shot", "hit"),
		firstExploit: firstTurn(entries, "aim", "exploit"),
		firstReset:   firstTurn(entries, "aim", "reset"),
	}
	for _, t := range d.Tanks {
		ts := tankStats{label: t.Label, difficulty: t.Difficulty}
		for _, e := range d.Log.FilterTank(t.Label) {
			switch e.Category + "/" + e.Key {
			case "shot/impact":
				ts.shots++
				ts.missSum += e.NumVal
			case "shot/hit":
				ts.hits++
			case "shot/invalid":
				ts.invalid++
			case "aim/exploit":
				ts.exploits++
			case "aim/correct":
				ts.corrections++
			case "aim/reset":
				ts.resets++
			case "aim/fallback":
				ts.fallbacks++
			}
		}
		rs.tanks = append(rs.tanks, ts)
	}
	return rs
}

func firstTurn(entries []gunner.DuelLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Turn
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("result: %s (%s) turns=%d left_hp=%d right_hp=%d\n",
		rs.report.Outcome, rs.report.Description, rs.report.Turns, rs.report.LeftHP, rs.report.RightHP)
	fmt.Printf("phase_markers: first_hit=%d first_exploit=%d first_reset=%d\n",
		rs.firstHitTurn, rs.firstExploit, rs.firstReset)
	for _, ts := range rs.tanks {
		fmt.Printf("  %s %-6s shots=%d hits=%d hit_rate=%.1f%% exploits=%d corrections=%d resets=%d fallbacks=%d invalid=%d avg_miss=%.1f\n",
			ts.label, ts.difficulty, ts.shots, ts.hits, ts.hitRate(),
			ts.exploits, ts.corrections, ts.resets, ts.fallbacks, ts.invalid, ts.avgMiss())
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	leftWins := 0
	rightWins := 0
	draws := 0
	ongoing := 0
	turnsSum := 0
	hitTurns := make([]int, 0, len(all))

	type labelAgg struct {
		difficulty  gunner.Difficulty
		shots       int
		hits        int
		exploits    int
		corrections int
		resets      int
		fallbacks   int
		missSum     float64
	}
	aggs := map[string]*labelAgg{}

	for _, rs := range all {
		switch rs.report.Outcome {
		case gunner.OutcomeLeftVictory:
			leftWins++
		case gunner.OutcomeRightVictory:
			rightWins++
		case gunner.OutcomeDraw:
			draws++
		default:
			ongoing++
		}
		turnsSum += rs.report.Turns
		if rs.firstHitTurn >= 0 {
			hitTurns = append(hitTurns, rs.firstHitTurn)
		}
		for _, ts := range rs.tanks {
			ag, ok := aggs[ts.label]
			if !ok {
				ag = &labelAgg{difficulty: ts.difficulty}
				aggs[ts.label] = ag
			}
			ag.shots += ts.shots
			ag.hits += ts.hits
			ag.exploits += ts.exploits
			ag.corrections += ts.corrections
			ag.resets += ts.resets
			ag.fallbacks += ts.fallbacks
			ag.missSum += ts.missSum
		}
	}

	fmt.Println("=== Aggregate Duel Report ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("outcomes: left=%d right=%d draw=%d ongoing=%d\n", leftWins, rightWins, draws, ongoing)
	fmt.Printf("avg_turns=%.1f avg_first_hit=%s\n", avg(turnsSum, len(all)), avgTurnString(hitTurns))

	labels := make([]string, 0, len(aggs))
	for l := range aggs {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		ag := aggs[l]
		hitRate := 0.0
		avgMiss := 0.0
		if ag.shots > 0 {
			hitRate = float64(ag.hits) / float64(ag.shots) * 100
			avgMiss = ag.missSum / float64(ag.shots)
		}
		fmt.Printf("  %s %-6s shots=%d hits=%d hit_rate=%.1f%% exploits=%d corrections=%d resets=%d fallbacks=%d avg_miss=%.1f\n",
			l, ag.difficulty, ag.shots, ag.hits, hitRate,
			ag.exploits, ag.corrections, ag.resets, ag.fallbacks, avgMiss)
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTurnString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
