package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/rostering/pkg/model"
	"github.com/limaJavier/rostering/pkg/roster"
	"github.com/limaJavier/rostering/pkg/sat"
	"github.com/samber/lo"
)

const (
	profilesDirectory         = "../../profiles/"
	solverConfigPath          = "../../config.json"
	resultsFile               = "benchmark_results.csv"
	measureCommand            = "measure"
	gracePeriod               = 10 * time.Second
	MB                float64 = 1024 * 1024
)

type ResultType int

const (
	solved ResultType = iota
	optimal
	unsatisfiable
	timeout
)

var (
	resultTypes = map[ResultType]string{
		solved:        "solved",
		optimal:       "optimal",
		unsatisfiable: "unsatisfiable",
		timeout:       "timeout",
	}
	solvers = map[string]func() sat.Solver{
		"gophersat":   sat.NewGophersatSolver,
		"roundingsat": func() sat.Solver { return sat.NewExternalSolver("roundingsat", "--print-sol=1") },
	}
	budgets = []time.Duration{5 * time.Second, 30 * time.Second}
)

type ProfileMetadata struct {
	Name       string
	File       string
	Employees  int
	Days       int
	Categories int
	Profile    string
	Objective  string
}

type BenchmarkResult struct {
	Solver      string
	Budget      time.Duration
	Profile     ProfileMetadata
	Variables   int
	Constraints int
	Duration    int64
	Memory      float64
	Conflicts   int64
	Branches    int64
	Solutions   int
	Exhaustive  bool
	Result      ResultType
}

func main() {
	sat.ConfigPath = solverConfigPath

	if len(os.Args) > 1 && os.Args[1] == measureCommand {
		if err := runMeasurement(os.Args[2:], os.Stdout); err != nil {
			log.Fatalf("measurement failed: %v", err)
		}
		return
	}

	executable, err := os.Executable()
	if err != nil {
		log.Fatalf("cannot locate the benchmark executable: %v", err)
	}

	profiles, err := getProfiles(profilesDirectory)
	if err != nil {
		log.Fatalf("cannot read profiles: %v", err)
	}
	results := make([]BenchmarkResult, 0, len(profiles)*len(solvers)*len(budgets))

	for _, profile := range profiles {
		for _, solver := range getSolvers() {
			for _, budget := range budgets {
				fmt.Printf("Benchmarking profile \"%v\" with solver \"%v\" and budget \"%v\"\n", profile.Name, solver, budget)

				result, err := measureInChild(context.Background(), executable, solver, budget, profile)
				if err != nil {
					log.Printf("skipping profile \"%v\" on solver \"%v\": %v", profile.Name, solver, err)
					continue
				}
				results = append(results, result)
			}
		}
	}

	file, err := os.Create(resultsFile)
	if err != nil {
		log.Fatalf("cannot create CSV file: %v", err)
	}
	defer file.Close()
	if err := toCsv(file, results); err != nil {
		log.Fatalf("cannot write CSV file: %v", err)
	}
}

func getSolvers() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return names
}

func getProfiles(directory string) ([]ProfileMetadata, error) {
	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	profiles := make([]ProfileMetadata, 0, len(files))
	for _, file := range files {
		extension := strings.ToLower(filepath.Ext(file.Name()))
		if file.IsDir() || !slices.Contains([]string{".json", ".yaml", ".yml"}, extension) {
			continue
		}

		profile, err := getProfile(filepath.Join(directory, file.Name()))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func getProfile(filename string) (ProfileMetadata, error) {
	config, err := model.ConfigurationFromFile(filename)
	if err != nil {
		return ProfileMetadata{}, fmt.Errorf("cannot parse profile \"%v\": %w", filename, err)
	}

	base := filepath.Base(filename)
	return ProfileMetadata{
		Name:       lo.Ternary(config.Name != "", config.Name, strings.TrimSuffix(base, filepath.Ext(base))),
		File:       filename,
		Employees:  len(config.Employees),
		Days:       config.Horizon,
		Categories: len(config.Categories),
		Profile:    lo.Ternary(len(config.Profile.Families) > 0, strings.Join(config.Profile.Families, "+"), config.Profile.Name),
		Objective:  config.Profile.Objective,
	}, nil
}

// measureInChild runs one measurement in a fresh process, so that a search the engine cannot interrupt dies with it
// instead of skewing the following measurements
func measureInChild(ctx context.Context, executable, solverName string, budget time.Duration, profile ProfileMetadata) (BenchmarkResult, error) {
	ctx, cancel := context.WithTimeout(ctx, budget+gracePeriod)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, measureCommand, solverName, budget.String(), profile.File)
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	start := time.Now()
	err := cmd.Run()
	if ctx.Err() != nil {
		// The child outlived its budget and was killed
		return BenchmarkResult{
			Solver:   solverName,
			Budget:   budget,
			Profile:  profile,
			Duration: time.Since(start).Milliseconds(),
			Result:   timeout,
		}, nil
	}
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("measurement process failed: %w: %v", err, stdErr.String())
	}
	return parseMeasurement(stdOut.Bytes())
}

// runMeasurement is the child side of measureInChild: args are the solver, the budget and the profile file
func runMeasurement(args []string, out io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("expected <solver> <budget> <profile>, got %d arguments", len(args))
	}
	if _, ok := solvers[args[0]]; !ok {
		return fmt.Errorf("unknown solver \"%v\"", args[0])
	}
	budget, err := time.ParseDuration(args[1])
	if err != nil {
		return fmt.Errorf("invalid budget: %w", err)
	}
	profile, err := getProfile(args[2])
	if err != nil {
		return err
	}

	result, err := measure(context.Background(), args[0], budget, profile)
	if err != nil {
		return err
	}
	return json.NewEncoder(out).Encode(result)
}

func parseMeasurement(output []byte) (BenchmarkResult, error) {
	var result BenchmarkResult
	if err := json.Unmarshal(bytes.TrimSpace(output), &result); err != nil {
		return BenchmarkResult{}, fmt.Errorf("cannot parse measurement: %w", err)
	}
	if result.Solver == "" {
		return BenchmarkResult{}, errors.New("measurement is empty")
	}
	return result, nil
}

// measure runs a profile in the current process without materializing any solution
func measure(ctx context.Context, solverName string, budget time.Duration, profile ProfileMetadata) (BenchmarkResult, error) {
	config, err := model.ConfigurationFromFile(profile.File)
	if err != nil {
		return BenchmarkResult{}, err
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	result, err := roster.NewRosterer(solvers[solverName](), nil).Run(ctx, config, roster.Options{
		Keep:   roster.FirstK(0),
		Budget: budget,
	})
	if err != nil {
		return BenchmarkResult{}, err
	}
	duration := time.Since(start)
	runtime.ReadMemStats(&after)

	return BenchmarkResult{
		Solver:      solverName,
		Budget:      budget,
		Profile:     profile,
		Variables:   result.Roster.Model.Variables(),
		Constraints: len(result.Roster.Model.Constraints()),
		Duration:    duration.Milliseconds(),
		Memory:      float64(after.TotalAlloc-before.TotalAlloc) / MB,
		Conflicts:   result.Statistics.Conflicts,
		Branches:    result.Statistics.Branches,
		Solutions:   result.Statistics.SolutionsVisited,
		Exhaustive:  result.Exhaustive(),
		Result:      resultOf(result.Statistics),
	}, nil
}

func resultOf(stats sat.Statistics) ResultType {
	switch stats.Status {
	case sat.Infeasible:
		return unsatisfiable
	case sat.Optimal:
		return optimal
	case sat.Unknown:
		return timeout
	default:
		return solved
	}
}

func toCsv(out io.Writer, results []BenchmarkResult) error {
	writer := csv.NewWriter(out)

	header := []string{"Solver", "Budget(s)", "Profile", "Constraint Profile", "Objective", "Employees", "Days", "Categories", "Variables", "Constraints", "Duration(ms)", "Allocated(MB)", "Conflicts", "Branches", "Solutions", "Exhaustive", "Result"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Solver,
			fmt.Sprintf("%.0f", result.Budget.Seconds()),
			result.Profile.Name,
			result.Profile.Profile,
			result.Profile.Objective,
			fmt.Sprintf("%d", result.Profile.Employees),
			fmt.Sprintf("%d", result.Profile.Days),
			fmt.Sprintf("%d", result.Profile.Categories),
			fmt.Sprintf("%d", result.Variables),
			fmt.Sprintf("%d", result.Constraints),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.Conflicts),
			fmt.Sprintf("%d", result.Branches),
			fmt.Sprintf("%d", result.Solutions),
			fmt.Sprintf("%v", result.Exhaustive),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
