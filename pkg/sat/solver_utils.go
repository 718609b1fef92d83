package sat

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// ConfigPath points to the JSON file mapping "<solver>Path" keys to solver executables
var ConfigPath = "config.json"

type solverOutput struct {
	status Status
	values map[Var]bool
}

// parseSolution reads the standard "s"/"v" lines printed by pseudo-boolean solvers
func parseSolution(output string) (solverOutput, error) {
	result := solverOutput{status: Unknown, values: make(map[Var]bool)}

	lines := lo.Filter(strings.Split(output, "\n"), func(line string, _ int) bool {
		return len(line) > 1 && (line[0] == 's' || line[0] == 'v') && line[1] == ' '
	})

	for _, line := range lines {
		content := strings.TrimSpace(line[2:])
		if line[0] == 's' {
			switch content {
			case "OPTIMUM FOUND":
				result.status = Optimal
			case "SATISFIABLE":
				result.status = Feasible
			case "UNSATISFIABLE":
				result.status = Infeasible
			}
			continue
		}

		for _, literal := range strings.Fields(content) {
			negative := strings.HasPrefix(literal, "-")
			index, err := strconv.Atoi(strings.TrimPrefix(strings.TrimPrefix(literal, "-"), "x"))
			if err != nil {
				return solverOutput{}, fmt.Errorf("invalid literal \"%v\" in solver output: %w", literal, err)
			}
			result.values[Var(index)] = !negative
		}
	}
	return result, nil
}

func (output solverOutput) assignment(variables int) Assignment {
	assignment := make(Assignment, variables)
	for variable, value := range output.values {
		if variable >= 1 && int(variable) <= variables {
			assignment[variable-1] = value
		}
	}
	return assignment
}

func getExecutablePath(solver string) (string, error) {
	bytes, err := os.ReadFile(ConfigPath)
	if err != nil {
		return "", fmt.Errorf("cannot read solver config \"%v\": %w", ConfigPath, err)
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return "", fmt.Errorf("cannot parse solver config \"%v\": %w", ConfigPath, err)
	}

	var config map[string]string
	if err := mapstructure.Decode(inputJson, &config); err != nil {
		return "", fmt.Errorf("cannot decode solver config \"%v\": %w", ConfigPath, err)
	}

	path, ok := config[solver]
	if !ok {
		return "", fmt.Errorf("solver \"%v\" is not present in config", solver)
	}
	return path, nil
}
