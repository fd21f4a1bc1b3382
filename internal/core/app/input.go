// # internal/core/app/input.go
package app

import (
	"encoding/json"
	"os"

	"benchlens/internal/core/errors"
)

// BenchmarkEntry is one decoded row of the benchmark list: the parsed name
// plus the externally measured stability metric attached to it.
type BenchmarkEntry struct {
	Name      BenchmarkName
	Stability float64
}

// LoadBenchmarkList decodes an ordered list of [fullBenchmarkName, value]
// pairs. The whole list is validated up front: a row that is not a
// (string, number) pair, or whose name lacks the delimiter, fails the load
// with a validation error naming the offending index. A list that cannot be
// read at all is a configuration error.
func LoadBenchmarkList(path, delimiter string) ([]BenchmarkEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeConfiguration, "reading benchmark list")
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}

	rows, err := decodePairs(data, path)
	if err != nil {
		return nil, err
	}

	entries := make([]BenchmarkEntry, 0, len(rows))
	for i, row := range rows {
		name, err := ParseBenchmarkName(row.name, delimiter)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxIndex, i)
		}
		entries = append(entries, BenchmarkEntry{Name: name, Stability: row.value})
	}
	return entries, nil
}

// LoadCoverageList decodes the optional [fullBenchmarkName, coverage] pair
// list into a lookup map. Names are keys only, so they are not required to
// carry the delimiter; duplicate names keep the last value.
func LoadCoverageList(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeConfiguration, "reading coverage list")
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}

	rows, err := decodePairs(data, path)
	if err != nil {
		return nil, err
	}

	coverage := make(map[string]float64, len(rows))
	for _, row := range rows {
		coverage[row.name] = row.value
	}
	return coverage, nil
}

type namedValue struct {
	name  string
	value float64
}

func decodePairs(data []byte, path string) ([]namedValue, error) {
	var rawEntries []json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		wrapped := errors.Wrap(err, errors.CodeValidation, "input list is not a JSON array")
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}

	rows := make([]namedValue, 0, len(rawEntries))
	for i, rawEntry := range rawEntries {
		var pair []json.RawMessage
		if err := json.Unmarshal(rawEntry, &pair); err != nil || len(pair) != 2 {
			verr := errors.New(errors.CodeValidation, "entry is not a [name, value] pair")
			return nil, errors.AddContext(verr, errors.CtxIndex, i)
		}
		var name string
		if err := json.Unmarshal(pair[0], &name); err != nil {
			verr := errors.Wrap(err, errors.CodeValidation, "entry name is not a string")
			return nil, errors.AddContext(verr, errors.CtxIndex, i)
		}
		var value float64
		if err := json.Unmarshal(pair[1], &value); err != nil {
			verr := errors.Wrap(err, errors.CodeValidation, "entry value is not a number")
			return nil, errors.AddContext(verr, errors.CtxIndex, i)
		}
		rows = append(rows, namedValue{name: name, value: value})
	}
	return rows, nil
}
