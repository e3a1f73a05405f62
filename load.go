package solarkit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrBadHeader is returned when a body table is missing a required column.
var ErrBadHeader = errors.New("solarkit: missing column in body table")

// Column names vary between published body tables; semantics do not.
var headerAliases = map[string]string{
	"body":   "name",
	"colour": "c",
	"color":  "c",
}

// LoadSystem reads one body per CSV row into a new System. Expected
// columns are name (or Body), m, a, ecc, beta, R, trot, P and c (or
// colour). Rows go through System.Add, so central bodies with a <= 0 are
// filtered out here as everywhere else.
func LoadSystem(name, path string) (*System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sys, err := ReadSystem(name, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sys, nil
}

// ReadSystem parses CSV body rows from r. Split from LoadSystem so tables
// from sources other than files can be read.
func ReadSystem(name string, r io.Reader) (*System, error) {
	records := csv.NewReader(r)
	records.TrimLeadingSpace = true
	header, err := records.Read()
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.ToLower(col))
		if canonical, aliased := headerAliases[col]; aliased {
			col = canonical
		}
		cols[col] = i
	}
	for _, required := range []string{"name", "m", "a", "ecc", "beta", "r", "trot", "p", "c"} {
		if _, found := cols[required]; !found {
			return nil, fmt.Errorf("%w (%q)", ErrBadHeader, required)
		}
	}

	sys := NewSystem(name)
	for line := 2; ; line++ {
		record, err := records.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		body := CelestialBody{
			Name:  strings.TrimSpace(record[cols["name"]]),
			Color: strings.TrimSpace(record[cols["c"]]),
		}
		for col, dst := range map[string]*float64{
			"m": &body.M, "a": &body.A, "ecc": &body.Ecc, "beta": &body.Beta,
			"r": &body.R, "trot": &body.Trot, "p": &body.P,
		} {
			val, err := strconv.ParseFloat(strings.TrimSpace(record[cols[col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, col, err)
			}
			*dst = val
		}
		sys.Add(body)
	}
	return sys, nil
}
