// Command validate checks a cleaned weather table against the raw dataset it
// was produced from. It re-runs the cleaner on the raw input and verifies the
// header, the row count, every field and the row invariants of the cleaned file.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -raw data/mock/weather_sample.csv \
//	  -cleaned cleaned_data.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/couchcryptid/weather-analysis/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// maxErrorsPerPhase caps the detail printed for a failing phase.
const maxErrorsPerPhase = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawPath := flag.String("raw", "data/weatherIndia.csv", "path to the raw dataset")
	cleanedPath := flag.String("cleaned", "cleaned_data.csv", "path to the cleaned table")
	flag.Parse()

	if *rawPath == "" || *cleanedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawPath, *cleanedPath); code != 0 {
		os.Exit(code)
	}
}

func run(rawPath, cleanedPath string) int {
	fmt.Println("=== Weather Data Integrity Validation ===")
	fmt.Println()

	raw, err := loadTable(rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw dataset: %v\n", err)
		return 1
	}
	cleaned, err := loadTable(cleanedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cleaned table: %v\n", err)
		return 1
	}
	expected, err := domain.Clean(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: clean raw dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHeader(cleaned),
		validateRowParity(cleaned, raw, expected),
		validateFields(cleaned, expected),
		validateInvariants(cleaned),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d raw, %d expected after cleaning, %d in cleaned table\n",
		len(raw.Rows), len(expected), len(cleaned.Rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrorsPerPhase {
				fmt.Printf("  ... %d more\n", len(p.errors)-maxErrorsPerPhase)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadTable(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, err
	}
	defer f.Close()
	return csvfile.ReadTable(f)
}

// ── Phases ──

func validateHeader(cleaned domain.RawTable) *phase {
	p := &phase{name: "Phase 1: Cleaned header"}
	if !slices.Equal(cleaned.Header, domain.CleanedColumns) {
		p.errorf("header %v, want %v", cleaned.Header, domain.CleanedColumns)
	}
	return p
}

func validateRowParity(cleaned, raw domain.RawTable, expected []domain.Observation) *phase {
	p := &phase{name: "Phase 2: Row parity with raw input"}
	if len(cleaned.Rows) != len(expected) {
		p.errorf("cleaned table has %d rows, cleaning the raw input gives %d", len(cleaned.Rows), len(expected))
	}
	if len(cleaned.Rows) > len(raw.Rows) {
		p.errorf("cleaned table has more rows (%d) than the raw input (%d)", len(cleaned.Rows), len(raw.Rows))
	}
	return p
}

func validateFields(cleaned domain.RawTable, expected []domain.Observation) *phase {
	p := &phase{name: "Phase 3: Field-level comparison"}
	n := min(len(cleaned.Rows), len(expected))
	for i := range n {
		want := csvfile.EncodeObservation(expected[i])
		got := cleaned.Rows[i]
		if len(got) != len(want) {
			p.errorf("line %d: %d fields, want %d", i+2, len(got), len(want))
			continue
		}
		for j := range want {
			if got[j] != want[j] {
				p.errorf("line %d: %s = %q, want %q", i+2, domain.CleanedColumns[j], got[j], want[j])
			}
		}
	}
	return p
}

func validateInvariants(cleaned domain.RawTable) *phase {
	p := &phase{name: "Phase 4: Row invariants"}
	col := make(map[string]int, len(cleaned.Header))
	for i, h := range cleaned.Header {
		col[h] = i
	}
	for _, name := range domain.CleanedColumns {
		if _, ok := col[name]; !ok {
			p.errorf("column %q missing", name)
			return p
		}
	}

	for i, row := range cleaned.Rows {
		checkRow(p.errorf, i+2, func(name string) string {
			if idx := col[name]; idx < len(row) {
				return row[idx]
			}
			return ""
		})
	}
	return p
}

func checkRow(pf func(string, ...any), line int, field func(string) string) {
	for _, name := range []string{"Temp", "Humidity"} {
		if domain.IsMissing(field(name)) {
			pf("line %d: %s is missing", line, name)
		} else if _, err := strconv.ParseFloat(field(name), 64); err != nil {
			pf("line %d: %s %q is not a number", line, name, field(name))
		}
	}

	if rain := field("Rain"); rain != "0" && rain != "1" {
		pf("line %d: Rain %q is not 0 or 1", line, rain)
	}

	ts, err := domain.ParseTimestamp(field("Formatted Date"))
	if err != nil {
		pf("line %d: %v", line, err)
		return
	}
	if got, want := field("Date"), ts.Format(domain.DateLayout); got != want {
		pf("line %d: Date %s does not match timestamp date %s", line, got, want)
	}
	month, err := strconv.Atoi(field("Month"))
	if err != nil || month < 1 || month > 12 {
		pf("line %d: Month %q out of range", line, field("Month"))
	} else if month != int(ts.Month()) {
		pf("line %d: Month %d does not match timestamp month %d", line, month, int(ts.Month()))
	}
	if year, err := strconv.Atoi(field("Year")); err != nil || year != ts.Year() {
		pf("line %d: Year %q does not match timestamp year %d", line, field("Year"), ts.Year())
	}
}
