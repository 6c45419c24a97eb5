//go:build ignore

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/blazra/regtree/internal/regdef"
)

// Statistics tracks validation results
type Statistics struct {
	TotalFiles  int
	Valid       int
	Invalid     int
	Registers   int
	Fields      int
	EnumFields  int
	ReadOnly    int
	FieldWidths map[uint8]int
	FailedFiles []FailedFile
}

// FailedFile stores information about a rejected definition file
type FailedFile struct {
	File     string
	Location string
	Error    string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate_defs <directory-or-file>")
		fmt.Println("Example: go run tools/validate_defs.go boards/")
		fmt.Println("         go run tools/validate_defs.go boards/stm32-gpio.yaml")
		os.Exit(1)
	}

	path := os.Args[1]

	stats := Statistics{
		FieldWidths: make(map[uint8]int),
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Error accessing path: %v\n", err)
		os.Exit(1)
	}

	var files []string
	if info.IsDir() {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				fmt.Printf("Error finding definition files: %v\n", err)
				os.Exit(1)
			}
			files = append(files, matches...)
		}
		if len(files) == 0 {
			fmt.Printf("No YAML files found in %s\n", path)
			os.Exit(1)
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	fmt.Printf("=== regtree Definition Validator ===\n")
	fmt.Printf("Files to process: %d\n\n", len(files))

	for _, file := range files {
		processFile(file, &stats)
	}

	printStatistics(&stats)
	if stats.Invalid > 0 {
		os.Exit(1)
	}
}

func processFile(filename string, stats *Statistics) {
	stats.TotalFiles++

	doc, err := regdef.Load(filename)
	if err == nil {
		// Geometry is checked again when the tree is built
		_, err = doc.BuildTree()
	}
	if err != nil {
		stats.Invalid++
		failed := FailedFile{File: filename, Error: err.Error()}
		var defErr *regdef.DefinitionError
		if errors.As(err, &defErr) {
			failed.Location = fmt.Sprintf("%s.%s.%s", defErr.Peripheral, defErr.Register, defErr.Field)
		}
		stats.FailedFiles = append(stats.FailedFiles, failed)
		return
	}

	stats.Valid++
	stats.ReadOnly += len(doc.ReadOnlyAddresses())
	for _, p := range doc.Peripherals {
		for _, r := range p.Registers {
			stats.Registers++
			for _, f := range r.Fields {
				stats.Fields++
				stats.FieldWidths[f.BitWidth]++
				if len(f.EnumValues) > 0 {
					stats.EnumFields++
				}
			}
		}
	}
	fmt.Printf("ok    %s (%s, %d registers)\n", filename, doc.Device, doc.NumRegisters())
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Files Processed:    %d\n", stats.TotalFiles)
	fmt.Printf("Valid:              %d\n", stats.Valid)
	fmt.Printf("Invalid:            %d\n", stats.Invalid)
	fmt.Printf("Registers:          %d (%d read-only)\n", stats.Registers, stats.ReadOnly)
	fmt.Printf("Fields:             %d (%d with enums)\n", stats.Fields, stats.EnumFields)

	if len(stats.FieldWidths) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("FIELD WIDTH DISTRIBUTION\n")
		fmt.Printf("----------------------------------------\n")
		widths := make([]int, 0, len(stats.FieldWidths))
		for w := range stats.FieldWidths {
			widths = append(widths, int(w))
		}
		sort.Ints(widths)
		for _, w := range widths {
			count := stats.FieldWidths[uint8(w)]
			percentage := float64(count) / float64(stats.Fields) * 100
			fmt.Printf("%2d bits: %d fields (%.2f%%)\n", w, count, percentage)
		}
	}

	if len(stats.FailedFiles) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("REJECTED FILES (%d total)\n", len(stats.FailedFiles))
		fmt.Printf("----------------------------------------\n")
		for i, failed := range stats.FailedFiles {
			fmt.Printf("\nFailure #%d:\n", i+1)
			fmt.Printf("  File: %s\n", failed.File)
			if failed.Location != "" {
				fmt.Printf("  At: %s\n", failed.Location)
			}
			fmt.Printf("  Error: %s\n", failed.Error)
		}
	}

	fmt.Printf("\n========================================\n")
	if stats.Invalid == 0 {
		fmt.Printf("✅ SUCCESS: All definition files are valid\n")
	} else {
		fmt.Printf("⚠️  ISSUES FOUND: %d files rejected\n", stats.Invalid)
	}
	fmt.Printf("========================================\n")
}
