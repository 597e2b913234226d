// Command libgf learns a weighted graph from a CSV of vertex signals.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/mamengcode/libGF"
)

func main() {
	// Parse command-line flags
	inputFile := flag.String("input", "", "Input CSV file of signals, one row per vertex (required)")
	outputFile := flag.String("output", "graph.csv", "Output CSV file for the adjacency matrix")
	alpha := flag.Float64("alpha", 1.0, "Smoothness weight")
	beta := flag.Float64("beta", 0.01, "Frobenius shrinkage weight")
	iterations := flag.Int("iterations", 50, "Maximum number of iterations")
	tolerance := flag.Float64("tolerance", 1e-4, "Convergence tolerance")
	trace := flag.Float64("trace", 0, "Trace normalization (0 = number of vertices)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -input flag is required")
		flag.Usage()
		os.Exit(1)
	}

	// Load signals
	signals, err := loadCSV(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading signals: %v\n", err)
		os.Exit(1)
	}

	n, k := signals.Dims()
	if *verbose {
		fmt.Printf("Loaded %d vertices with %d observations\n", n, k)
	}

	// Configure the learner
	config := libgf.DefaultConfig()
	config.Alpha = *alpha
	config.Beta = *beta
	config.MaxIterations = *iterations
	config.Tolerance = *tolerance
	config.TraceNorm = *trace
	config.Verbose = *verbose

	// Learn the graph
	learner := libgf.NewSmoothLearner(config)
	g, err := learner.Generate(signals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error learning graph: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		if learner.Converged() {
			fmt.Printf("Converged after %d iterations\n", len(learner.History()))
		} else {
			fmt.Printf("Stopped after %d iterations without converging\n", len(learner.History()))
		}
		fmt.Printf("Learned %d edges over %d vertices\n", g.NumEdges(), g.NumVertices())
		if fiedler, err := g.FiedlerValue(); err == nil {
			fmt.Printf("Algebraic connectivity: %.6f\n", fiedler)
		}
	}

	// Save output
	if err := saveCSV(*outputFile, g.Adjacency()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving output: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Saved adjacency matrix to %s\n", *outputFile)
	}
}

// loadCSV loads a signal matrix from a CSV file (no header, numeric values
// only). Rows are vertices, columns are observations.
func loadCSV(filename string) (*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	rows := len(records)
	cols := len(records[0])
	data := mat.NewDense(rows, cols, nil)
	for i, record := range records {
		if len(record) != cols {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i, cols, len(record))
		}
		for j, val := range record {
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, col %d: %v", i, j, err)
			}
			data.Set(i, j, f)
		}
	}

	return data, nil
}

// saveCSV saves an adjacency matrix to a CSV file.
func saveCSV(filename string, adj *mat.SymDense) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	n := adj.SymmetricDim()
	for i := 0; i < n; i++ {
		record := make([]string, n)
		for j := 0; j < n; j++ {
			record[j] = strconv.FormatFloat(adj.At(i, j), 'f', 6, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
