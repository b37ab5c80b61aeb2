package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

/*generates application-style log files for analyzer runs*/

var (
	TotalLines = flag.Int64("lines", 1e5, "Number of log lines to generate")
	OutputPath = flag.String("output", "var/app.log", "Output log file path")
	ErrorRate  = flag.Float64("error-rate", 0.05, "Fraction of lines at ERROR level")
	WarnRate   = flag.Float64("warn-rate", 0.15, "Fraction of lines at WARNING level")
	ErrorPool  = flag.Int("error-pool", 20, "Number of distinct error messages")
)

var components = []string{
	"auth",
	"billing",
	"scheduler",
	"http",
	"worker",
	"cache",
	"db",
}

func buildErrorPool(n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = gofakeit.HackerPhrase()
	}
	return pool
}

func level() string {
	switch r := rand.Float64(); {
	case r < *ErrorRate:
		return "ERROR"
	case r < *ErrorRate+*WarnRate:
		return "WARNING"
	default:
		return "INFO"
	}
}

func main() {
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*OutputPath), 0755); err != nil {
		panic(err)
	}
	file, err := os.Create(*OutputPath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	defer w.Flush()

	errorPool := buildErrorPool(*ErrorPool)
	ts := time.Now().Add(-24 * time.Hour)

	for i := int64(0); i < *TotalLines; i++ {
		// advance 0-3ms per line so many lines share a second
		ts = ts.Add(time.Duration(rand.IntN(4)) * time.Millisecond)

		lvl := level()
		component := components[rand.IntN(len(components))]

		var msg string
		if lvl == "ERROR" {
			msg = errorPool[rand.IntN(len(errorPool))]
		} else {
			msg = gofakeit.Sentence(gofakeit.IntRange(4, 10))
		}

		fmt.Fprintf(w, "%s %s %s: %s\n",
			ts.Format("2006-01-02 15:04:05,000"), lvl, component, msg)
	}

	fmt.Printf("✅ Wrote %d lines to %s\n", *TotalLines, *OutputPath)
}
