package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/actorgraph/actorgraph/internal/util"
	"github.com/actorgraph/actorgraph/pkg/catalog"
	"github.com/actorgraph/actorgraph/pkg/classify"
	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/graph"
	eventcsv "github.com/actorgraph/actorgraph/pkg/loader/csv"
	"github.com/actorgraph/actorgraph/pkg/logger"
	"github.com/actorgraph/actorgraph/pkg/logger/console"
)

// One-shot pipeline run: load the reference catalog, parse an event CSV,
// build and merge the graphs and print the unified graph view as JSON on
// stdout.
func main() {
	util.LoadEnv()

	catalogPath := flag.String("catalog", "", "path to the reference catalog JSON")
	eventsPath := flag.String("events", "", "path to the event CSV file")
	doClassify := flag.Bool("classify", false, "classify unresolved nodes via the external lookup")
	endpoint := flag.String("endpoint", "", "SPARQL endpoint override for classification")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger.Init(console.New(console.Params{Debug: *debug}))

	if *eventsPath == "" {
		logger.Fatal("The -events flag is required")
	}

	var index *catalog.Index
	reference := common.NewGraph()
	if *catalogPath != "" {
		idx, err := catalog.LoadFile(*catalogPath)
		if err != nil {
			logger.Fatal("Failed to load reference catalog", "path", *catalogPath, "err", err)
		}
		index = idx
		reference = idx.Graph()
	}

	file, err := os.Open(*eventsPath)
	if err != nil {
		logger.Fatal("Failed to open event file", "path", *eventsPath, "err", err)
	}
	records, err := eventcsv.ParseEvents(file)
	file.Close()
	if err != nil {
		logger.Fatal("Failed to parse event file", "path", *eventsPath, "err", err)
	}

	var finalize func(*common.Graph) error
	if *doClassify {
		var ref classify.Reference
		if index != nil {
			ref = index
		}
		resolver := classify.NewResolver(classify.NewResolverParams{
			Reference: ref,
			Lookup: classify.NewWikidataLookup(classify.NewWikidataLookupParams{
				Endpoint: *endpoint,
			}),
			MinInterval: util.GetEnvDuration("CLASSIFY_MIN_INTERVAL", 150*time.Millisecond),
		})
		finalize = func(g *common.Graph) error {
			return resolver.ClassifyAll(context.Background(), g)
		}
	}

	client := graph.NewClient(graph.NewClientParams{})
	unified, _, err := client.Ingest(reference, records, finalize)
	if err != nil {
		logger.Error("Failed to classify graph nodes", "err", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(unified.View()); err != nil {
		logger.Fatal("Failed to encode graph", "err", err)
	}
}
