//
// main.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// The ldpcgen command builds LDPC codes, precomputes the Ep cache of
// the online strategy, and benchmarks the transpose encoder.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/markkurossi/silent/catalog"
	"github.com/markkurossi/silent/env"
	"github.com/markkurossi/silent/gf2"
	"github.com/markkurossi/silent/ldpc"
	"github.com/markkurossi/silent/lpn"
	"github.com/markkurossi/tabulate"
	"github.com/markkurossi/text/superscript"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	fFamily := flag.String("family", "silver5",
		"code family: silver5, silver11, or all")
	fMin := flag.Int("min", ldpc.OnlineMinExponent, "smallest size exponent")
	fMax := flag.Int("max", ldpc.OnlineMinExponent+2, "largest size exponent")
	fOut := flag.String("o", "", "write Ep cache to file")
	fIn := flag.String("i", "", "read Ep cache from file")
	fLambda := flag.Int("lambda", lpn.DefaultSecurity, "security level in bits")
	fVerbose := flag.Bool("v", false, "verbose output")
	fDiag := flag.Bool("d", false, "print construction timing")
	fWorkers := flag.Int("p", 0, "number of parallel workers")
	fParallel := flag.Bool("parallel", false, "parallel encoder operators")
	fBench := flag.Int("bench", 0, "benchmark encoding of 128-bit blocks")
	fMetrics := flag.Bool("metrics", false, "print build metrics")
	flag.Parse()

	log.SetFlags(0)

	if *fMin > *fMax {
		log.Fatalf("invalid size range [%d,%d]", *fMin, *fMax)
	}

	cat := catalog.New()
	families, err := parseFamilies(cat, *fFamily)
	if err != nil {
		log.Fatal(err)
	}

	config := &env.Config{
		Verbose:     *fVerbose,
		Diagnostics: *fDiag,
		Parallel:    *fParallel,
		Workers:     *fWorkers,
		Log:         os.Stderr,
	}

	reg := prometheus.NewRegistry()
	if *fMetrics {
		if err := ldpc.RegisterMetrics(reg); err != nil {
			log.Fatal(err)
		}
	}

	var cache *ldpc.MemoryCache
	if len(*fIn) > 0 {
		cache, err = catalog.LoadCache(*fIn, *fMin, *fMax)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		cache = ldpc.NewMemoryCache(*fMin, *fMax)
	}

	strategy := ldpc.StrategyFull
	if len(*fIn) > 0 {
		strategy = ldpc.StrategyOnline
	}
	builder := ldpc.NewBuilder(cat, lpn.NewSearch(*fLambda), cache, config)

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Family").SetAlign(tabulate.ML)
	tab.Header("Size").SetAlign(tabulate.MR)
	tab.Header("k").SetAlign(tabulate.MR)
	tab.Header("g").SetAlign(tabulate.MR)
	tab.Header("n").SetAlign(tabulate.MR)
	tab.Header("t").SetAlign(tabulate.MR)
	tab.Header("Tries").SetAlign(tabulate.MR)
	tab.Header("Strategy").SetAlign(tabulate.ML)
	tab.Header("Build").SetAlign(tabulate.MR)
	if *fBench > 0 {
		tab.Header("Encode").SetAlign(tabulate.MR)
	}

	for _, family := range families {
		for exponent := *fMin; exponent <= *fMax; exponent++ {
			start := time.Now()
			enc, err := builder.BuildStrategy(family, exponent, strategy)
			if err != nil {
				log.Fatalf("%s 2%s: %s", family, superscript.Itoa(exponent),
					err)
			}
			elapsed := time.Since(start)

			report := enc.Report()
			if report.Strategy == ldpc.StrategyFull {
				err = cache.Put(ldpc.NewCacheEntry(family, exponent, enc))
				if err != nil {
					log.Fatal(err)
				}
			}

			row := tab.Row()
			row.Column(family.String())
			row.Column("2" + superscript.Itoa(exponent))
			row.Column(fmt.Sprintf("%d", enc.K()))
			row.Column(fmt.Sprintf("%d", enc.Gap()))
			row.Column(fmt.Sprintf("%d", enc.N()))
			row.Column(fmt.Sprintf("%d", enc.T()))
			row.Column(fmt.Sprintf("%d", report.Attempts))
			s := report.Strategy.String()
			if report.Fallback {
				s += "*"
			}
			row.Column(s)
			row.Column(elapsed.String())

			if *fBench > 0 {
				d, err := benchmark(enc, *fBench, config.GetRandom())
				if err != nil {
					log.Fatal(err)
				}
				row.Column(d.String())
			}

			if report.Timing != nil {
				fmt.Printf("%s 2%s:\n", family, superscript.Itoa(exponent))
				report.Timing.Print(os.Stdout)
			}
		}
	}
	tab.Print(os.Stdout)

	if *fMetrics {
		if err := printMetrics(reg); err != nil {
			log.Fatal(err)
		}
	}

	if len(*fOut) > 0 {
		if err := catalog.SaveCache(*fOut, cache); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote %d entries to %s\n", cache.Len(), *fOut)
	}
}

func parseFamilies(cat *catalog.Catalog, arg string) ([]ldpc.Family, error) {
	if arg == "all" {
		return cat.Families(), nil
	}
	var result []ldpc.Family
	for _, name := range strings.Split(arg, ",") {
		family, err := ldpc.ParseFamily(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		result = append(result, family)
	}
	return result, nil
}

// benchmark returns the average time of count encodings of random
// 128-bit blocks.
func benchmark(enc *ldpc.Encoder, count int, rand io.Reader) (
	time.Duration, error) {

	input := make([]gf2.Block, enc.N())
	for i := range input {
		b, err := gf2.NewBlock(rand)
		if err != nil {
			return 0, err
		}
		input[i] = b
	}

	start := time.Now()
	for i := 0; i < count; i++ {
		_, err := enc.EncodeBlocks(input)
		if err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(count), nil
}

func printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Metric").SetAlign(tabulate.ML)
	tab.Header("Labels").SetAlign(tabulate.ML)
	tab.Header("Value").SetAlign(tabulate.MR)

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels,
					fmt.Sprintf("%s=%s", lp.GetName(), lp.GetValue()))
			}
			row := tab.Row()
			row.Column(mf.GetName())
			row.Column(strings.Join(labels, ","))
			row.Column(fmt.Sprintf("%v", m.GetCounter().GetValue()))
		}
	}
	tab.Print(os.Stdout)
	return nil
}
