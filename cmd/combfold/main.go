package main

/*
combfold assembles a large protein complex out of per-pair rigid-body
transform predictions: given a chain.list describing the complex's
subunit types and copy counts, and a pool of candidate pairwise
placements, it searches the combinatorial space of ways to compose
those placements into sterically valid, well-scoring whole-complex
configurations and emits the top few, clustered by RMSD.
*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/laastos/combfold/assemblyerr"
	"github.com/laastos/combfold/cluster"
	"github.com/laastos/combfold/fold"
	"github.com/laastos/combfold/internal/config"
	"github.com/laastos/combfold/internal/searchlog"
	"github.com/laastos/combfold/pairtransform"
	"github.com/laastos/combfold/restraint"
	"github.com/laastos/combfold/slots"
	"github.com/laastos/combfold/superbb"
)

var (
	penetrationThr                    = flag.Float64("penetrationThr", -1.0, "Maximum allowed backbone penetration depth (Angstrom); negative means clash-free required")
	restraintsRatio                   = flag.Float64("restraintsRatio", 0.10, "Maximum violated-restraint weight ratio tolerated per candidate")
	clusterRMSD                       = flag.Float64("clusterRMSD", 5.0, "Whole-complex RMSD threshold (Angstrom) below which two final assemblies are merged into one cluster")
	maxBackboneCollisionPerChain      = flag.Float64("maxBackboneCollisionPerChain", 0.10, "Maximum fraction of a chain's backbone atoms allowed to collide")
	minTemperatureToConsiderCollision = flag.Float64("minTemperatureToConsiderCollision", 0, "Confidence floor below which an atom is excluded from collision checks")
	maxResultPerResSet                = flag.Int("maxResultPerResSet", 0, "Max SuperBBs kept per distinct chain-slot identity; defaults to bestK")
	outputFileNamePrefix              = flag.String("outputFileNamePrefix", "output", "Prefix for <prefix>.res, <prefix>_clustered.res and <prefix>.log")
	configPath                        = flag.String("config", "", "Optional JSON file overlaying the static algorithm constants")
	workers                           = flag.Int("workers", runtime.NumCPU(), "Worker goroutines per size band")
	timeout                           = flag.Duration("timeout", 0, "Wall-clock budget for the search; 0 means unbounded")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] chainList transFilesPrefix transNumPerPair bestK restraintsFile\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositional := flag.NArg()
	positional := allArgs[len(allArgs)-nPositional:]
	if nPositional != 5 {
		fmt.Fprintf(os.Stderr, "expected 5 positional arguments (chainList transFilesPrefix transNumPerPair bestK restraintsFile), got %d\n", nPositional)
		usage()
		os.Exit(2)
	}
	chainListPath := positional[0]
	transFilesPrefix := positional[1]
	transNumPerPair, err := strconv.Atoi(positional[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad transNumPerPair %q: %v\n", positional[2], err)
		os.Exit(2)
	}
	bestK, err := strconv.Atoi(positional[3])
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad bestK %q: %v\n", positional[3], err)
		os.Exit(2)
	}
	restraintsFile := positional[4]

	maxPerResSet := *maxResultPerResSet
	if maxPerResSet <= 0 {
		maxPerResSet = bestK
	}

	os.Exit(run(chainListPath, transFilesPrefix, transNumPerPair, bestK, restraintsFile, maxPerResSet))
}

// run does the real work and returns the process exit code, so defers
// (log file close, etc.) still fire before main calls os.Exit.
func run(chainListPath, transFilesPrefix string, transNumPerPair, bestK int, restraintsFile string, maxPerResSet int) int {
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error.Printf("%v", err)
		return 2
	}

	sl, err := searchlog.New(*outputFileNamePrefix + ".log")
	if err != nil {
		log.Error.Printf("combfold: opening log file: %v", err)
		return 1
	}
	defer sl.Close()

	spec, err := slots.Load(chainListPath, cfg.GridResolution)
	if err != nil {
		sl.Warnf("input parse error: %v", err)
		return 2
	}

	typeNames := make([]string, len(spec.Types))
	for i, ty := range spec.Types {
		typeNames[i] = ty.Name
	}
	index, err := pairtransform.LoadDir(transFilesPrefix, typeNames, transNumPerPair)
	if err != nil {
		sl.Warnf("input parse error: %v", err)
		return 2
	}

	var restraints []*restraint.Restraint
	if restraintsFile != "" {
		restraints, err = restraint.Load(restraintsFile, spec)
		if err != nil {
			sl.Warnf("input parse error: %v", err)
			return 2
		}
	}
	if alwaysUnsatisfiable(restraints, spec) {
		sl.Warnf("constraint-always-unsatisfiable: a restraint's dMax is exceeded by the minimum possible placement distance")
		return 4
	}

	policy := superbb.Policy{
		PenetrationThr:                    *penetrationThr,
		RestraintsRatio:                   *restraintsRatio,
		MaxBackboneCollisionPerChain:      *maxBackboneCollisionPerChain,
		MinTemperatureToConsiderCollision: *minTemperatureToConsiderCollision,
	}
	folder := &fold.Folder{
		Spec:       spec,
		Index:      index,
		Restraints: restraints,
		Config:     cfg,
		Policy:     policy,
		Params: fold.Params{
			BestK:              bestK,
			MaxResultPerResSet: maxPerResSet,
			TransNumPerPair:    transNumPerPair,
			Workers:            *workers,
		},
		Log: sl,
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := folder.Run(ctx)
	sl.Infof("search finished in %s", time.Since(start))
	if err != nil {
		if assemblyerr.Is(err, assemblyerr.NoAssembly) {
			sl.Warnf("no assembly found: %v", err)
			return 3
		}
		sl.Warnf("fatal: %v", err)
		return 1
	}
	if result.TimedOut {
		sl.Warnf("timed out after %s; flushing partial best-%d from band %d", *timeout, bestK, result.SizeReached)
	}

	if err := writeResults(*outputFileNamePrefix+".res", result.Survivors, spec); err != nil {
		sl.Warnf("%v", err)
		return 1
	}
	clustered := cluster.Cluster(result.Survivors, spec, *clusterRMSD, bestK)
	if err := writeResults(*outputFileNamePrefix+"_clustered.res", clustered, spec); err != nil {
		sl.Warnf("%v", err)
		return 1
	}
	sl.Infof("wrote %d survivors, %d clustered", len(result.Survivors), len(clustered))
	return 0
}

// alwaysUnsatisfiable reports whether some restraint has an empty allowed
// distance range (dMax < 0, or dMin > dMax), which no placement can
// satisfy regardless of search outcome. Restraints with a non-empty range
// that no placement reaches are not detected here; they surface as every
// candidate violating them, i.e. exit 3 (NoAssembly) rather than exit 4.
func alwaysUnsatisfiable(restraints []*restraint.Restraint, spec *slots.Spec) bool {
	for _, r := range restraints {
		if r.DMax < 0 || r.DMin > r.DMax {
			return true
		}
	}
	return false
}
