package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ChristopherRabotin/droneod"
	kitlog "github.com/go-kit/kit/log"
	"gonum.org/v1/gonum/mat"
)

const defaultScenario = "~~unset~~"

var (
	scenario string
	wg       sync.WaitGroup
)

var debug = flag.Bool("debug", false, "verbose debug")

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "estimation scenario TOML file")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "scenario", scenario)

	s, err := droneod.ReadScenario(scenario)
	if err != nil {
		log.Fatalf("%s", err)
	}

	traj, err := droneod.LoadTrajectory(s.DataFile)
	if err != nil {
		log.Fatalf("%s", err)
	}
	logger.Log("msg", "trajectory loaded", "records", traj.Len(), "dt", fmt.Sprintf("%f", traj.Dt()), "noisy", s.Noisy)

	est, err := droneod.NewEstimator(s, traj, logger)
	if err != nil {
		log.Fatalf("%s", err)
	}

	// Stream estimates to CSV as they come in.
	estChan := make(chan droneod.Estimate, 1)
	go processEst(s.OutPrefix, traj, estChan)

	var elapsed time.Duration
	for i := 1; i < traj.Len(); i++ {
		start := time.Now()
		stepEst, serr := est.Step(i)
		elapsed += time.Since(start)
		if serr != nil {
			log.Fatalf("[ERR!] (#%05d) %s", i, serr)
		}
		if *debug {
			fmt.Printf("[step] (%05d) %+v\n", i, mat.Formatted(stepEst.State().T()))
		}
		estChan <- stepEst
	}
	close(estChan)
	wg.Wait()

	meanStep := elapsed / time.Duration(traj.Len()-1)
	logger.Log("msg", "run complete", "filter", est.Name(), "meanStep", meanStep)

	report := droneod.Summarize(traj, est.History(), droneod.StdLandmark)
	fmt.Println(report)

	if s.PlotDir != "" {
		if err := droneod.RenderPlots(s.PlotDir, est.Name(), traj.T, traj.X, est.History()); err != nil {
			log.Fatalf("plots: %s", err)
		}
		logger.Log("msg", "plots rendered", "dir", s.PlotDir)
	}

	if s.ArchiveDB != "" {
		db, err := droneod.OpenDB(s.ArchiveDB)
		if err != nil {
			log.Fatalf("archive: %s", err)
		}
		defer db.Close()
		runID, err := db.SaveRun(s.Name, est.Name(), s.DataFile, traj.Dt(), meanStep, report)
		if err != nil {
			log.Fatalf("archive: %s", err)
		}
		if err := db.SaveEstimates(runID, traj.T, est.History()); err != nil {
			log.Fatalf("archive: %s", err)
		}
		logger.Log("msg", "run archived", "db", s.ArchiveDB, "run", runID)
	}
}

// processEst writes the seeded estimate and then every streamed estimate to
// the CSV export.
func processEst(prefix string, traj *droneod.Trajectory, estChan chan droneod.Estimate) {
	wg.Add(1)
	ce, err := droneod.NewCSVExporter(droneod.StateHeaders, ".", prefix+".csv")
	if err != nil {
		panic(err)
	}
	ce.Write(traj.T[0], traj.StateAt(0))
	i := 1
	for {
		est, more := <-estChan
		if !more {
			ce.Close()
			wg.Done()
			break
		}
		if err := ce.Write(traj.T[i], est.State()); err != nil {
			panic(err)
		}
		i++
	}
}
