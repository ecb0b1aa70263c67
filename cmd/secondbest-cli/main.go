// Command secondbest-cli runs the Second Best! solver's line-based
// command protocol against stdin/stdout, for interactive use or for a
// program driving it over a pipe.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/WannesMalfait/Second-Best--Solver/internal/cli"
	"github.com/WannesMalfait/Second-Best--Solver/internal/storage"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	c := cli.New(os.Stdout)

	store, err := storage.NewStorage()
	if err != nil {
		log.Printf("warning: benchmark statistics unavailable: %v", err)
	} else {
		defer store.Close()
		c.AttachStorage(store)
	}

	c.Run(os.Stdin)
}
