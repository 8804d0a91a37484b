package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/manorajesh/halide/internal/halide"
)

func main() {
	halide.Debug = os.Getenv("DEBUG") != ""
	halide.UseLocks = os.Getenv("SKIP_LOCKS") == ""
	halide.PNG16 = os.Getenv("PNG16") != ""
	halide.Progress = os.Getenv("QUIET") == ""
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "film.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := halide.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
