package main

import (
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/spatial/r1"
	"sfneuman.com/gocem/agent/cem"
	"sfneuman.com/gocem/environment"
	"sfneuman.com/gocem/environment/classiccontrol/cartpole"
	"sfneuman.com/gocem/experiment/trackers"
)

func main() {
	var seed uint64 = 192382

	// Create the environment
	bounds := r1.Interval{Min: -0.05, Max: 0.05}

	s := environment.NewUniformStarter([]r1.Interval{bounds, bounds, bounds,
		bounds}, seed)
	task := cartpole.NewBalance(s, 200, cartpole.FailAngle,
		cartpole.FailPosition)
	env, _, err := cartpole.New(task, 1.0)
	if err != nil {
		log.Fatalf("could not create environment: %v", err)
	}

	// Create the learning algorithm
	config := cem.Config{
		HiddenSize:      128,
		BatchSize:       16,
		Percentile:      70,
		LearningRate:    0.01,
		SolvedThreshold: cem.DefaultSolvedThreshold,
		MaxIterations:   500,
	}
	agent, err := cem.New(env, config, seed,
		trackers.NewConsole(os.Stdout),
		trackers.NewScalars("./data.bin"),
	)
	if err != nil {
		log.Fatalf("could not create agent: %v", err)
	}
	defer agent.Close()

	if err := agent.Run(); err != nil {
		log.Fatalf("could not solve environment: %v", err)
	}
	fmt.Println("solved!")

	data := trackers.LoadIterations("./data.bin")
	fmt.Printf("solved after %d iterations\n", len(data))
}
