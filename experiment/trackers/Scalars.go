package trackers

import (
	"encoding/gob"
	"log"
	"os"
)

// Scalars tracks and saves the diagnostic scalars of every training
// iteration. The iterations are gob-encoded to a file when Save is
// called, and can be read back with LoadIterations.
type Scalars struct {
	iterations []Iteration
	filename   string
}

// NewScalars creates and returns a new *Scalars Tracker which saves
// its data to filename
func NewScalars(filename string) Tracker {
	return &Scalars{filename: filename}
}

// Track caches the diagnostics of a single training iteration
func (s *Scalars) Track(i Iteration) {
	s.iterations = append(s.iterations, i)
}

// Save saves the data tracked by the Scalars Tracker to disk.
func (s *Scalars) Save() {
	file, err := os.Create(s.filename)
	if err != nil {
		log.Fatalf("could not open save file: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err = en.Encode(s.iterations); err != nil {
		log.Fatalf("could not encode iteration data: %v", err)
	}
}

// LoadIterations loads and returns the data saved by a Scalars Tracker
func LoadIterations(filename string) []Iteration {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("could not open data file: %v", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []Iteration

	err = dec.Decode(&data)
	if err != nil {
		log.Fatalf("could not decode data: %v", err)
	}

	return data
}
