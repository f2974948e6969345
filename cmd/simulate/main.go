// Runs one simulated study day against a scratch in-memory database.
// Useful for eyeballing the full learning loop without a running server.
package main

import "github.com/quizhabit/backend/internal/simulation"

func main() {
	simulation.SimulateStudyDay()
}
